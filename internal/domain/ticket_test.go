package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketStatusValid(t *testing.T) {
	for _, s := range TicketStatuses {
		assert.True(t, s.Valid(), s)
	}
	for _, s := range []TicketStatus{"", "open", "RESOLVED", "done"} {
		assert.False(t, s.Valid(), s)
	}
}

func TestApplyStatusKeepsResolvedAt(t *testing.T) {
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	tk := &Ticket{ID: 3, Status: TicketStatusPending, CreatedAt: created, UpdatedAt: created}

	resolvedAt := created.Add(time.Hour)
	tk.ApplyStatus(TicketStatusResolved, resolvedAt)
	require.NotNil(t, tk.ResolvedAt)
	assert.Equal(t, resolvedAt, *tk.ResolvedAt)
	assert.False(t, tk.ResolvedAt.Before(tk.CreatedAt))

	tk.ApplyStatus(TicketStatusInProgress, resolvedAt.Add(time.Hour))
	require.NotNil(t, tk.ResolvedAt)
	assert.Equal(t, resolvedAt, *tk.ResolvedAt)
	assert.Equal(t, resolvedAt.Add(time.Hour), tk.UpdatedAt)
}

func TestApplyStatusStampsOnlyOnEntryToResolved(t *testing.T) {
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	tk := &Ticket{ID: 4, Status: TicketStatusPending, CreatedAt: created}

	first := created.Add(time.Hour)
	tk.ApplyStatus(TicketStatusResolved, first)
	tk.ApplyStatus(TicketStatusResolved, first.Add(time.Hour))
	require.NotNil(t, tk.ResolvedAt)
	assert.Equal(t, first, *tk.ResolvedAt, "resolved to resolved keeps the first stamp")
	assert.Equal(t, first.Add(time.Hour), tk.UpdatedAt)

	reopened := first.Add(2 * time.Hour)
	tk.ApplyStatus(TicketStatusInProgress, reopened)
	tk.ApplyStatus(TicketStatusResolved, reopened.Add(time.Hour))
	assert.Equal(t, reopened.Add(time.Hour), *tk.ResolvedAt, "re-entering resolved stamps again")
}

func TestNotifications(t *testing.T) {
	tk := &Ticket{ID: 42}
	assert.Contains(t, tk.CreatedNotification(), "#42")
	assert.Equal(t, "ICT team is working on your issue", TicketStatusInProgress.Notification())
	assert.Equal(t, "Ticket status: archived", TicketStatus("archived").Notification())
}
