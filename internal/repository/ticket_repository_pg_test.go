package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/testutil"
)

type ticketSite struct {
	tower, annex       int64
	towerFloor, annexG int64
	ict                int64
}

func seedSite(t *testing.T, ctx context.Context, pool *pgxpool.Pool) ticketSite {
	t.Helper()
	var s ticketSite
	insert := func(dst *int64, query string, args ...any) {
		require.NoError(t, pool.QueryRow(ctx, query, args...).Scan(dst))
	}
	insert(&s.tower, `INSERT INTO buildings (name, floors) VALUES ('Teleposta Tower', 20) RETURNING id`)
	insert(&s.annex, `INSERT INTO buildings (name) VALUES ('Annex') RETURNING id`)
	insert(&s.towerFloor, `INSERT INTO floors (building_id, label) VALUES ($1, '15') RETURNING id`, s.tower)
	insert(&s.annexG, `INSERT INTO floors (building_id, label) VALUES ($1, 'Ground Floor') RETURNING id`, s.annex)
	insert(&s.ict, `INSERT INTO departments (name) VALUES ('ICT Department') RETURNING id`)
	return s
}

func newTicket(site ticketSite, building, floor int64, issue, desc string, priority domain.TicketPriority, at time.Time) *domain.Ticket {
	return &domain.Ticket{
		BuildingID:   building,
		FloorID:      floor,
		DepartmentID: site.ict,
		IssueType:    issue,
		Description:  desc,
		Priority:     priority,
		Status:       domain.TicketStatusPending,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

func TestTicketRepository_Postgres(t *testing.T) {
	pool := testutil.PostgresPool(t)
	ctx := context.Background()
	site := seedSite(t, ctx, pool)
	repo := NewTicketRepository(pool)

	base := time.Now().UTC().Truncate(time.Second)
	wifi := newTicket(site, site.tower, site.towerFloor, "WiFi Connectivity", "slow wifi", domain.TicketPriorityMedium, base)
	printer := newTicket(site, site.tower, site.towerFloor, "Printer", "tray 100% jammed", domain.TicketPriorityHigh, base.Add(time.Minute))
	projector := newTicket(site, site.annex, site.annexG, "Projector", "no signal", domain.TicketPriorityLow, base.Add(2*time.Minute))
	for _, tk := range []*domain.Ticket{wifi, printer, projector} {
		require.NoError(t, repo.Create(ctx, tk))
		require.NotZero(t, tk.ID)
	}

	t.Run("get joins directory names", func(t *testing.T) {
		got, err := repo.GetByID(ctx, wifi.ID)
		require.NoError(t, err)
		assert.Equal(t, "Teleposta Tower", got.BuildingName)
		assert.Equal(t, "15", got.FloorLabel)
		assert.Equal(t, "ICT Department", got.DepartmentName)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("list newest first with paging", func(t *testing.T) {
		all, err := repo.List(ctx, TicketFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{projector.ID, printer.ID, wifi.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

		page, err := repo.List(ctx, TicketFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, printer.ID, page[0].ID)
	})

	t.Run("filters and counts agree", func(t *testing.T) {
		name := "teleposta tower"
		filter := TicketFilter{BuildingName: &name}
		list, err := repo.List(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		dept := "ICT department"
		total, err = repo.Count(ctx, TicketFilter{DepartmentName: &dept, Search: "WIFI"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("search treats like wildcards literally", func(t *testing.T) {
		list, err := repo.List(ctx, TicketFilter{Search: "%"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, printer.ID, list[0].ID)

		list, err = repo.List(ctx, TicketFilter{Search: "_"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("update persists workflow fields", func(t *testing.T) {
		resolvedAt := base.Add(time.Hour)
		rating := 5
		assignee := "Juma"
		wifi.ApplyStatus(domain.TicketStatusResolved, resolvedAt)
		wifi.AssignedTo = &assignee
		wifi.Rating = &rating
		require.NoError(t, repo.Update(ctx, wifi))

		got, err := repo.GetByID(ctx, wifi.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusResolved, got.Status)
		require.NotNil(t, got.ResolvedAt)
		assert.True(t, resolvedAt.Equal(*got.ResolvedAt))
		assert.Equal(t, &assignee, got.AssignedTo)
		assert.Equal(t, &rating, got.Rating)
	})

	t.Run("aggregates", func(t *testing.T) {
		byStatus, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[domain.TicketStatus]int{domain.TicketStatusPending: 2, domain.TicketStatusResolved: 1}, byStatus)

		byPriority, err := repo.CountByPriority(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, byPriority[domain.TicketPriorityHigh])

		byBuilding, err := repo.CountByBuilding(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Teleposta Tower": 2, "Annex": 1}, byBuilding)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, projector.ID))
		_, err := repo.GetByID(ctx, projector.ID)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.ErrorIs(t, repo.Delete(ctx, projector.ID), pgx.ErrNoRows)
		assert.ErrorIs(t, repo.Update(ctx, projector), pgx.ErrNoRows)
	})
}

func TestTransactor_Postgres_RollsBack(t *testing.T) {
	pool := testutil.PostgresPool(t)
	ctx := context.Background()
	site := seedSite(t, ctx, pool)
	repo := NewTicketRepository(pool)
	tx := NewTransactor(pool)

	boom := errors.New("abort")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		tk := newTicket(site, site.tower, site.towerFloor, "Printer", "jam", domain.TicketPriorityMedium, time.Now().UTC())
		if err := repo.Create(ctx, tk); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	total, err := repo.Count(ctx, TicketFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
