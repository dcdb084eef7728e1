package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

func TestBuildTicketWhere_Empty(t *testing.T) {
	where, args := buildTicketWhere(TicketFilter{Search: "   "})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestBuildTicketWhere_AllFilters(t *testing.T) {
	status := domain.TicketStatusPending
	priority := domain.TicketPriorityHigh
	building := "Teleposta Tower"
	deptID := int64(4)

	where, args := buildTicketWhere(TicketFilter{
		Status:       &status,
		Priority:     &priority,
		BuildingName: &building,
		DepartmentID: &deptID,
		Search:       " printer ",
	})

	assert.Equal(t,
		"1=1 AND t.status=$1 AND t.priority=$2 AND LOWER(b.name)=LOWER($3) AND t.department_id=$4"+
			" AND (t.description ILIKE $5 OR t.contact_person ILIKE $5 OR t.issue_type ILIKE $5)",
		where)
	assert.Equal(t, []any{"pending", "high", "Teleposta Tower", int64(4), "%printer%"}, args)
}

func TestBuildTicketWhere_EscapesLikeWildcards(t *testing.T) {
	_, args := buildTicketWhere(TicketFilter{Search: "100%_done"})
	assert.Equal(t, []any{`%100\%\_done%`}, args)
}
