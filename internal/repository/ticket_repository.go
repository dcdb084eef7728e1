package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// TicketFilter captures listing parameters. Zero values do not filter.
// Building and department may be given by id or by name.
type TicketFilter struct {
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	BuildingID     *int64
	BuildingName   *string
	DepartmentID   *int64
	DepartmentName *string
	AssignedToID   *int64
	Search         string
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int, error)
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
	CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error)
	CountByBuilding(ctx context.Context) (map[string]int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketSelect = `
        SELECT t.id, t.building_id, b.name, t.floor_id, f.label, t.department_id, d.name,
               t.issue_type, t.description, t.contact_person, t.phone_number, t.priority, t.status,
               t.assigned_to, t.assigned_to_id, t.created_at, t.updated_at, t.resolved_at,
               t.notes, t.rating, t.rating_comment
        FROM support_tickets t
        JOIN buildings b ON b.id = t.building_id
        JOIN floors f ON f.id = t.floor_id
        JOIN departments d ON d.id = t.department_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO support_tickets (building_id, floor_id, department_id, issue_type, description,
            contact_person, phone_number, priority, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
        RETURNING id`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		ticket.BuildingID,
		ticket.FloorID,
		ticket.DepartmentID,
		ticket.IssueType,
		ticket.Description,
		ticket.ContactPerson,
		ticket.PhoneNumber,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedAt,
	).Scan(&ticket.ID)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE support_tickets SET priority=$1, status=$2, assigned_to=$3, assigned_to_id=$4,
            updated_at=$5, resolved_at=$6, notes=$7, rating=$8, rating_comment=$9
        WHERE id=$10`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedTo,
		ticket.AssignedToID,
		ticket.UpdatedAt,
		ticket.ResolvedAt,
		ticket.Notes,
		ticket.Rating,
		ticket.RatingComment,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM support_tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return scanTicket(conn(ctx, r.pool).QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	where, args := buildTicketWhere(filter)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC, t.id DESC`, ticketSelect, where)
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, filter.Limit, offset)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int, error) {
	where, args := buildTicketWhere(filter)
	query := fmt.Sprintf(`
        SELECT COUNT(*) FROM support_tickets t
        JOIN buildings b ON b.id = t.building_id
        JOIN departments d ON d.id = t.department_id
        WHERE %s`, where)
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	counts := make(map[domain.TicketStatus]int)
	err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM support_tickets GROUP BY status`, func(key string, n int) {
		counts[domain.TicketStatus(key)] = n
	})
	return counts, err
}

func (r *ticketRepository) CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error) {
	counts := make(map[domain.TicketPriority]int)
	err := r.groupCount(ctx, `SELECT priority, COUNT(*) FROM support_tickets GROUP BY priority`, func(key string, n int) {
		counts[domain.TicketPriority(key)] = n
	})
	return counts, err
}

func (r *ticketRepository) CountByBuilding(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	err := r.groupCount(ctx, `
        SELECT b.name, COUNT(*) FROM support_tickets t
        JOIN buildings b ON b.id = t.building_id
        GROUP BY b.name`, func(key string, n int) {
		counts[key] = n
	})
	return counts, err
}

func (r *ticketRepository) groupCount(ctx context.Context, query string, collect func(key string, n int)) error {
	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		collect(key, n)
	}
	return rows.Err()
}

// buildTicketWhere renders filter as a WHERE clause over the aliases used by
// ticketSelect (t, b, d) with positional arguments.
func buildTicketWhere(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}
	if filter.BuildingID != nil {
		args = append(args, *filter.BuildingID)
		clauses = append(clauses, fmt.Sprintf("t.building_id=$%d", len(args)))
	}
	if filter.BuildingName != nil {
		args = append(args, *filter.BuildingName)
		clauses = append(clauses, fmt.Sprintf("LOWER(b.name)=LOWER($%d)", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("t.department_id=$%d", len(args)))
	}
	if filter.DepartmentName != nil {
		args = append(args, *filter.DepartmentName)
		clauses = append(clauses, fmt.Sprintf("LOWER(d.name)=LOWER($%d)", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to_id=$%d", len(args)))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(t.description ILIKE %[1]s OR t.contact_person ILIKE %[1]s OR t.issue_type ILIKE %[1]s)", placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.BuildingID,
		&ticket.BuildingName,
		&ticket.FloorID,
		&ticket.FloorLabel,
		&ticket.DepartmentID,
		&ticket.DepartmentName,
		&ticket.IssueType,
		&ticket.Description,
		&ticket.ContactPerson,
		&ticket.PhoneNumber,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.AssignedToID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.Notes,
		&ticket.Rating,
		&ticket.RatingComment,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
