package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/repository"
)

// TicketRepository implements port.TicketRepository using PostgreSQL.
type TicketRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTicketRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewTicketRepository(exec pgExecutor) *TicketRepository {
	return &TicketRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new ticket row.
func (r *TicketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	stmt, args, err := r.builder.Insert("booking.tickets").
		Columns("id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at").
		Values(ticket.ID, ticket.OwnerID, ticket.MovieID, ticket.ScreeningTime, ticket.FinalPriceCents, ticket.Version, ticket.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert ticket sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}

// GetByID retrieves a ticket by identifier.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	stmt, args, err := r.builder.
		Select("id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at").
		From("booking.tickets").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select ticket sql: %w", err)
	}

	var ticket domain.Ticket
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&ticket.ID, &ticket.OwnerID, &ticket.MovieID, &ticket.ScreeningTime, &ticket.FinalPriceCents, &ticket.Version, &ticket.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}

	return &ticket, nil
}

// ListByOwner returns all tickets belonging to the given user.
func (r *TicketRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	return r.list(ctx, squirrel.Eq{"owner_id": ownerID})
}

// List returns the whole ticket ledger ordered by creation time.
func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, nil)
}

func (r *TicketRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.Ticket, error) {
	query := r.builder.
		Select("id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at").
		From("booking.tickets").
		OrderBy("created_at ASC")
	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tickets sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.OwnerID, &ticket.MovieID, &ticket.ScreeningTime, &ticket.FinalPriceCents, &ticket.Version, &ticket.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

// CountByMovie returns the number of live tickets allocated against the movie.
func (r *TicketRepository) CountByMovie(ctx context.Context, movieID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("booking.tickets").
		Where(squirrel.Eq{"movie_id": movieID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count tickets sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan tickets count: %w", err)
	}

	return int(count), nil
}

// ExistsByMovie reports whether any live ticket still references the movie.
func (r *TicketRepository) ExistsByMovie(ctx context.Context, movieID string) (bool, error) {
	count, err := r.CountByMovie(ctx, movieID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update applies the supplied state under a version precondition.
func (r *TicketRepository) Update(ctx context.Context, ticket domain.Ticket, expectedVersion string) error {
	stmt, args, err := r.builder.Update("booking.tickets").
		Set("screening_time", ticket.ScreeningTime).
		Set("version", ticket.Version).
		Where(squirrel.Eq{"id": ticket.ID, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update ticket sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}

	if ct.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, ticket.ID); err != nil {
			return err
		}
		return repository.ErrVersionConflict
	}

	return nil
}

// Delete removes a ticket row, failing with ErrNotFound when it does not exist.
// Removing a ticket releases its seat for the next allocation.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("booking.tickets").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete ticket sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.TicketRepository = (*TicketRepository)(nil)
