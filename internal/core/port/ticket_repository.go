package port

import (
	"context"

	"github.com/arklim/cinema-booking/internal/core/domain"
)

// TicketRepository exposes versioned persistence behavior for tickets.
// CountByMovie returns the number of live tickets allocated against a movie;
// ExistsByMovie backs the referential delete guard.
type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	CountByMovie(ctx context.Context, movieID string) (int, error)
	ExistsByMovie(ctx context.Context, movieID string) (bool, error)
	Update(ctx context.Context, ticket domain.Ticket, expectedVersion string) error
	Delete(ctx context.Context, id string) error
}
