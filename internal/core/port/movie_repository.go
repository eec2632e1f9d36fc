package port

import (
	"context"

	"github.com/arklim/cinema-booking/internal/core/domain"
)

// MovieRepository exposes versioned persistence behavior for movies.
type MovieRepository interface {
	Create(ctx context.Context, movie domain.Movie) error
	GetByID(ctx context.Context, id string) (*domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
	Update(ctx context.Context, movie domain.Movie, expectedVersion string) error
	Delete(ctx context.Context, id string) error
}
