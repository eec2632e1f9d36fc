package port

import (
	"context"

	"github.com/arklim/cinema-booking/internal/core/domain"
)

// UserFilter narrows List results.
type UserFilter struct {
	Role   domain.Role
	Active *bool
	Limit  int
	Offset int
}

// UserRepository exposes versioned persistence behavior for users.
// Update applies the supplied state only when the stored version still equals
// expectedVersion, returning repository.ErrVersionConflict otherwise.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Update(ctx context.Context, user domain.User, expectedVersion string) error
	Delete(ctx context.Context, id string) error
}
