package usecase

import (
	"errors"
	"fmt"

	uuid "github.com/google/uuid"

	"github.com/arklim/cinema-booking/internal/repository"
)

// checkVersion validates the version precondition of a state-changing request.
// A nil expected version means the caller never read the resource; a non-nil
// value must match the stored tag exactly.
func checkVersion(expected *string, current string) error {
	if expected == nil {
		return ErrVersionRequired
	}
	if *expected != current {
		return ErrVersionMismatch
	}
	return nil
}

// nextVersion issues a fresh opaque version tag. Tags are never reused across
// updates of the same resource.
func nextVersion() string {
	return uuid.NewString()
}

// checkIdentity rejects update payloads that try to change an immutable
// identity field. An absent field passes; a present field must echo the
// stored value exactly. The rejection is independent of the version
// precondition.
func checkIdentity(field, submitted, current string) error {
	if submitted != "" && submitted != current {
		return fmt.Errorf("%w: %s is immutable", ErrValidation, field)
	}
	return nil
}

// mapRepoError translates persistence errors into usecase errors. Conflicts
// detected by the compare-and-swap write surface as a version mismatch since
// the precondition held at read time but not at commit.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrVersionMismatch
	case errors.Is(err, repository.ErrDuplicate):
		return ErrLoginTaken
	default:
		return fmt.Errorf("repository: %w", err)
	}
}
