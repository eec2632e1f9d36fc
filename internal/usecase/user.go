package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/policy"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/infra/logger"
	"github.com/arklim/cinema-booking/internal/infra/security"
)

// UserService implements account management for all three user kinds. Every
// entry point takes the caller's principal plus the resource kind implied by
// the route, and consults the policy matrix before touching storage.
type UserService struct {
	users  port.UserRepository
	events port.EventPublisher
	log    *zap.Logger
}

// NewUserService constructs a user service.
func NewUserService(users port.UserRepository, events port.EventPublisher, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, events: events, log: log}
}

func roleForKind(kind policy.ResourceKind) (domain.Role, bool) {
	switch kind {
	case policy.ClientUser:
		return domain.RoleClient, true
	case policy.StaffUser:
		return domain.RoleStaff, true
	case policy.AdminUser:
		return domain.RoleAdmin, true
	}
	return "", false
}

// fetchOfKind loads a user and hides role mismatches behind not-found so a
// client id probed through the staff route does not leak its existence.
func (s *UserService) fetchOfKind(ctx context.Context, kind policy.ResourceKind, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if policy.UserKind(user.Role) != kind {
		return nil, ErrNotFound
	}
	return user, nil
}

// decideOnMissing converts a policy outcome on an absent resource into the
// externally visible error: callers without the permission see forbidden,
// callers with it see not found.
func decideOnMissing(p domain.Principal, op policy.Operation, kind policy.ResourceKind) error {
	if policy.Decide(p, op, kind, "") == policy.Deny {
		return ErrForbidden
	}
	return ErrNotFound
}

// Register creates a user of the given kind. Anonymous callers may only
// self-register a client account; staff and admins create accounts per the
// matrix.
func (s *UserService) Register(ctx context.Context, p domain.Principal, kind policy.ResourceKind, login, password string) (*domain.User, error) {
	if policy.Decide(p, policy.Create, kind, "") == policy.Deny {
		return nil, ErrForbidden
	}

	role, ok := roleForKind(kind)
	if !ok {
		return nil, ErrForbidden
	}

	if err := domain.ValidateLogin(login); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		Version:      nextVersion(),
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapRepoError(err)
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("login", logger.MaskLogin(login)),
		zap.String("role", string(role)),
	)

	if err := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Login:        user.Login,
		Role:         user.Role,
		RegisteredAt: now,
	}); err != nil {
		s.log.Warn("publish user registered event failed", zap.Error(err))
	}

	return &user, nil
}

// Get returns a single user of the given kind.
func (s *UserService) Get(ctx context.Context, p domain.Principal, kind policy.ResourceKind, id string) (*domain.User, error) {
	op := policy.ReadOne
	if p.UserID == id {
		op = policy.ReadSelf
	}

	user, err := s.fetchOfKind(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, decideOnMissing(p, op, kind)
		}
		return nil, err
	}

	if policy.Decide(p, op, kind, user.ID) == policy.Deny {
		return nil, ErrForbidden
	}
	return user, nil
}

// GetSelf returns the caller's own account.
func (s *UserService) GetSelf(ctx context.Context, p domain.Principal) (*domain.User, error) {
	if p.IsAnonymous() {
		return nil, ErrForbidden
	}
	kind := policy.UserKind(p.Role)
	if policy.Decide(p, policy.ReadSelf, kind, p.UserID) == policy.Deny {
		return nil, ErrForbidden
	}

	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

// List returns users of the given kind matching the filter.
func (s *UserService) List(ctx context.Context, p domain.Principal, kind policy.ResourceKind, filter port.UserFilter) ([]domain.User, error) {
	if policy.Decide(p, policy.ReadMany, kind, "") == policy.Deny {
		return nil, ErrForbidden
	}

	role, ok := roleForKind(kind)
	if !ok {
		return nil, ErrForbidden
	}
	filter.Role = role

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return users, nil
}

// ProfileUpdate carries the mutable user fields. Login and id never change
// after creation; when present in the payload they must echo the stored
// values, anything else is a malformed request.
type ProfileUpdate struct {
	ID       string
	Login    string
	Password string
}

// UpdateProfile replaces the mutable fields of a user. The expected version
// comes from the caller's last read; a nil version is rejected before any
// storage access.
func (s *UserService) UpdateProfile(ctx context.Context, p domain.Principal, kind policy.ResourceKind, id string, update ProfileUpdate, expectedVersion *string) (*domain.User, error) {
	op := policy.UpdateOther
	if p.UserID == id {
		op = policy.UpdateSelf
	}

	user, err := s.fetchOfKind(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, decideOnMissing(p, op, kind)
		}
		return nil, err
	}

	if policy.Decide(p, op, kind, user.ID) == policy.Deny {
		return nil, ErrForbidden
	}

	if err := checkIdentity("id", update.ID, user.ID); err != nil {
		return nil, err
	}
	if err := checkIdentity("login", update.Login, user.Login); err != nil {
		return nil, err
	}

	if err := checkVersion(expectedVersion, user.Version); err != nil {
		return nil, err
	}

	if update.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	passwordHash, err := security.HashPassword(update.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	updated := *user
	updated.PasswordHash = passwordHash
	updated.Version = nextVersion()

	if err := s.users.Update(ctx, updated, user.Version); err != nil {
		return nil, mapRepoError(err)
	}

	s.log.Info("user profile updated",
		zap.String("user_id", id),
		zap.String("actor_id", p.UserID),
	)
	return &updated, nil
}

// SetActive activates or deactivates a user. Lifecycle changes do not demand
// a version from the caller; the compare-and-swap on the version read within
// this request still rejects racing writers.
func (s *UserService) SetActive(ctx context.Context, p domain.Principal, kind policy.ResourceKind, id string, active bool) (*domain.User, error) {
	op := policy.Deactivate
	if active {
		op = policy.Activate
	}

	user, err := s.fetchOfKind(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, decideOnMissing(p, op, kind)
		}
		return nil, err
	}

	if policy.Decide(p, op, kind, user.ID) == policy.Deny {
		return nil, ErrForbidden
	}

	updated := *user
	updated.Active = active
	updated.Version = nextVersion()

	if err := s.users.Update(ctx, updated, user.Version); err != nil {
		return nil, mapRepoError(err)
	}

	now := time.Now().UTC()
	s.log.Info("user lifecycle changed",
		zap.String("user_id", id),
		zap.Bool("active", active),
		zap.String("actor_id", p.UserID),
	)

	if err := s.events.PublishUserLifecycleChanged(ctx, domain.UserLifecycleEvent{
		EventID:   uuid.NewString(),
		UserID:    id,
		Active:    active,
		ChangedBy: p.UserID,
		ChangedAt: now,
	}); err != nil {
		s.log.Warn("publish user lifecycle event failed", zap.Error(err))
	}

	return &updated, nil
}

// Delete removes a user account permanently.
func (s *UserService) Delete(ctx context.Context, p domain.Principal, kind policy.ResourceKind, id string) error {
	user, err := s.fetchOfKind(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decideOnMissing(p, policy.Delete, kind)
		}
		return err
	}

	if policy.Decide(p, policy.Delete, kind, user.ID) == policy.Deny {
		return ErrForbidden
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	s.log.Info("user deleted",
		zap.String("user_id", id),
		zap.String("actor_id", p.UserID),
	)
	return nil
}
