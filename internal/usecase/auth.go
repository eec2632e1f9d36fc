package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/infra/logger"
	"github.com/arklim/cinema-booking/internal/infra/security"
	"github.com/arklim/cinema-booking/internal/repository"
)

// TokenSigner issues access tokens for authenticated users.
type TokenSigner interface {
	Sign(user domain.User) (string, error)
}

// AuthService authenticates credentials and issues access tokens.
type AuthService struct {
	users  port.UserRepository
	signer TokenSigner
	log    *zap.Logger
}

// NewAuthService constructs an auth service.
func NewAuthService(users port.UserRepository, signer TokenSigner, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, signer: signer, log: log}
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	AccessToken string
	User        domain.User
	IssuedAt    time.Time
}

// Login verifies the credentials and returns a signed access token.
// Unknown logins and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, login, password string) (LoginResult, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		s.log.Warn("login rejected",
			zap.String("login", logger.MaskLogin(login)),
		)
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.Active {
		return LoginResult{}, ErrUserInactive
	}

	token, err := s.signer.Sign(*user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("login succeeded",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return LoginResult{AccessToken: token, User: *user, IssuedAt: time.Now().UTC()}, nil
}
