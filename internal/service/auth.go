// Package service implements the business logic behind the HTTP
// handlers: account lifecycle, credential verification, token issuing
// and rotation, and paginated listings.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/postboard/postboard/internal/auth"
	"github.com/postboard/postboard/internal/domain"
	"github.com/postboard/postboard/internal/event"
	"github.com/postboard/postboard/internal/hash"
	"github.com/postboard/postboard/internal/repository"
	apperrors "github.com/postboard/postboard/pkg/errors"
	"github.com/postboard/postboard/pkg/pagination"
)

// EventPublisher publishes domain events. Failures are logged and
// swallowed by the services; event delivery never gates a request.
type EventPublisher interface {
	Publish(ctx context.Context, topic, eventType, key string, payload any) error
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name          string
	Email         string
	Phone         string
	Address       *string
	Password      string
	Role          string
	IsActive      *bool
	EmailVerified bool
}

// AuthService implements registration, login, token refresh, and user
// administration.
type AuthService struct {
	users  repository.UserRepository
	hasher *hash.Hasher
	tokens *auth.TokenIssuer
	events EventPublisher
	logger *slog.Logger
}

// NewAuthService creates the authentication service.
func NewAuthService(
	users repository.UserRepository,
	hasher *hash.Hasher,
	tokens *auth.TokenIssuer,
	events EventPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// Register creates a new account. The password is stored only as a
// salted digest, and the email must not already be in use.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.DuplicateEmail(in.Email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.NewString(),
		Email:         in.Email,
		PasswordHash:  digest,
		Name:          in.Name,
		Phone:         in.Phone,
		Address:       in.Address,
		Role:          role,
		IsActive:      isActive,
		EmailVerified: in.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The unique index on email closes the race between the lookup above
	// and this insert.
	if err := s.users.Create(ctx, user); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	s.publish(ctx, event.TopicUserRegistered, "user.registered", user.ID, event.UserRegistered{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	})

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Login verifies the credentials and mints a fresh token pair, returning
// the account's public fields alongside it. Unknown email and wrong
// password return the same error, so responses do not reveal whether an
// account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.InvalidCredentials()
		}
		return nil, nil, apperrors.Internal(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, apperrors.InvalidCredentials()
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return user, pair, nil
}

// Refresh rotates the session: it verifies the presented refresh token
// against both its signature and the stored fingerprint, then mints a
// new pair and overwrites the fingerprint. The overwrite is what
// invalidates the token just presented; every failure mode returns the
// same opaque error.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.logger.DebugContext(ctx, "refresh token rejected", slog.String("reason", err.Error()))
		return nil, apperrors.InvalidRefreshToken()
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidRefreshToken()
		}
		return nil, apperrors.Internal(err)
	}

	if !user.IsActive {
		return nil, apperrors.InvalidRefreshToken()
	}

	// An empty fingerprint means no live session; a mismatch means the
	// token was already rotated out.
	if user.RefreshTokenHash == "" || !s.hasher.Verify(refreshToken, user.RefreshTokenHash) {
		return nil, apperrors.InvalidRefreshToken()
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session refreshed", slog.String("user_id", user.ID))

	return pair, nil
}

// Authenticate resolves an access token to its live user. Deactivated
// accounts are rejected here even when their tokens are still within
// their expiry window.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired access token")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired access token")
		}
		return nil, apperrors.Internal(err)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is deactivated")
	}

	return user, nil
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// DeleteUser removes a user by id.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id))

	return nil
}

// ListUsers returns a page of users with pagination metadata. The page
// and its total count are fetched concurrently.
func (s *AuthService) ListUsers(ctx context.Context, page, pageSize int) (*pagination.Result[domain.User], error) {
	bounds := pagination.Paginate(page, pageSize, 0)

	var (
		users []domain.User
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.FindPage(gctx, bounds.Skip, bounds.Take)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.users.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal(err)
	}

	pages := pagination.Paginate(page, pageSize, total)
	result := pagination.NewResult(users, pages, total)
	return &result, nil
}

// issueTokens mints an access/refresh pair and stores the refresh
// token's fingerprint, replacing whatever fingerprint was there.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refresh, err := s.tokens.IssueRefresh(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	digest, err := s.hasher.Hash(refresh)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.users.UpdateRefreshTokenHash(ctx, user.ID, digest); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) publish(ctx context.Context, topic, eventType, key string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, topic, eventType, key, payload); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}
