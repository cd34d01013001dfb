// Package repository defines the persistence interfaces the services
// depend on.
package repository

import (
	"context"

	"github.com/postboard/postboard/internal/domain"
)

// UserRepository is the persistent user store.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateRefreshTokenHash overwrites the stored refresh-token digest
	// for the user. The previous digest is discarded, which is what
	// invalidates any earlier refresh token.
	UpdateRefreshTokenHash(ctx context.Context, userID, digest string) error

	// FindPage returns a page of users ordered newest-first.
	FindPage(ctx context.Context, skip, take int) ([]domain.User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)

	// Delete removes a user by their identifier.
	Delete(ctx context.Context, id string) error
}

// PostRepository is the persistent post store.
type PostRepository interface {
	// Create inserts a new post.
	Create(ctx context.Context, post *domain.Post) error

	// FindPage returns a page of posts ordered newest-first.
	FindPage(ctx context.Context, skip, take int) ([]domain.Post, error)

	// Count returns the total number of posts.
	Count(ctx context.Context) (int, error)
}
