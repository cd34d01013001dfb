package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/postboard/postboard/internal/domain"
	apperrors "github.com/postboard/postboard/pkg/errors"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateRefreshTokenHash(ctx context.Context, userID, digest string) error {
	return m.Called(ctx, userID, digest).Error(0)
}

func (m *mockUserRepo) FindPage(ctx context.Context, skip, take int) ([]domain.User, error) {
	args := m.Called(ctx, skip, take)
	if u := args.Get(0); u != nil {
		return u.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Create(ctx context.Context, post *domain.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepo) FindPage(ctx context.Context, skip, take int) ([]domain.Post, error) {
	args := m.Called(ctx, skip, take)
	if p := args.Get(0); p != nil {
		return p.([]domain.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic, eventType, key string, payload any) error {
	return m.Called(ctx, topic, eventType, key, payload).Error(0)
}

// memUserRepo is an in-memory user store for end-to-end service tests
// that exercise real hashing and token rotation.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.DuplicateEmail(user.Email)
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) UpdateRefreshTokenHash(_ context.Context, userID, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.NotFound("user", userID)
	}
	u.RefreshTokenHash = digest
	return nil
}

func (r *memUserRepo) FindPage(_ context.Context, _, _ int) ([]domain.User, error) {
	return nil, nil
}

func (r *memUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("user", id)
	}
	delete(r.users, id)
	return nil
}
