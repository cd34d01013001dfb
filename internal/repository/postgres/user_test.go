package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postboard/postboard/internal/domain"
	apperrors "github.com/postboard/postboard/pkg/errors"
)

func setupUserRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewUserRepository(mock), mock
}

func userColumnNames() []string {
	return []string{
		"id", "email", "password_hash", "name", "phone", "address",
		"role", "is_active", "email_verified", "refresh_token_hash",
		"created_at", "updated_at",
	}
}

func sampleUser() *domain.User {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	address := "12 Main St"
	return &domain.User{
		ID:               "u-1",
		Email:            "alice@example.com",
		PasswordHash:     "$2a$12$digest",
		Name:             "Alice",
		Phone:            "01700000000",
		Address:          &address,
		Role:             domain.RoleUser,
		IsActive:         true,
		EmailVerified:    false,
		RefreshTokenHash: "",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumnNames()).AddRow(
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Address,
		u.Role, u.IsActive, u.EmailVerified, u.RefreshTokenHash,
		u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := setupUserRepo(t)
	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Address,
			u.Role, u.IsActive, u.EmailVerified, u.RefreshTokenHash,
			u.CreatedAt, u.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := setupUserRepo(t)
	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Address,
			u.Role, u.IsActive, u.EmailVerified, u.RefreshTokenHash,
			u.CreatedAt, u.UpdatedAt,
		).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EMAIL_IN_USE", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := setupUserRepo(t)
	u := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs(u.Email).
		WillReturnRows(userRow(u))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows(userColumnNames()))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mock := setupUserRepo(t)
	u := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRefreshTokenHash(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token_hash").
		WithArgs("new-digest", pgxmock.AnyArg(), "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateRefreshTokenHash(context.Background(), "u-1", "new-digest")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRefreshTokenHash_UnknownUser(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token_hash").
		WithArgs("new-digest", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateRefreshTokenHash(context.Background(), "missing", "new-digest")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindPage(t *testing.T) {
	repo, mock := setupUserRepo(t)
	first := sampleUser()
	second := sampleUser()
	second.ID = "u-2"
	second.Email = "bob@example.com"

	rows := userRow(first).AddRow(
		second.ID, second.Email, second.PasswordHash, second.Name,
		second.Phone, second.Address, second.Role, second.IsActive,
		second.EmailVerified, second.RefreshTokenHash,
		second.CreatedAt, second.UpdatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at DESC").
		WithArgs(10, 0).
		WillReturnRows(rows)

	users, err := repo.FindPage(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u-1", users[0].ID)
	assert.Equal(t, "u-2", users[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindPage_Empty(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at DESC").
		WithArgs(10, 40).
		WillReturnRows(pgxmock.NewRows(userColumnNames()))

	users, err := repo.FindPage(context.Background(), 40, 10)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Count(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
