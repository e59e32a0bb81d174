package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
)

func newUserFixture() *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           "5bd3a1d2-0001-4a0b-9f3e-000000000001",
		Name:         "Ana Souza",
		Email:        "ana@example.com",
		PasswordHash: "$2a$12$hash",
		Role:         domain.RoleConsumer,
		Location:     "Belo Horizonte",
		Preferences:  domain.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := newUserFixture()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
			user.Location, pgxmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewUserRepository(mock)
	assert.NoError(t, repo.Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := newUserFixture()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
			user.Location, pgxmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`))

	repo := NewUserRepository(mock)
	err = repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := newUserFixture()

	rows := pgxmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role", "location", "preferences", "created_at", "updated_at",
	}).AddRow(user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.Location, []byte(`{"language":"pt-BR","notifications":true,"darkMode":false}`),
		user.CreatedAt, user.UpdatedAt)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(user.Email).
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	got, err := repo.GetByEmail(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "pt-BR", got.Preferences.Language)
	assert.True(t, got.Preferences.Notifications)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := newUserFixture()

	mock.ExpectExec("UPDATE users").
		WithArgs(user.ID, user.Name, user.Location, pgxmock.AnyArg(), user.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewUserRepository(mock)
	err = repo.Update(context.Background(), user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
