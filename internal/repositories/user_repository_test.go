package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/modernshop/storefront-api/internal/models"
	repository "github.com/modernshop/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepoTest(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewUserRepo(db)
	require.NotNil(t, repo, "NewUserRepo should return a non-nil repository")

	return repo, mock
}

func TestCreateUser(t *testing.T) {
	repo, mock := setupUserRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	expectedSQL := regexp.QuoteMeta(`
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`)

	user := &models.User{
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "Jane",
		LastName:     "Doe",
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).
			WithArgs(user.Email, user.PasswordHash, user.FirstName, user.LastName).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID, "ID should be filled from RETURNING")
		assert.WithinDuration(t, now, user.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("duplicate key value violates unique constraint")
		mock.ExpectQuery(expectedSQL).
			WithArgs(user.Email, user.PasswordHash, user.FirstName, user.LastName).
			WillReturnError(dbError)

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestGetUserByEmail(t *testing.T) {
	repo, mock := setupUserRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	expectedSQL := regexp.QuoteMeta(`
		SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users
		WHERE email = $1`)

	userRows := []string{"id", "email", "password_hash", "first_name", "last_name", "created_at", "updated_at"}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows(userRows).
			AddRow(1, "jane@example.com", "$2a$10$hash", "Jane", "Doe", now, now)
		mock.ExpectQuery(expectedSQL).WithArgs("jane@example.com").WillReturnRows(rows)

		// Act
		user, err := repo.GetUserByEmail(ctx, "jane@example.com")

		// Assert
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "Jane", user.FirstName)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(expectedSQL).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

		// Act
		user, err := repo.GetUserByEmail(ctx, "nobody@example.com")

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}

func TestGetUserByID(t *testing.T) {
	repo, mock := setupUserRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	expectedSQL := regexp.QuoteMeta(`
		SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users
		WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "first_name", "last_name", "created_at", "updated_at"}).
			AddRow(1, "jane@example.com", "$2a$10$hash", "Jane", "Doe", now, now)
		mock.ExpectQuery(expectedSQL).WithArgs(int64(1)).WillReturnRows(rows)

		// Act
		user, err := repo.GetUserByID(ctx, 1)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "jane@example.com", user.Email)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		dbError := errors.New("database query error")
		mock.ExpectQuery(expectedSQL).WithArgs(int64(1)).WillReturnError(dbError)

		// Act
		user, err := repo.GetUserByID(ctx, 1)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		assert.Nil(t, user)
		require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})
}
