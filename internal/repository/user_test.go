package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"friendsapp/internal/models"
	"friendsapp/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedCode  string
		expectedError bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
					AddRow(1, "testuser", "test@example.com", "hash")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user" WHERE "user"."id" = $1 ORDER BY "user"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user" WHERE "user"."id" = $1 ORDER BY "user"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
			expectedCode:  models.CodeNotFound,
		},
		{
			name:   "Store Failure",
			userID: 5,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user" WHERE "user"."id" = $1 ORDER BY "user"."id" LIMIT $2`)).
					WithArgs(5, 1).
					WillReturnError(errors.New("connection reset"))
			},
			expectedError: true,
			expectedCode:  models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, models.IsCode(err, tt.expectedCode))
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Username, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername_MissReturnsNil(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user" WHERE username = $1 ORDER BY "user"."id" LIMIT $2`)).
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolationIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "user" ("username","email","password_hash") VALUES ($1,$2,$3) RETURNING "id"`)).
		WithArgs("ann", "ann@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_user_email"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "ann", Email: "ann@example.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.Contains(t, err.Error(), "Email")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	ann := &models.User{Username: "ann", Email: "ann@example.com", PasswordHash: "h1"}
	bob := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "h2"}
	require.NoError(t, repo.Create(ctx, ann))
	require.NoError(t, repo.Create(ctx, bob))
	assert.NotZero(t, ann.ID)
	assert.Greater(t, bob.ID, ann.ID)

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "ann", Email: "other@example.com", PasswordHash: "h"})
		assert.True(t, models.IsCode(err, models.CodeConflict))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "ann2", Email: "bob@example.com", PasswordHash: "h"})
		assert.True(t, models.IsCode(err, models.CodeConflict))
		assert.Contains(t, err.Error(), "Email")
	})

	t.Run("lookups", func(t *testing.T) {
		byName, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, byName.ID)
		assert.Equal(t, "h2", byName.PasswordHash)

		byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, ann.ID, byEmail.ID)

		missing, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("list is newest first", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "bob", users[0].Username)
		assert.Equal(t, "ann", users[1].Username)
	})
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: user.username")))
	assert.False(t, isUniqueConstraintError(errors.New("disk full")))

	assert.Equal(t, "user.username", conflictField(errors.New("UNIQUE constraint failed: user.username")))
	assert.Equal(t, "idx_user_email", conflictField(&pgconn.PgError{Code: "23505", ConstraintName: "idx_user_email"}))
}
