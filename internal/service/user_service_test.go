package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"friendsapp/internal/credential"
	"friendsapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// countingHasher wraps bcrypt and records which hashes Verify was asked about.
type countingHasher struct {
	*credential.Bcrypt
	verified []string
}

func (h *countingHasher) Verify(hash, password string) bool {
	h.verified = append(h.verified, hash)
	return h.Bcrypt.Verify(hash, password)
}

func newHasher() *countingHasher {
	return &countingHasher{Bcrypt: credential.NewBcrypt(bcrypt.MinCost)}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash and trims input", func(t *testing.T) {
		var stored *models.User
		repo := &userRepoStub{createFn: func(_ context.Context, u *models.User) error {
			u.ID = 7
			stored = u
			return nil
		}}
		hasher := newHasher()
		svc := NewUserService(repo, hasher)

		user, err := svc.Register(ctx, RegisterInput{Username: "  alice ", Email: " alice@example.com ", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.Equal(t, "alice", stored.Username)
		assert.Equal(t, "alice@example.com", stored.Email)
		assert.NotEqual(t, "secret", stored.PasswordHash)
		assert.True(t, hasher.Bcrypt.Verify(stored.PasswordHash, "secret"))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, newHasher())
		cases := []RegisterInput{
			{Username: "", Email: "a@example.com", Password: "pw"},
			{Username: strings.Repeat("a", 21), Email: "a@example.com", Password: "pw"},
			{Username: "has space", Email: "a@example.com", Password: "pw"},
			{Username: "alice", Email: "not-an-email", Password: "pw"},
			{Username: "alice", Email: "a@example.com", Password: ""},
			{Username: "alice", Email: "a@example.com", Password: strings.Repeat("p", 73)},
		}
		for _, in := range cases {
			_, err := svc.Register(ctx, in)
			assertAppError(t, err, models.CodeValidation)
		}
	})

	t.Run("taken username is a conflict", func(t *testing.T) {
		repo := &userRepoStub{getByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
			return &models.User{ID: 1, Username: name}, nil
		}}
		_, err := NewUserService(repo, newHasher()).Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw"})
		assertAppError(t, err, models.CodeConflict)
	})

	t.Run("taken email is a conflict", func(t *testing.T) {
		repo := &userRepoStub{getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		}}
		_, err := NewUserService(repo, newHasher()).Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw"})
		assertAppError(t, err, models.CodeConflict)
	})

	t.Run("insert race surfaces the store conflict", func(t *testing.T) {
		repo := &userRepoStub{createFn: func(context.Context, *models.User) error {
			return models.NewConflictError("Username already exists")
		}}
		_, err := NewUserService(repo, newHasher()).Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw"})
		assertAppError(t, err, models.CodeConflict)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		boom := models.NewInternalError(errors.New("db down"))
		repo := &userRepoStub{getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, boom }}
		_, err := NewUserService(repo, newHasher()).Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hasher := newHasher()
	hash, err := hasher.Hash("right")
	require.NoError(t, err)

	repo := &userRepoStub{getByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
		if name != "alice" {
			return nil, nil
		}
		return &models.User{ID: 3, Username: "alice", PasswordHash: hash}, nil
	}}
	svc := NewUserService(repo, hasher)

	user, err := svc.Authenticate(ctx, "alice", "right")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	_, wrongErr := svc.Authenticate(ctx, "alice", "wrong")
	assertAppError(t, wrongErr, models.CodeUnauthenticated)

	hasher.verified = nil
	_, unknownErr := svc.Authenticate(ctx, "bob", "right")
	assertAppError(t, unknownErr, models.CodeUnauthenticated)
	assert.Equal(t, []string{hasher.Dummy()}, hasher.verified, "unknown user must burn a dummy verify")

	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestUserService_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := &userRepoStub{
		getByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
			if name == "alice" {
				return &models.User{ID: 1, Username: "alice"}, nil
			}
			return nil, nil
		},
		listFn: func(context.Context) ([]models.User, error) {
			return []models.User{{ID: 2}, {ID: 1}}, nil
		},
	}
	svc := NewUserService(repo, newHasher())

	user, err := svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	_, err = svc.GetByUsername(ctx, "ghost")
	assertAppError(t, err, models.CodeNotFound)

	_, err = svc.Get(ctx, 99)
	assertAppError(t, err, models.CodeNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
