package service

import (
	"context"
	"slices"
	"testing"

	"friendsapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn       func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	createFn        func(ctx context.Context, user *models.User) error
	listFn          func(ctx context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("User", id)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsernameFn != nil {
		return s.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return []models.User{}, nil
}

type postRepoStub struct {
	createFn     func(ctx context.Context, post *models.Post) error
	getByIDFn    func(ctx context.Context, id uint) (*models.Post, error)
	listFn       func(ctx context.Context) ([]models.Post, error)
	listByUserFn func(ctx context.Context, userID uint) ([]models.Post, error)
	deleteFn     func(ctx context.Context, id uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Post", id)
}

func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return []models.Post{}, nil
}

func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	if s.listByUserFn != nil {
		return s.listByUserFn(ctx, userID)
	}
	return []models.Post{}, nil
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type followRepoStub struct {
	edges map[[2]uint]bool
}

func newFollowRepoStub() *followRepoStub {
	return &followRepoStub{edges: map[[2]uint]bool{}}
}

func (s *followRepoStub) Create(_ context.Context, followerID, followedID uint) error {
	s.edges[[2]uint{followerID, followedID}] = true
	return nil
}

func (s *followRepoStub) Delete(_ context.Context, followerID, followedID uint) error {
	delete(s.edges, [2]uint{followerID, followedID})
	return nil
}

func (s *followRepoStub) Exists(_ context.Context, followerID, followedID uint) (bool, error) {
	return s.edges[[2]uint{followerID, followedID}], nil
}

func (s *followRepoStub) FollowedIDs(_ context.Context, followerID uint) ([]uint, error) {
	ids := []uint{}
	for edge := range s.edges {
		if edge[0] == followerID {
			ids = append(ids, edge[1])
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *followRepoStub) FollowerIDs(_ context.Context, followedID uint) ([]uint, error) {
	ids := []uint{}
	for edge := range s.edges {
		if edge[1] == followedID {
			ids = append(ids, edge[0])
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *followRepoStub) FollowedUsers(ctx context.Context, followerID uint) ([]models.User, error) {
	ids, _ := s.FollowedIDs(ctx, followerID)
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{ID: id})
	}
	return users, nil
}

// existingUsers answers GetByID for the given ids only.
func existingUsers(ids ...uint) *userRepoStub {
	known := map[uint]bool{}
	for _, id := range ids {
		known[id] = true
	}
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			if !known[id] {
				return nil, models.NewNotFoundError("User", id)
			}
			return &models.User{ID: id}, nil
		},
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, code), "expected %s, got %v", code, err)
}
