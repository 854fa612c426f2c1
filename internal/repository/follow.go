package repository

import (
	"context"

	"friendsapp/internal/models"
	"friendsapp/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository stores the directed follow graph.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID uint) error
	Delete(ctx context.Context, followerID, followedID uint) error
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	FollowedIDs(ctx context.Context, followerID uint) ([]uint, error)
	FollowerIDs(ctx context.Context, followedID uint) ([]uint, error)
	FollowedUsers(ctx context.Context, followerID uint) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge; an existing edge is left untouched.
func (r *followRepository) Create(ctx context.Context, followerID, followedID uint) error {
	defer observability.TrackQuery("create", "followers")()
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the edge if present.
func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	defer observability.TrackQuery("delete", "followers")()
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	defer observability.TrackQuery("exists", "followers")()
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// FollowedIDs lists who followerID follows, ascending by id.
func (r *followRepository) FollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	defer observability.TrackQuery("followed_ids", "followers")()
	ids := []uint{}
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Order("followed_id ASC").
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FollowerIDs lists who follows followedID, ascending by id.
func (r *followRepository) FollowerIDs(ctx context.Context, followedID uint) ([]uint, error) {
	defer observability.TrackQuery("follower_ids", "followers")()
	ids := []uint{}
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followed_id = ?", followedID).
		Order("follower_id ASC").
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FollowedUsers returns the accounts followerID follows, ascending by id.
func (r *followRepository) FollowedUsers(ctx context.Context, followerID uint) ([]models.User, error) {
	defer observability.TrackQuery("followed_users", "followers")()
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins(`JOIN followers f ON f.followed_id = "user".id`).
		Where("f.follower_id = ?", followerID).
		Order(`"user".id ASC`).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
