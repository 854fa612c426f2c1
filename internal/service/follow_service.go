package service

import (
	"context"

	"friendsapp/internal/models"
	"friendsapp/internal/observability"
	"friendsapp/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

func edgeAttributes(followerID, followeeID uint) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("follow.follower_id", int64(followerID)),
		attribute.Int64("follow.followee_id", int64(followeeID)),
	}
}

// Follow makes followerID follow followeeID. Following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) error {
	span, ctx := observability.NewSpan(ctx, "FollowService.Follow")
	defer span.End()
	span.AddAttributes(edgeAttributes(followerID, followeeID)...)

	if followerID == followeeID {
		err := models.NewSelfFollowError("You cannot follow yourself!")
		span.SetError(err)
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		span.SetError(err)
		return err
	}
	if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		span.SetError(err)
		return err
	}
	observability.FollowEvents.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	span, ctx := observability.NewSpan(ctx, "FollowService.Unfollow")
	defer span.End()
	span.AddAttributes(edgeAttributes(followerID, followeeID)...)

	if followerID == followeeID {
		err := models.NewSelfFollowError("You cannot unfollow yourself!")
		span.SetError(err)
		return err
	}
	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		span.SetError(err)
		return err
	}
	observability.FollowEvents.WithLabelValues("unfollow").Inc()
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// ListFollowed returns the ids userID follows, ascending.
func (s *FollowService) ListFollowed(ctx context.Context, userID uint) ([]uint, error) {
	return s.followRepo.FollowedIDs(ctx, userID)
}

// ListFollowers returns the ids following userID, ascending.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint) ([]uint, error) {
	return s.followRepo.FollowerIDs(ctx, userID)
}

// FollowedUsers returns the accounts userID follows, for the friends page.
func (s *FollowService) FollowedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.FollowedUsers(ctx, userID)
}

// FollowedSet is ListFollowed as a lookup set.
func (s *FollowService) FollowedSet(ctx context.Context, userID uint) (map[uint]bool, error) {
	ids, err := s.followRepo.FollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
