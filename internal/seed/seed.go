package seed

import (
	"context"
	"fmt"
	"log/slog"

	"friendsapp/internal/cache"
	"friendsapp/internal/middleware"
	"friendsapp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the seeder. Zero values take the defaults below.
type Options struct {
	NumUsers       int
	NumPosts       int
	FollowsPerUser int
	Password       string
	BcryptCost     int
	// RandSeed makes runs reproducible; 0 picks a random seed.
	RandSeed int64
	DryRun   bool
}

func (o Options) withDefaults() Options {
	if o.NumUsers <= 0 {
		o.NumUsers = 20
	}
	if o.NumPosts < 0 {
		o.NumPosts = 0
	}
	if o.FollowsPerUser < 0 {
		o.FollowsPerUser = 0
	}
	if o.Password == "" {
		o.Password = DefaultPassword
	}
	return o
}

// Summary reports what a seeding run created.
type Summary struct {
	Users   []*models.User
	Posts   int
	Follows int
}

// Seeder populates a database with users, posts and follow edges.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	opts = opts.withDefaults()
	factory, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, opts: opts, factory: factory}, nil
}

// ClearAll deletes every edge, post and user, children first, and drops the
// cached copies of the deleted users.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		return nil
	}

	var userIDs []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Pluck("id", &userIDs).Error; err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Follow{}, &models.Post{}, &models.User{}} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, id := range userIDs {
		cache.InvalidateUser(ctx, id)
	}
	return nil
}

// Run creates the configured users, then spreads posts across them and makes
// each user follow up to FollowsPerUser distinct others.
func (s *Seeder) Run() (*Summary, error) {
	middleware.Logger.Info("seeding database",
		slog.Int("users", s.opts.NumUsers),
		slog.Int("posts", s.opts.NumPosts),
		slog.Int("follows_per_user", s.opts.FollowsPerUser),
	)

	summary := &Summary{Users: make([]*models.User, 0, s.opts.NumUsers)}
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		summary.Users = append(summary.Users, user)
	}

	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		author := summary.Users[gofakeit.Number(0, len(summary.Users)-1)]
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	summary.Posts = len(posts)

	follows, err := s.seedFollows(summary.Users)
	if err != nil {
		return nil, err
	}
	summary.Follows = follows

	middleware.Logger.Info("seeding complete",
		slog.Int("users", len(summary.Users)),
		slog.Int("posts", summary.Posts),
		slog.Int("follows", summary.Follows),
	)
	return summary, nil
}

func (s *Seeder) seedFollows(users []*models.User) (int, error) {
	perUser := s.opts.FollowsPerUser
	if perUser > len(users)-1 {
		perUser = len(users) - 1
	}

	created := 0
	for i, follower := range users {
		// Consecutive non-zero steps from a random start never repeat or hit i.
		offset := gofakeit.Number(0, max(0, len(users)-2))
		for n := 0; n < perUser; n++ {
			step := (offset+n)%(len(users)-1) + 1
			j := (i + step) % len(users)
			if err := s.factory.CreateFollow(follower, users[j]); err != nil {
				return created, fmt.Errorf("failed to create follow: %w", err)
			}
			created++
		}
	}
	return created, nil
}
