// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"friendsapp/internal/credential"
	"friendsapp/internal/middleware"
	"friendsapp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

var usernameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_.\-]+`)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	opts         Options
	passwordHash string
	// synthetic ID counter when running in DryRun mode
	nextID uint
	seq    int
}

// NewFactory creates a Factory bound to db. The seed password is hashed once
// and shared by every generated user.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	opts = opts.withDefaults()
	gofakeit.Seed(opts.RandSeed)

	hash, err := credential.NewBcrypt(opts.BcryptCost).Hash(opts.Password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{db: db, opts: opts, passwordHash: hash, nextID: 1000}, nil
}

// BuildUser returns an unsaved user with a unique, valid username.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.seq++
	suffix := fmt.Sprintf("%d", f.seq)
	base := usernameUnsafe.ReplaceAllString(gofakeit.Username(), "")
	if base == "" {
		base = "user"
	}
	if max := models.MaxUsernameLen - len(suffix); len(base) > max {
		base = base[:max]
	}
	username := strings.ToLower(base) + suffix

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		PasswordHash: f.passwordHash,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		middleware.Logger.Info("[dry-run] CreateUser", slog.String("username", user.Username))
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by user with a title that fits the column.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(gofakeit.Sentence(5), ".")
	for utf8.RuneCountInString(title) > models.MaxTitleLen {
		_, size := utf8.DecodeLastRuneInString(title)
		title = title[:len(title)-size]
	}

	post := &models.Post{
		Title:   title,
		Content: gofakeit.Paragraph(1, 3, 12, " "),
		UserID:  user.ID,
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		middleware.Logger.Info("[dry-run] CreatePostsBatch", slog.Int("posts", len(posts)))
		return nil
	}
	return f.db.Omit("User").Create(&posts).Error
}

// CreateFollow persists follower -> followed. Existing edges are left alone.
func (f *Factory) CreateFollow(follower, followed *models.User) error {
	if follower.ID == followed.ID {
		return models.NewSelfFollowError("seed: self follow")
	}
	if f.opts.DryRun {
		return nil
	}
	edge := &models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Omit("Follower", "Followed").Create(edge).Error
}
