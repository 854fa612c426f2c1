package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"friendsapp/internal/middleware"
	"friendsapp/internal/models"
	"friendsapp/internal/observability"
	"friendsapp/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Content  string
}

type DeletePostInput struct {
	RequesterID uint
	PostID      uint
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Create")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" || content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return nil, models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", models.MaxTitleLen))
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	post := &models.Post{Title: title, Content: content, UserID: author.ID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	post.User = author

	span.AddAttributes(attribute.Int64("post.id", int64(post.ID)))
	observability.PostEvents.WithLabelValues("created").Inc()
	return post, nil
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

// ListByAuthor returns one author's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.postRepo.ListByUser(ctx, authorID)
}

// Delete removes a post owned by the requester.
func (s *PostService) Delete(ctx context.Context, in DeletePostInput) error {
	span, ctx := observability.NewSpan(ctx, "PostService.Delete")
	defer span.End()
	span.AddAttributes(attribute.Int64("post.id", int64(in.PostID)))

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		span.SetError(err)
		return err
	}
	if post.UserID != in.RequesterID {
		middleware.Logger.WarnContext(ctx, "post delete denied",
			slog.Uint64("post_id", uint64(in.PostID)),
			slog.Uint64("owner_id", uint64(post.UserID)),
		)
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		span.SetError(err)
		return err
	}

	observability.PostEvents.WithLabelValues("deleted").Inc()
	return nil
}
