package server

import (
	"fmt"

	"friendsapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts", "Posts", fiber.Map{"Posts": posts})
}

// NewPostForm handles GET /post/new
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "new_post", "New post", fiber.Map{"PostTitle": "", "Content": ""})
}

// CreatePost handles POST /post/new
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{
		AuthorID: userID(c),
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
	}

	if _, err := s.postService.Create(c.UserContext(), in); err != nil {
		addFlash(c, flashDanger, userMessage(c, err))
		return s.render(c, statusFor(err), "new_post", "New post", fiber.Map{
			"PostTitle": in.Title,
			"Content":   in.Content,
		})
	}

	addFlash(c, flashSuccess, "Post created successfully!")
	return c.Redirect("/posts")
}

// DeletePost handles GET /post/delete/:id and renders the requester's own
// posts with the outcome.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		addFlash(c, flashDanger, "Invalid post ID")
		return s.renderUserPage(c, fiber.StatusBadRequest)
	}

	err := s.postService.Delete(c.UserContext(), service.DeletePostInput{RequesterID: userID(c), PostID: id})
	if err != nil {
		msg := userMessage(c, err)
		if msg == genericFailure {
			msg = fmt.Sprintf("Post %d was not deleted, please try again.", id)
		}
		addFlash(c, flashDanger, msg)
		return s.renderUserPage(c, statusFor(err))
	}

	addFlash(c, flashSuccess, "Post deleted successfully!")
	return s.renderUserPage(c, fiber.StatusOK)
}

// UserPage handles GET /user
func (s *Server) UserPage(c *fiber.Ctx) error {
	return s.renderUserPage(c, fiber.StatusOK)
}

func (s *Server) renderUserPage(c *fiber.Ctx, status int) error {
	posts, err := s.postService.ListByAuthor(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return s.render(c, status, "user_page", "My posts", fiber.Map{"Posts": posts})
}
