package server

import (
	"fmt"

	"friendsapp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET / and lists every user with their follow state.
func (s *Server) Index(c *fiber.Ctx) error {
	ctx := c.UserContext()

	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		return err
	}
	following, err := s.followService.FollowedSet(ctx, userID(c))
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "index", "People", fiber.Map{
		"Users":     users,
		"Following": following,
	})
}

// Friends handles GET /friends
func (s *Server) Friends(c *fiber.Ctx) error {
	friends, err := s.followService.FollowedUsers(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "friends", "Friends", fiber.Map{"Friends": friends})
}

// Follow handles GET /follow/:username
func (s *Server) Follow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")

	target, err := s.userService.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			addFlash(c, flashDanger, fmt.Sprintf("User %s not found.", username))
			return c.Redirect("/")
		}
		return failAndRedirect(c, err, "/")
	}

	if err := s.followService.Follow(ctx, userID(c), target.ID); err != nil {
		if models.IsCode(err, models.CodeSelfFollow) {
			addFlash(c, flashDanger, "You cannot follow yourself!")
			return c.Redirect("/")
		}
		return failAndRedirect(c, err, "/")
	}

	addFlash(c, flashSuccess, fmt.Sprintf("You are now following %s!", target.Username))
	return c.Redirect("/user")
}

// Unfollow handles GET /unfollow/:username
func (s *Server) Unfollow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")

	target, err := s.userService.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			addFlash(c, flashDanger, fmt.Sprintf("User %s not found.", username))
			return c.Redirect("/")
		}
		return failAndRedirect(c, err, "/")
	}

	if err := s.followService.Unfollow(ctx, userID(c), target.ID); err != nil {
		if models.IsCode(err, models.CodeSelfFollow) {
			addFlash(c, flashDanger, "You cannot unfollow yourself!")
			return c.Redirect("/user")
		}
		return failAndRedirect(c, err, "/user")
	}

	addFlash(c, flashInfo, fmt.Sprintf("You are not following %s.", target.Username))
	return c.Redirect("/user")
}
