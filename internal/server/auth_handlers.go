package server

import (
	"log/slog"

	"friendsapp/internal/middleware"
	"friendsapp/internal/models"
	"friendsapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterForm handles GET /register
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "register", "Register", fiber.Map{"Username": "", "Email": ""})
}

// Register handles POST /register
func (s *Server) Register(c *fiber.Ctx) error {
	in := service.RegisterInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	if _, err := s.userService.Register(c.UserContext(), in); err != nil {
		addFlash(c, flashDanger, userMessage(c, err))
		return s.render(c, statusFor(err), "register", "Register", fiber.Map{
			"Username": in.Username,
			"Email":    in.Email,
		})
	}

	addFlash(c, flashSuccess, "You have been registered successfully!")
	return c.Redirect("/login")
}

// LoginForm handles GET /login
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "login", "Log in", fiber.Map{"Username": ""})
}

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.FormValue("username")

	user, err := s.userService.Authenticate(ctx, username, c.FormValue("password"))
	if err != nil {
		if !models.IsCode(err, models.CodeUnauthenticated) {
			addFlash(c, flashDanger, userMessage(c, err))
			return s.render(c, fiber.StatusInternalServerError, "login", "Log in", fiber.Map{"Username": username})
		}
		addFlash(c, flashDanger, "Login unsuccessful. Please check your username and password.")
		return s.render(c, fiber.StatusUnauthorized, "login", "Log in", fiber.Map{"Username": username})
	}

	// Replace any session the browser already carries.
	if old := c.Cookies(sessionCookie); old != "" {
		_ = s.sessions.Revoke(ctx, old)
	}

	value, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		addFlash(c, flashDanger, userMessage(c, err))
		return s.render(c, fiber.StatusInternalServerError, "login", "Log in", fiber.Map{"Username": username})
	}
	s.setSessionCookie(c, value)

	middleware.Logger.InfoContext(ctx, "user logged in", slog.Uint64("user_id", uint64(user.ID)))
	addFlash(c, flashSuccess, "Logged in successfully!")
	return c.Redirect("/user")
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Revoke(c.UserContext(), c.Cookies(sessionCookie)); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session revoke failed", slog.String("error", err.Error()))
	}
	expireCookie(c, sessionCookie)

	addFlash(c, flashInfo, "You have been logged out.")
	return c.Redirect("/login")
}
