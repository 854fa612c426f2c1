package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"friendsapp/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

const currentUserLocal = "currentUser"

func newViewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, fmt.Errorf("open views: %w", err)
	}
	return html.NewFileSystem(http.FS(sub), ".html"), nil
}

// currentUser is the account loaded by LoadSession, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserLocal).(*models.User)
	return user
}

// render executes a page inside the main layout. Pending flash messages are
// consumed by the render.
func (s *Server) render(c *fiber.Ctx, status int, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["CurrentUser"] = currentUser(c)
	data["Flashes"] = takeFlashes(c)
	return c.Status(status).Render(name, data)
}
