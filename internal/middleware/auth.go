package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// userIDLocal is the Fiber locals key holding the authenticated user's ID.
const userIDLocal = "userID"

// SetUserID records the authenticated user on the request, in both Fiber
// locals and the user context so context-aware logging picks it up.
func SetUserID(c *fiber.Ctx, userID uint) {
	c.Locals(userIDLocal, userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// CurrentUserID returns the authenticated user, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(userIDLocal).(uint)
	return id, ok && id != 0
}

// AuthRequired lets authenticated requests through and hands everything else
// to onUnauthenticated. It must run after the session loader.
func AuthRequired(onUnauthenticated fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); !ok {
			return onUnauthenticated(c)
		}
		return c.Next()
	}
}
