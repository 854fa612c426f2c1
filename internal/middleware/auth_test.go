package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	app := fiber.New()

	// Simulate a session loader that authenticates when ?uid is given.
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Query("uid"); raw != "" {
			id, _ := strconv.ParseUint(raw, 10, 32)
			SetUserID(c, uint(id))
		}
		return c.Next()
	})

	redirect := func(c *fiber.Ctx) error {
		return c.Redirect("/login")
	}

	app.Get("/private", AuthRequired(redirect), func(c *fiber.Ctx) error {
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		ctxID, _ := c.UserContext().Value(UserIDKey).(uint)
		assert.Equal(t, id, ctxID)
		return c.SendString(strconv.FormatUint(uint64(id), 10))
	})

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedLoc    string
	}{
		{"authenticated", "/private?uid=42", http.StatusOK, ""},
		{"anonymous", "/private", http.StatusFound, "/login"},
		{"zero id is anonymous", "/private?uid=0", http.StatusFound, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedLoc, resp.Header.Get("Location"))
		})
	}
}

func TestCurrentUserID_Unset(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := CurrentUserID(c)
		assert.False(t, ok)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
