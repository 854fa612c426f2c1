package server

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"friendsapp/internal/middleware"
	"friendsapp/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"golang.org/x/crypto/hkdf"
)

const (
	sessionCookie = "session"
	flashCookie   = "flash"
	flashLocal    = "flashes"
)

// Flash categories, matching the CSS classes in the layout.
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashDanger  = "danger"
)

const genericFailure = "Something went wrong, please try again."

type flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// flashCookieKey derives the AES-256 key for the flash cookie from the
// session secret, in the base64 form encryptcookie expects.
func flashCookieKey(secret string) (string, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("friends flash cookie"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// sealCookies encrypts every cookie except the session JWT, which carries its
// own signature. Values that fail to decrypt reach handlers as empty.
func sealCookies(key string) fiber.Handler {
	return encryptcookie.New(encryptcookie.Config{
		Key:    key,
		Except: []string{sessionCookie},
	})
}

// addFlash queues a message for the next rendered page, in this request or
// after a redirect.
func addFlash(c *fiber.Ctx, category, message string) {
	flashes := append(pendingFlashes(c), flash{Category: category, Message: message})
	c.Locals(flashLocal, flashes)

	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func pendingFlashes(c *fiber.Ctx) []flash {
	if queued, ok := c.Locals(flashLocal).([]flash); ok {
		return queued
	}
	return decodeFlashes(c.Cookies(flashCookie))
}

func decodeFlashes(value string) []flash {
	if value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

// takeFlashes returns the pending messages and clears them.
func takeFlashes(c *fiber.Ctx) []flash {
	flashes := pendingFlashes(c)
	if len(flashes) > 0 || c.Cookies(flashCookie) != "" {
		expireCookie(c, flashCookie)
	}
	c.Locals(flashLocal, []flash{})
	return flashes
}

func expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) setSessionCookie(c *fiber.Ctx, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(s.sessions.TTL()),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// userID returns the authenticated user. Routes using it sit behind AuthRequired.
func userID(c *fiber.Ctx) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// parseID extracts a route parameter by name as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func isNotFound(err error) bool {
	return models.IsCode(err, models.CodeNotFound)
}

// statusFor maps an error's AppError code to an HTTP status.
func statusFor(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeValidation, models.CodeSelfFollow:
		return fiber.StatusBadRequest
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// userMessage is the text shown for err. Internal failures are logged and
// replaced with a generic message.
func userMessage(c *fiber.Ctx, err error) string {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code == models.CodeInternal {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return genericFailure
	}
	return appErr.Message
}

// failAndRedirect shows err as a flash on the redirect target.
func failAndRedirect(c *fiber.Ctx, err error, location string) error {
	addFlash(c, flashDanger, userMessage(c, err))
	return c.Redirect(location)
}
