package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"friendsapp/internal/middleware"
	"friendsapp/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer   = "friends-web"
	Audience = "friends-browser"
)

var errInvalidSession = models.NewUnauthenticatedError("Please log in to access this page.")

// Manager binds the session Store to signed cookie values.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager returns a Manager signing cookies with secret. Sessions live for ttl.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// TTL is the lifetime of issued sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for userID and returns the cookie value.
func (m *Manager) Issue(ctx context.Context, userID uint) (string, error) {
	if len(m.secret) == 0 {
		return "", models.NewInternalError(errors.New("session secret not configured"))
	}

	token := uuid.NewString()
	if err := m.store.Save(ctx, token, userID, m.ttl); err != nil {
		return "", models.NewInternalError(err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        token,
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", models.NewInternalError(fmt.Errorf("sign session: %w", err))
	}
	return signed, nil
}

// Resolve returns the user bound to a cookie value, or an UNAUTHENTICATED error.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (uint, error) {
	token, err := m.parse(cookieValue)
	if err != nil {
		return 0, errInvalidSession
	}

	userID, err := m.store.Lookup(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return 0, errInvalidSession
	}
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "session lookup failed", slog.String("error", err.Error()))
		return 0, errInvalidSession
	}
	return userID, nil
}

// Revoke deletes the session behind a cookie value. Invalid cookies are ignored.
func (m *Manager) Revoke(ctx context.Context, cookieValue string) error {
	token, err := m.parse(cookieValue)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (m *Manager) parse(cookieValue string) (string, error) {
	if cookieValue == "" {
		return "", errors.New("empty session cookie")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(cookieValue, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}
	if claims.ID == "" {
		return "", errors.New("session cookie without token")
	}
	return claims.ID, nil
}
