package server

import (
	"testing"

	"friendsapp/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowAndUnfollow(t *testing.T) {
	_, app, db := newTestServer(t, nil)
	testutil.CreateUser(t, db, "bob")
	b := newBrowser(t, app)
	b.register("alice", "pw")
	b.login("alice", "pw")

	_, body := b.get("/")
	assert.Contains(t, body, `href="/follow/bob"`)
	assert.Contains(t, body, "(you)")

	resp, _ := b.get("/follow/bob")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/user", resp.Header.Get("Location"))
	_, body = b.followRedirect(resp)
	assert.Contains(t, body, "You are now following bob!")

	// Following again is harmless.
	resp, _ = b.get("/follow/bob")
	assert.Equal(t, "/user", resp.Header.Get("Location"))

	_, body = b.get("/friends")
	assert.Contains(t, body, `<span class="username">bob</span>`)

	_, body = b.get("/")
	assert.Contains(t, body, `href="/unfollow/bob"`)

	resp, _ = b.get("/unfollow/bob")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/user", resp.Header.Get("Location"))
	_, body = b.followRedirect(resp)
	assert.Contains(t, body, "You are not following bob.")

	_, body = b.get("/friends")
	assert.NotContains(t, body, `<span class="username">bob</span>`)
}

func TestFollow_Rejections(t *testing.T) {
	_, app, _ := newTestServer(t, nil)
	b := newBrowser(t, app)
	b.register("alice", "pw")
	b.login("alice", "pw")

	tests := []struct {
		path     string
		location string
		flash    string
	}{
		{"/follow/ghost", "/", "User ghost not found."},
		{"/follow/alice", "/", "You cannot follow yourself!"},
		{"/unfollow/ghost", "/", "User ghost not found."},
		{"/unfollow/alice", "/user", "You cannot unfollow yourself!"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, _ := b.get(tt.path)
			require.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))

			_, body := b.followRedirect(resp)
			assert.Contains(t, body, tt.flash)
		})
	}
}
