package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sahityapata/internal/config"
	"sahityapata/internal/identity"
	"sahityapata/internal/models"
	"sahityapata/internal/repository"
	"sahityapata/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	server   *Server
	app      *fiber.App
	verifier *identity.StaticVerifier
	db       *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}))

	verifier := identity.NewStaticVerifier()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:      &config.Config{Env: "test"},
		db:          db,
		verifier:    verifier,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	adminEmails := map[string]struct{}{"admin@example.com": {}}
	s.sessionService = service.NewSessionService(userRepo, verifier, adminEmails)
	s.postService = service.NewPostService(postRepo, userRepo)
	s.commentService = service.NewCommentService(commentRepo, postRepo)
	s.moderationService = service.NewModerationService(postRepo, userRepo, verifier)

	app := fiber.New()
	s.SetupRoutes(app)

	return &testEnv{server: s, app: app, verifier: verifier, db: db}
}

// addIdentity registers a token with the fake provider and returns it.
func (e *testEnv) addIdentity(token, uid, name, email string) string {
	e.verifier.Add(token, &identity.Identity{UID: uid, DisplayName: name, Email: email})
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NoError(t, resp.Body.Close())
	return out
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t)
	token := env.addIdentity("good-token", "uid-1", "Reader", "reader@example.com")

	t.Run("missing token", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/users/me", "bogus", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", "NotBearer x")
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token provisions account", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		me := decodeBody[models.User](t, resp)
		assert.Equal(t, "uid-1", me.UID)
		assert.Equal(t, "Reader", me.DisplayName)
		assert.Equal(t, models.RoleUser, me.Role)
	})

	t.Run("anonymous feed read is open", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/posts", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("malformed token on public route rejected", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/posts", "bogus", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuth_BannedAccount(t *testing.T) {
	env := newTestEnv(t)
	token := env.addIdentity("banned-token", "uid-banned", "Outcast", "outcast@example.com")

	// First request provisions the account.
	resp := env.request(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("uid = ?", "uid-banned").Update("banned", true).Error)

	resp = env.request(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody[models.ErrorResponse](t, resp)
	assert.Equal(t, "ACCOUNT_BANNED", body.Code)
	assert.True(t, env.verifier.Revoked["uid-banned"])
}

func TestAdminRequired(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.addIdentity("user-token", "uid-user", "Member", "member@example.com")
	adminToken := env.addIdentity("admin-token", "uid-admin", "Admin", "admin@example.com")

	resp := env.request(t, http.MethodGet, "/api/admin/posts", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/admin/posts", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmissionToFeedFlow(t *testing.T) {
	env := newTestEnv(t)
	authorToken := env.addIdentity("author-token", "uid-author", "Author", "author@example.com")
	readerToken := env.addIdentity("reader-token", "uid-reader", "Reader", "reader@example.com")
	adminToken := env.addIdentity("admin-token", "uid-admin", "Admin", "admin@example.com")

	// Submit goes into the pending queue, invisible to the public feed.
	resp := env.request(t, http.MethodPost, "/api/posts", authorToken, fiber.Map{
		"title":    "Winter Ghost",
		"category": "ghost-story",
		"content":  "The house remembered.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.Post](t, resp)
	assert.Equal(t, models.StatusPending, created.Status)

	resp = env.request(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	feed := decodeBody[service.FeedPage](t, resp)
	assert.Empty(t, feed.Posts)

	// The pending detail page does not exist for strangers.
	resp = env.request(t, http.MethodGet, "/api/posts/1", readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Approve and it becomes public.
	resp = env.request(t, http.MethodPost, "/api/admin/posts/1/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	feed = decodeBody[service.FeedPage](t, resp)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "Winter Ghost", feed.Posts[0].Title)

	// Reader engagement.
	resp = env.request(t, http.MethodPost, "/api/posts/1/like", readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	like := decodeBody[service.ToggleLikeResult](t, resp)
	assert.True(t, like.Liked)

	resp = env.request(t, http.MethodPost, "/api/posts/1/comments", readerToken, fiber.Map{
		"content": "Wonderful.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/posts/1/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decodeBody[[]models.Comment](t, resp)
	assert.Len(t, comments, 1)

	// Admin delete cascades the comment away.
	resp = env.request(t, http.MethodDelete, "/api/admin/posts/1", adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/posts/1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidIDParams(t *testing.T) {
	env := newTestEnv(t)
	token := env.addIdentity("tok", "uid-1", "U", "u@example.com")

	resp := env.request(t, http.MethodGet, "/api/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/posts/0/like", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/posts/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string][]models.Category](t, resp)
	assert.Len(t, body["categories"], 7)
}
