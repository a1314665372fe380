package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgAuth "github.com/turbodash/pkg/auth"
	"github.com/turbodash/pkg/config"
	"github.com/turbodash/pkg/middleware"
	"github.com/turbodash/pkg/router"
	"github.com/turbodash/pkg/session"
	"github.com/turbodash/services/dashboard/internal/model"
	"github.com/turbodash/services/dashboard/internal/user"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newAuthApp 组装真实的认证端点：sqlite用户库 + miniredis会话 + 路由注册
func newAuthApp(t *testing.T) (*fiber.App, user.Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserPermission{}))
	users := user.NewRepositoryWithDB(db)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewRedisStore(client, time.Hour)

	sessionCfg := &config.SessionConfig{CookieName: "turbodash_sid", MaxAge: 3600}

	app := fiber.New()
	middlewares := map[string]fiber.Handler{
		"session": middleware.SessionAuth(store, sessionCfg.Name(), users.LoadIdentity),
		"auth":    middleware.RequireAuth(),
	}
	router.Register(app, middlewares, NewController(store, users, sessionCfg))

	return app, users
}

func createUser(t *testing.T, users user.Repository, username, password string, status int8) {
	t.Helper()
	hash, err := pkgAuth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, users.Create(t.Context(), &model.User{
		Username: username,
		Password: hash,
		Role:     "user",
		Status:   status,
	}))
}

func postLogin(t *testing.T, app *fiber.App, username, password string) *http.Response {
	t.Helper()
	body, err := json.Marshal(fiber.Map{"username": username, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLogin(t *testing.T) {
	app, users := newAuthApp(t)
	createUser(t, users, "alice", "secret123", 1)

	resp := postLogin(t, app, "alice", "secret123")
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == "turbodash_sid" {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)

	// 用下发的Cookie访问 /auth/me
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Cookie", "turbodash_sid="+sid)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	defer meResp.Body.Close()

	assert.Equal(t, fiber.StatusOK, meResp.StatusCode)

	raw, err := io.ReadAll(meResp.Body)
	require.NoError(t, err)
	var payload struct {
		Data MeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "alice", payload.Data.Username)
	assert.False(t, payload.Data.IsSuperAdmin)
}

func TestLogin_WrongPassword(t *testing.T) {
	app, users := newAuthApp(t)
	createUser(t, users, "alice", "secret123", 1)

	resp := postLogin(t, app, "alice", "wrong")
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UnknownUser(t *testing.T) {
	app, _ := newAuthApp(t)

	resp := postLogin(t, app, "nobody", "secret123")
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_DisabledUser(t *testing.T) {
	app, users := newAuthApp(t)
	createUser(t, users, "bob", "secret123", 0)

	resp := postLogin(t, app, "bob", "secret123")
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMe_Unauthenticated(t *testing.T) {
	app, _ := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/me", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_Idempotent(t *testing.T) {
	app, users := newAuthApp(t)
	createUser(t, users, "alice", "secret123", 1)

	loginResp := postLogin(t, app, "alice", "secret123")
	loginResp.Body.Close()

	var sid string
	for _, c := range loginResp.Cookies() {
		if c.Name == "turbodash_sid" {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/auth/logout", nil)
		req.Header.Set("Cookie", "turbodash_sid="+sid)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	// 登出后会话失效
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Cookie", "turbodash_sid="+sid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
