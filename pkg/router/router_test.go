package router

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubController 可配置前缀和路由的测试控制器
type stubController struct {
	prefix string
	routes []Route
}

func (s *stubController) Prefix() string {
	return s.prefix
}

func (s *stubController) Routes(middlewares map[string]fiber.Handler) []Route {
	return s.routes
}

func textHandler(body string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString(body)
	}
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRegister_MountsUnderPrefix(t *testing.T) {
	app := fiber.New()
	kpis := &stubController{
		prefix: "/kpis",
		routes: []Route{
			{Method: "GET", Path: "/summary", Handler: textHandler("summary")},
		},
	}
	Register(app, nil, kpis)

	status, body := get(t, app, "/kpis/summary")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "summary", body)

	// 带前导斜杠的组内路径不得逃逸到根路径
	status, _ = get(t, app, "/summary")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRegister_EmptyPathIsGroupRoot(t *testing.T) {
	app := fiber.New()
	clients := &stubController{
		prefix: "/clients",
		routes: []Route{
			{Method: "GET", Path: "", Handler: textHandler("list")},
			{Method: "GET", Path: "/:id", Handler: textHandler("detail")},
		},
	}
	Register(app, nil, clients)

	status, body := get(t, app, "/clients")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "list", body)

	status, body = get(t, app, "/clients/42")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "detail", body)
}

func TestRegister_ParamRouteDoesNotShadowOtherControllers(t *testing.T) {
	app := fiber.New()
	users := &stubController{
		prefix: "/users",
		routes: []Route{
			{Method: "GET", Path: "/:id", Handler: textHandler("user")},
		},
	}
	kpis := &stubController{
		prefix: "/kpis",
		routes: []Route{
			{Method: "GET", Path: "/summary", Handler: textHandler("summary")},
		},
	}
	Register(app, nil, users, kpis)

	// 先注册的 /:id 不能吞掉后注册控制器的路由
	status, body := get(t, app, "/kpis/summary")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "summary", body)

	status, body = get(t, app, "/users/7")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user", body)
}

func TestRegister_RouteMiddlewaresRunBeforeHandler(t *testing.T) {
	app := fiber.New()
	deny := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusForbidden).SendString("denied")
	}
	mark := func(c *fiber.Ctx) error {
		c.Set("X-Guarded", "1")
		return c.Next()
	}
	ctrl := &stubController{
		prefix: "/contracts",
		routes: []Route{
			{Method: "GET", Path: "", Handler: textHandler("list"), Middlewares: []fiber.Handler{mark}},
			{Method: "GET", Path: "/:id", Handler: textHandler("detail"), Middlewares: []fiber.Handler{deny}},
		},
	}
	Register(app, nil, ctrl)

	resp, err := app.Test(httptest.NewRequest("GET", "/contracts", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Guarded"))

	status, body := get(t, app, "/contracts/5")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "denied", body)
}
