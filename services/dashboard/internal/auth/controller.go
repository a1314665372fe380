package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/turbodash/pkg/access"
	"github.com/turbodash/pkg/auth"
	"github.com/turbodash/pkg/config"
	"github.com/turbodash/pkg/logger"
	"github.com/turbodash/pkg/middleware"
	"github.com/turbodash/pkg/response"
	"github.com/turbodash/pkg/router"
	"github.com/turbodash/pkg/session"
	"github.com/turbodash/services/dashboard/internal/user"
	"go.uber.org/zap"
)

// Controller 认证控制器
type Controller struct {
	store      session.Store
	users      user.Repository
	sessionCfg *config.SessionConfig
}

// NewController 创建认证控制器
func NewController(store session.Store, users user.Repository, sessionCfg *config.SessionConfig) *Controller {
	return &Controller{
		store:      store,
		users:      users,
		sessionCfg: sessionCfg,
	}
}

// Prefix 路由前缀
func (c *Controller) Prefix() string {
	return "/auth"
}

// Routes 路由配置
func (c *Controller) Routes(middlewares map[string]fiber.Handler) []router.Route {
	sess := middlewares["session"]
	return []router.Route{
		{Method: "POST", Path: "/login", Handler: c.login},
		{Method: "POST", Path: "/logout", Handler: c.logout, Middlewares: []fiber.Handler{sess}},
		{Method: "GET", Path: "/me", Handler: c.me, Middlewares: []fiber.Handler{sess, middlewares["auth"]}},
	}
}

// login 登录：校验口令，建立会话并下发Cookie
func (c *Controller) login(ctx *fiber.Ctx) error {
	var req LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	u, err := c.users.FindByUsername(ctx.Context(), req.Username)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if u == nil || !auth.CheckPassword(req.Password, u.Password) {
		return response.Unauthorized(ctx, "用户名或密码错误", access.LoginPath)
	}
	if u.Status != 1 {
		return response.Forbidden(ctx, "用户已被禁用", access.AccessDeniedPath)
	}

	sid, err := session.NewID()
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}

	maxAge := int(c.sessionCfg.TTL().Seconds())
	rec := &session.Record{
		ID:       sid,
		UserID:   u.ID,
		Username: u.Username,
		IssuedAt: time.Now(),
		Cookie: session.Cookie{
			MaxAge:   maxAge,
			Expires:  time.Now().Add(c.sessionCfg.TTL()),
			Path:     "/",
			HTTPOnly: true,
			Secure:   c.sessionCfg.Secure,
			SameSite: "lax",
		},
	}
	if err := c.store.Write(ctx.Context(), sid, rec); err != nil {
		logger.Error("会话写入失败", zap.Error(err), zap.Int64("userId", u.ID))
		return response.ServerError(ctx, "登录失败，请稍后重试")
	}

	session.SetCookie(ctx, sid, session.CookieOptions{
		Name:   c.sessionCfg.Name(),
		MaxAge: maxAge,
		Secure: c.sessionCfg.Secure,
		Domain: c.sessionCfg.Domain,
	})

	logger.Info("用户登录", zap.Int64("userId", u.ID), zap.String("username", u.Username))

	return response.Success(ctx, &MeResponse{
		ID:           u.ID,
		Username:     u.Username,
		Nickname:     u.Nickname,
		Email:        u.Email,
		Role:         u.Role,
		IsSuperAdmin: access.IsSuperAdminRole(u.Role),
		Permissions:  u.PermissionPages(),
	})
}

// logout 登出：销毁会话并清除Cookie，幂等
func (c *Controller) logout(ctx *fiber.Ctx) error {
	if sid := middleware.GetSessionID(ctx); sid != "" {
		if err := c.store.Destroy(ctx.Context(), sid); err != nil {
			logger.Warn("会话销毁失败", zap.Error(err))
		}
	}

	session.ClearCookie(ctx, session.CookieOptions{
		Name:   c.sessionCfg.Name(),
		Secure: c.sessionCfg.Secure,
		Domain: c.sessionCfg.Domain,
	})
	return response.Success(ctx, nil)
}

// me 返回当前登录用户
func (c *Controller) me(ctx *fiber.Ctx) error {
	identity := middleware.GetIdentity(ctx)

	u, err := c.users.FindByID(ctx.Context(), identity.UserID)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if u == nil {
		return response.Unauthorized(ctx, "", access.LoginPath)
	}

	return response.Success(ctx, &MeResponse{
		ID:           identity.UserID,
		Username:     identity.Username,
		Nickname:     u.Nickname,
		Email:        u.Email,
		Role:         identity.Role,
		IsSuperAdmin: identity.IsSuperAdmin(),
		Permissions:  identity.Permissions,
	})
}
