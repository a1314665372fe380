package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/turbodash/pkg/access"
	"github.com/turbodash/pkg/logger"
	"github.com/turbodash/pkg/response"
	"github.com/turbodash/pkg/session"
	"github.com/turbodash/pkg/utils"
	"go.uber.org/zap"
)

// Locals键定义
const (
	LocalIdentity  = "identity"
	LocalSessionID = "sessionId"
	LocalSession   = "session"
)

// IdentityLoader 根据用户ID加载授权视图
//
// 权限授予的变更通过这里在下一次请求生效，会话中不缓存权限集。
type IdentityLoader func(ctx context.Context, userID int64) (*access.Identity, error)

// SessionAuth 会话认证中间件
//
// 从Cookie解析会话ID并加载会话记录。会话缺失、过期或存储层
// 报错时请求以未认证身份继续，由后续的权限中间件决定放行与否，
// 存储故障绝不让请求崩溃。
func SessionAuth(store session.Store, cookieName string, loadIdentity IdentityLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cookieName)
		if sid == "" {
			return c.Next()
		}

		rec, err := store.Read(c.Context(), sid)
		if err != nil {
			// 无法恢复会话：降级为未认证请求
			logger.Warn("会话读取失败",
				zap.Error(err),
				zap.String("path", c.Path()),
			)
			return c.Next()
		}
		if rec == nil {
			return c.Next()
		}

		identity, err := loadIdentity(c.Context(), rec.UserID)
		if err != nil {
			logger.Warn("加载用户授权信息失败",
				zap.Error(err),
				zap.Int64("userId", rec.UserID),
			)
			return c.Next()
		}
		if identity == nil {
			// 用户已被删除，会话作废
			_ = store.Destroy(c.Context(), sid)
			return c.Next()
		}

		// 刷新后端过期时间，失败不影响本次请求
		if err := store.Touch(c.Context(), sid, rec); err != nil {
			logger.Warn("会话续期失败", zap.Error(err))
		}

		c.Locals(LocalIdentity, identity)
		c.Locals(LocalSessionID, sid)
		c.Locals(LocalSession, rec)

		return c.Next()
	}
}

// GetIdentity 从请求上下文获取授权视图，未认证时返回nil
func GetIdentity(c *fiber.Ctx) *access.Identity {
	identity, _ := c.Locals(LocalIdentity).(*access.Identity)
	return identity
}

// GetSessionID 从请求上下文获取会话ID
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(LocalSessionID).(string)
	return sid
}

// RequireAuth 要求已认证
func RequireAuth() fiber.Handler {
	return guard("", false)
}

// RequirePermission 要求持有指定页面权限
func RequirePermission(page string) fiber.Handler {
	return guard(page, false)
}

// RequireSuperAdmin 要求超级管理员
func RequireSuperAdmin() fiber.Handler {
	return guard("", true)
}

// guard 授权守卫，判定统一委托给 access.Decide
func guard(required string, superAdminOnly bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := access.Decide(GetIdentity(c), required, superAdminOnly)
		switch decision {
		case access.DecisionNoAuth:
			return response.Unauthorized(c, "请先登录", decision.RedirectPath())
		case access.DecisionNoPermission:
			return response.Forbidden(c, "没有访问该页面的权限", decision.RedirectPath())
		default:
			return c.Next()
		}
	}
}

// Recovery 恢复中间件
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Path()),
					zap.String("method", c.Method()),
				)
				_ = response.ServerError(c, "服务器内部错误")
			}
		}()
		return c.Next()
	}
}

// Cors 跨域中间件
func Cors() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := c.Method()
		origin := c.Get("Origin")

		if origin != "" {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		if method == "OPTIONS" {
			return c.SendStatus(204)
		}

		return c.Next()
	}
}

// RequestID 请求ID中间件
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Locals("requestId", requestID)
		c.Set("X-Request-ID", requestID)
		return c.Next()
	}
}

// generateRequestID 生成请求ID
func generateRequestID() string {
	return time.Now().Format("20060102150405") + "-" + utils.RandomString(8)
}
