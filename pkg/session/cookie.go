package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieOptions 下发会话Cookie的配置
type CookieOptions struct {
	Name   string
	MaxAge int // 秒
	Secure bool
	Domain string
}

// SetCookie 向客户端下发会话Cookie
func SetCookie(c *fiber.Ctx, sessionID string, opts CookieOptions) {
	c.Cookie(&fiber.Cookie{
		Name:     opts.Name,
		Value:    sessionID,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		Expires:  time.Now().Add(time.Duration(opts.MaxAge) * time.Second),
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie 清除客户端的会话Cookie
func ClearCookie(c *fiber.Ctx, opts CookieOptions) {
	c.Cookie(&fiber.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
