package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// Cookie 会话Cookie配置，随记录一同持久化
type Cookie struct {
	MaxAge   int       `json:"maxAge"` // 秒
	Expires  time.Time `json:"expires"`
	Path     string    `json:"path"`
	Domain   string    `json:"domain,omitempty"`
	HTTPOnly bool      `json:"httpOnly"`
	Secure   bool      `json:"secure"`
	SameSite string    `json:"sameSite,omitempty"`
}

// Record 会话记录
//
// 由 Store 独占管理，其他组件不得绕过 Store 直接读写。
type Record struct {
	ID       string                 `json:"id"`
	UserID   int64                  `json:"userId"`
	Username string                 `json:"username"`
	IssuedAt time.Time              `json:"issuedAt"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Cookie   Cookie                 `json:"cookie"`
}

// TTL 根据Cookie配置推导会话剩余有效期
func (r *Record) TTL(fallback time.Duration) time.Duration {
	if r.Cookie.MaxAge > 0 {
		return time.Duration(r.Cookie.MaxAge) * time.Second
	}
	if !r.Cookie.Expires.IsZero() {
		if d := time.Until(r.Cookie.Expires); d > 0 {
			return d
		}
	}
	return fallback
}

// NewID 生成加密安全的会话ID（32字节，256位熵）
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
