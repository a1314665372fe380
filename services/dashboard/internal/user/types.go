package user

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/turbodash/pkg/access"
)

// 可授予的页面权限名
var knownPages = []interface{}{"dashboard", "clients", "contracts", "revenue", "users", "settings"}

// CreateRequest 创建用户请求
type CreateRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Grants   []string `json:"grants"`
}

// Validate 校验请求
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Role, validation.In(access.RoleSuperAdmin, access.RoleAdmin, "user")),
		validation.Field(&r.Grants, validation.Each(validation.In(knownPages...))),
	)
}

// UpdateRequest 更新用户请求
type UpdateRequest struct {
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Status   *int8   `json:"status"`
}

// Validate 校验请求
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Role, validation.In(access.RoleSuperAdmin, access.RoleAdmin, "user")),
	)
}

// GrantsRequest 权限授予请求
type GrantsRequest struct {
	Grants []string `json:"grants"`
}

// Validate 校验请求
func (r GrantsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Grants, validation.Each(validation.In(knownPages...))),
	)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// Validate 校验请求
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 72)),
	)
}

// View 对外暴露的用户视图，不含密码哈希
type View struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Status   int8     `json:"status"`
	Grants   []string `json:"grants"`
}
