package model

import (
	"github.com/turbodash/pkg/dal"
)

// User 用户模型
type User struct {
	dal.Model
	Username string           `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password string           `gorm:"size:255;not null" json:"-"`
	Nickname string           `gorm:"size:50" json:"nickname"`
	Email    string           `gorm:"size:100" json:"email"`
	Role     string           `gorm:"size:50;default:user" json:"role"` // super_admin/admin/user
	Status   int8             `gorm:"default:1" json:"status"`          // 1:正常 0:禁用
	Grants   []UserPermission `gorm:"foreignKey:UserID" json:"grants,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "td_user"
}

// PermissionPages 获取用户的页面权限集
func (u *User) PermissionPages() []string {
	pages := make([]string, 0, len(u.Grants))
	for _, g := range u.Grants {
		pages = append(pages, g.Page)
	}
	return pages
}

// UserPermission 用户页面权限授予
type UserPermission struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"index:idx_user_page;not null" json:"userId"`
	Page   string `gorm:"size:50;index:idx_user_page;not null" json:"page"`
}

// TableName 表名
func (UserPermission) TableName() string {
	return "td_user_permission"
}
