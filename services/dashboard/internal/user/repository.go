package user

import (
	"context"

	"github.com/turbodash/pkg/access"
	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/services/dashboard/internal/model"
	"gorm.io/gorm"
)

// Repository 用户仓储接口
type Repository interface {
	dal.Repository[model.User]
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	LoadIdentity(ctx context.Context, userID int64) (*access.Identity, error)
	ReplaceGrants(ctx context.Context, userID int64, pages []string) error
}

// repository 用户仓储实现
type repository struct {
	*dal.BaseRepository[model.User]
}

// NewRepository 创建用户仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.User](),
	}
}

// NewRepositoryWithDB 使用指定DB创建用户仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.User](db),
	}
}

// FindByUsername 根据用户名查询
func (r *repository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.FindOne(ctx, map[string]interface{}{"username": username}, dal.WithPreload("Grants"))
}

// LoadIdentity 加载用户的授权视图
//
// 每次请求重新读取，权限授予变更即时生效于下一次请求。
// 用户不存在或被禁用时返回 (nil, nil)。
func (r *repository) LoadIdentity(ctx context.Context, userID int64) (*access.Identity, error) {
	u, err := r.FindByID(ctx, userID, dal.WithPreload("Grants"))
	if err != nil {
		return nil, err
	}
	if u == nil || u.Status != 1 {
		return nil, nil
	}

	return &access.Identity{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Permissions: u.PermissionPages(),
	}, nil
}

// ReplaceGrants 整体替换用户的页面权限授予
func (r *repository) ReplaceGrants(ctx context.Context, userID int64, pages []string) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserPermission{}).Error; err != nil {
			return err
		}
		if len(pages) == 0 {
			return nil
		}
		grants := make([]model.UserPermission, 0, len(pages))
		for _, page := range pages {
			grants = append(grants, model.UserPermission{UserID: userID, Page: page})
		}
		return tx.Create(&grants).Error
	})
}
