package client

import (
	"context"

	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/services/dashboard/internal/model"
	"gorm.io/gorm"
)

// Repository 客户仓储接口
type Repository interface {
	dal.Repository[model.Client]
	Search(ctx context.Context, status, keyword string, pagination *dal.Pagination) (*dal.PagedResult[model.Client], error)
}

// repository 客户仓储实现
type repository struct {
	*dal.BaseRepository[model.Client]
}

// NewRepository 创建客户仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Client](),
	}
}

// NewRepositoryWithDB 使用指定DB创建客户仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.Client](db),
	}
}

// Search 按状态和关键字分页查询
func (r *repository) Search(ctx context.Context, status, keyword string, pagination *dal.Pagination) (*dal.PagedResult[model.Client], error) {
	pagination.Normalize()

	var list []model.Client
	var total int64

	db := r.DB().WithContext(ctx).Model(&model.Client{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("name LIKE ? OR company LIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id DESC").Offset(pagination.Offset()).Limit(pagination.PageSize).Find(&list).Error; err != nil {
		return nil, err
	}

	return dal.NewPagedResult(list, total, pagination), nil
}
