package contract

import (
	"context"

	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/services/dashboard/internal/model"
	"gorm.io/gorm"
)

// Repository 合同仓储接口
type Repository interface {
	dal.Repository[model.Contract]
	Search(ctx context.Context, clientID int64, status string, pagination *dal.Pagination) (*dal.PagedResult[model.Contract], error)
}

// repository 合同仓储实现
type repository struct {
	*dal.BaseRepository[model.Contract]
}

// NewRepository 创建合同仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Contract](),
	}
}

// NewRepositoryWithDB 使用指定DB创建合同仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.Contract](db),
	}
}

// Search 按客户和状态分页查询
func (r *repository) Search(ctx context.Context, clientID int64, status string, pagination *dal.Pagination) (*dal.PagedResult[model.Contract], error) {
	pagination.Normalize()

	var list []model.Contract
	var total int64

	db := r.DB().WithContext(ctx).Model(&model.Contract{})
	if clientID > 0 {
		db = db.Where("client_id = ?", clientID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Client").Order("id DESC").Offset(pagination.Offset()).Limit(pagination.PageSize).Find(&list).Error; err != nil {
		return nil, err
	}

	return dal.NewPagedResult(list, total, pagination), nil
}
