package payment

import (
	"context"

	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/services/dashboard/internal/model"
	"gorm.io/gorm"
)

// Repository 回款仓储接口
type Repository interface {
	dal.Repository[model.Payment]
	Search(ctx context.Context, clientID, contractID int64, pagination *dal.Pagination) (*dal.PagedResult[model.Payment], error)
	FindByReference(ctx context.Context, reference string) (*model.Payment, error)
}

// repository 回款仓储实现
type repository struct {
	*dal.BaseRepository[model.Payment]
}

// NewRepository 创建回款仓储
func NewRepository() Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepository[model.Payment](),
	}
}

// NewRepositoryWithDB 使用指定DB创建回款仓储
func NewRepositoryWithDB(db *gorm.DB) Repository {
	return &repository{
		BaseRepository: dal.NewBaseRepositoryWithDB[model.Payment](db),
	}
}

// Search 按客户和合同分页查询，按回款时间倒序
func (r *repository) Search(ctx context.Context, clientID, contractID int64, pagination *dal.Pagination) (*dal.PagedResult[model.Payment], error) {
	pagination.Normalize()

	var list []model.Payment
	var total int64

	db := r.DB().WithContext(ctx).Model(&model.Payment{})
	if clientID > 0 {
		db = db.Where("client_id = ?", clientID)
	}
	if contractID > 0 {
		db = db.Where("contract_id = ?", contractID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Order("paid_at DESC, id DESC").Offset(pagination.Offset()).Limit(pagination.PageSize).Find(&list).Error; err != nil {
		return nil, err
	}

	return dal.NewPagedResult(list, total, pagination), nil
}

// FindByReference 按回款单号查询
func (r *repository) FindByReference(ctx context.Context, reference string) (*model.Payment, error) {
	return r.FindOne(ctx, map[string]interface{}{"reference": reference})
}
