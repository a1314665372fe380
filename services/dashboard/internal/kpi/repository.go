package kpi

import (
	"context"
	"time"

	"github.com/turbodash/services/dashboard/internal/model"
	"gorm.io/gorm"
)

// Summary 总览统计
type Summary struct {
	ClientCount      int64   `json:"clientCount"`
	ActiveContracts  int64   `json:"activeContracts"`
	ContractedAmount float64 `json:"contractedAmount"`
	RevenueCollected float64 `json:"revenueCollected"`
}

// MonthlyRevenue 月度营收
type MonthlyRevenue struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// TopClient 营收排名客户
type TopClient struct {
	ClientID int64   `json:"clientId"`
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
}

// Repository 聚合统计仓储接口
type Repository interface {
	Summary(ctx context.Context, clientID int64, year int) (*Summary, error)
	MonthlyRevenue(ctx context.Context, year int) ([]MonthlyRevenue, error)
	TopClients(ctx context.Context, limit int) ([]TopClient, error)
}

// repository 聚合统计仓储实现
type repository struct {
	db *gorm.DB
}

// NewRepository 创建聚合统计仓储
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// yearRange 计算某年的时间区间
func yearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(1, 0, 0)
}

// Summary 总览统计，可按客户和年份过滤
func (r *repository) Summary(ctx context.Context, clientID int64, year int) (*Summary, error) {
	var s Summary

	clients := r.db.WithContext(ctx).Model(&model.Client{})
	contracts := r.db.WithContext(ctx).Model(&model.Contract{}).Where("status = ?", "active")
	amounts := r.db.WithContext(ctx).Model(&model.Contract{})
	payments := r.db.WithContext(ctx).Model(&model.Payment{})

	if clientID > 0 {
		clients = clients.Where("id = ?", clientID)
		contracts = contracts.Where("client_id = ?", clientID)
		amounts = amounts.Where("client_id = ?", clientID)
		payments = payments.Where("client_id = ?", clientID)
	}
	if year > 0 {
		start, end := yearRange(year)
		amounts = amounts.Where("created_at >= ? AND created_at < ?", start, end)
		payments = payments.Where("paid_at >= ? AND paid_at < ?", start, end)
	}

	if err := clients.Count(&s.ClientCount).Error; err != nil {
		return nil, err
	}
	if err := contracts.Count(&s.ActiveContracts).Error; err != nil {
		return nil, err
	}
	if err := amounts.Select("COALESCE(SUM(amount), 0)").Scan(&s.ContractedAmount).Error; err != nil {
		return nil, err
	}
	if err := payments.Select("COALESCE(SUM(amount), 0)").Scan(&s.RevenueCollected).Error; err != nil {
		return nil, err
	}

	return &s, nil
}

// MonthlyRevenue 按月份聚合某年营收，固定返回12个月
func (r *repository) MonthlyRevenue(ctx context.Context, year int) ([]MonthlyRevenue, error) {
	start, end := yearRange(year)

	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	// 月份分桶在进程内完成，避免方言各异的日期函数
	buckets := make([]MonthlyRevenue, 12)
	for i := range buckets {
		buckets[i].Month = i + 1
	}
	for _, p := range payments {
		m := int(p.PaidAt.Month()) - 1
		buckets[m].Revenue += p.Amount
	}
	return buckets, nil
}

// TopClients 按回款金额排名客户
func (r *repository) TopClients(ctx context.Context, limit int) ([]TopClient, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var result []TopClient
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("td_payment.client_id AS client_id, td_client.name AS name, COALESCE(SUM(td_payment.amount), 0) AS revenue").
		Joins("JOIN td_client ON td_client.id = td_payment.client_id").
		Group("td_payment.client_id, td_client.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&result).Error
	return result, err
}
