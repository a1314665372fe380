package kpi

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbodash/services/dashboard/internal/model"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 打开内存数据库并迁移业务表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Client{}, &model.Contract{}, &model.Payment{},
	))
	return db
}

func paidAt(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 12, 0, 0, 0, time.Local)
}

// seedFixtures 两个客户、三份合同、若干回款
func seedFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()

	clients := []model.Client{
		{Name: "华东制造", Status: "active"},
		{Name: "南方科技", Status: "active"},
	}
	require.NoError(t, db.Create(&clients).Error)

	contracts := []model.Contract{
		{ClientID: clients[0].ID, Title: "年度服务合同", Amount: 100000, Status: "active"},
		{ClientID: clients[0].ID, Title: "历史项目合同", Amount: 50000, Status: "completed"},
		{ClientID: clients[1].ID, Title: "平台建设合同", Amount: 80000, Status: "active"},
	}
	require.NoError(t, db.Create(&contracts).Error)

	payments := []model.Payment{
		{ContractID: contracts[0].ID, ClientID: clients[0].ID, Reference: "P-001", Amount: 30000, PaidAt: paidAt(2026, time.January)},
		{ContractID: contracts[0].ID, ClientID: clients[0].ID, Reference: "P-002", Amount: 20000, PaidAt: paidAt(2026, time.March)},
		{ContractID: contracts[2].ID, ClientID: clients[1].ID, Reference: "P-003", Amount: 40000, PaidAt: paidAt(2026, time.March)},
		{ContractID: contracts[1].ID, ClientID: clients[0].ID, Reference: "P-004", Amount: 15000, PaidAt: paidAt(2025, time.December)},
	}
	require.NoError(t, db.Create(&payments).Error)
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	s, err := repo.Summary(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.ClientCount)
	assert.Equal(t, int64(2), s.ActiveContracts)
	assert.InDelta(t, 230000, s.ContractedAmount, 0.001)
	assert.InDelta(t, 105000, s.RevenueCollected, 0.001)
}

func TestSummary_FilterByClient(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	var first model.Client
	require.NoError(t, db.Where("name = ?", "华东制造").First(&first).Error)

	s, err := repo.Summary(ctx, first.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ClientCount)
	assert.Equal(t, int64(1), s.ActiveContracts)
	assert.InDelta(t, 150000, s.ContractedAmount, 0.001)
	assert.InDelta(t, 65000, s.RevenueCollected, 0.001)
}

func TestSummary_FilterByYear(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	repo := NewRepository(db)

	s, err := repo.Summary(context.Background(), 0, 2025)
	require.NoError(t, err)
	assert.InDelta(t, 15000, s.RevenueCollected, 0.001)
}

func TestSummary_EmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	s, err := repo.Summary(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.ClientCount)
	assert.Equal(t, int64(0), s.ActiveContracts)
	assert.Zero(t, s.ContractedAmount)
	assert.Zero(t, s.RevenueCollected)
}

func TestMonthlyRevenue(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	repo := NewRepository(db)

	months, err := repo.MonthlyRevenue(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, months, 12)

	assert.Equal(t, 1, months[0].Month)
	assert.InDelta(t, 30000, months[0].Revenue, 0.001)
	assert.InDelta(t, 60000, months[2].Revenue, 0.001)

	// 没有回款的月份也要占位
	assert.Zero(t, months[5].Revenue)
	assert.Equal(t, 12, months[11].Month)
}

func TestTopClients(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	repo := NewRepository(db)

	top, err := repo.TopClients(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "华东制造", top[0].Name)
	assert.InDelta(t, 65000, top[0].Revenue, 0.001)
	assert.Equal(t, "南方科技", top[1].Name)
	assert.InDelta(t, 40000, top[1].Revenue, 0.001)
}

func TestTopClients_Limit(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	repo := NewRepository(db)

	top, err := repo.TopClients(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "华东制造", top[0].Name)
}
