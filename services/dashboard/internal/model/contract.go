package model

import (
	"time"

	"github.com/turbodash/pkg/dal"
)

// Contract 合同模型
type Contract struct {
	dal.Model
	ClientID  int64      `gorm:"index;not null" json:"clientId"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Amount    float64    `gorm:"type:decimal(14,2);default:0" json:"amount"`
	Currency  string     `gorm:"size:10;default:CNY" json:"currency"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Status    string     `gorm:"size:20;default:draft" json:"status"` // draft/active/completed/cancelled
	Client    *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName 表名
func (Contract) TableName() string {
	return "td_contract"
}
