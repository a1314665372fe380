package model

import (
	"time"

	"github.com/turbodash/pkg/dal"
)

// Payment 回款模型，营收统计的事实来源
type Payment struct {
	dal.Model
	ContractID int64     `gorm:"index;not null" json:"contractId"`
	ClientID   int64     `gorm:"index;not null" json:"clientId"`
	Reference  string    `gorm:"size:64;uniqueIndex" json:"reference"`
	Amount     float64   `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaidAt     time.Time `gorm:"index;not null" json:"paidAt"`
	Method     string    `gorm:"size:30" json:"method"` // transfer/cash/other
	Remark     string    `gorm:"size:255" json:"remark"`
	Contract   *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

// TableName 表名
func (Payment) TableName() string {
	return "td_payment"
}
