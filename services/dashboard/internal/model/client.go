package model

import (
	"github.com/turbodash/pkg/dal"
)

// Client 客户模型
type Client struct {
	dal.Model
	Name         string `gorm:"size:100;not null" json:"name"`
	Company      string `gorm:"size:200" json:"company"`
	ContactEmail string `gorm:"size:100" json:"contactEmail"`
	ContactPhone string `gorm:"size:30" json:"contactPhone"`
	Status       string `gorm:"size:20;default:active" json:"status"` // active/inactive/prospect
	Notes        string `gorm:"type:text" json:"notes"`
}

// TableName 表名
func (Client) TableName() string {
	return "td_client"
}
