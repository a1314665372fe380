package contract

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// 合同状态
var contractStatuses = []interface{}{"draft", "active", "completed", "cancelled"}

// CreateRequest 创建合同请求
type CreateRequest struct {
	ClientID  int64      `json:"clientId"`
	Title     string     `json:"title"`
	Amount    float64    `json:"amount"`
	Currency  string     `json:"currency"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Status    string     `json:"status"`
}

// Validate 校验请求
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Amount, validation.Min(0.0)),
		validation.Field(&r.Status, validation.In(contractStatuses...)),
	)
}

// UpdateRequest 更新合同请求
type UpdateRequest struct {
	Title     *string    `json:"title"`
	Amount    *float64   `json:"amount"`
	Currency  *string    `json:"currency"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Status    *string    `json:"status"`
}

// Validate 校验请求
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.In(contractStatuses...)),
	)
}
