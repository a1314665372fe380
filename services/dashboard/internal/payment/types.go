package payment

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// 回款方式
var paymentMethods = []interface{}{"transfer", "cash", "other"}

// CreateRequest 创建回款请求
type CreateRequest struct {
	ContractID int64      `json:"contractId"`
	Reference  string     `json:"reference"`
	Amount     float64    `json:"amount"`
	PaidAt     *time.Time `json:"paidAt"`
	Method     string     `json:"method"`
	Remark     string     `json:"remark"`
}

// Validate 校验请求
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ContractID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Reference, validation.Length(0, 64)),
		validation.Field(&r.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&r.Method, validation.In(paymentMethods...)),
		validation.Field(&r.Remark, validation.Length(0, 255)),
	)
}

// UpdateRequest 更新回款请求，回款所属合同不允许变更
type UpdateRequest struct {
	Amount *float64   `json:"amount"`
	PaidAt *time.Time `json:"paidAt"`
	Method *string    `json:"method"`
	Remark *string    `json:"remark"`
}

// Validate 校验请求
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Min(0.01)),
		validation.Field(&r.Method, validation.In(paymentMethods...)),
		validation.Field(&r.Remark, validation.Length(0, 255)),
	)
}
