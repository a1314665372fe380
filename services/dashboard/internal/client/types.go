package client

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// 客户状态
var clientStatuses = []interface{}{"active", "inactive", "prospect"}

// CreateRequest 创建客户请求
type CreateRequest struct {
	Name         string `json:"name"`
	Company      string `json:"company"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// Validate 校验请求
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.ContactEmail, is.Email),
		validation.Field(&r.Status, validation.In(clientStatuses...)),
	)
}

// UpdateRequest 更新客户请求
type UpdateRequest struct {
	Name         *string `json:"name"`
	Company      *string `json:"company"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

// Validate 校验请求
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 100)),
		validation.Field(&r.ContactEmail, is.Email),
		validation.Field(&r.Status, validation.In(clientStatuses...)),
	)
}
