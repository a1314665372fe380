package payment

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/turbodash/pkg/cache"
	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/pkg/response"
	"github.com/turbodash/pkg/router"
	"github.com/turbodash/pkg/utils"
	"github.com/turbodash/services/dashboard/internal/contract"
	"github.com/turbodash/services/dashboard/internal/kpi"
	"github.com/turbodash/services/dashboard/internal/model"
)

// Controller 回款控制器
type Controller struct {
	repo      Repository
	contracts contract.Repository
	cache     *cache.Cache
}

// NewController 创建回款控制器
func NewController(repo Repository, contracts contract.Repository, c *cache.Cache) *Controller {
	return &Controller{repo: repo, contracts: contracts, cache: c}
}

// Prefix 路由前缀
func (c *Controller) Prefix() string {
	return "/payments"
}

// Routes 路由配置
func (c *Controller) Routes(middlewares map[string]fiber.Handler) []router.Route {
	mw := []fiber.Handler{middlewares["session"], middlewares["permRevenue"]}
	return []router.Route{
		{Method: "GET", Path: "", Handler: c.list, Middlewares: mw},
		{Method: "POST", Path: "", Handler: c.create, Middlewares: mw},
		{Method: "GET", Path: "/:id", Handler: c.get, Middlewares: mw},
		{Method: "PUT", Path: "/:id", Handler: c.update, Middlewares: mw},
		{Method: "DELETE", Path: "/:id", Handler: c.delete, Middlewares: mw},
	}
}

func (c *Controller) list(ctx *fiber.Ctx) error {
	pagination := &dal.Pagination{
		Page:     ctx.QueryInt("page", 1),
		PageSize: ctx.QueryInt("pageSize", 20),
	}
	clientID := int64(ctx.QueryInt("clientId", 0))
	contractID := int64(ctx.QueryInt("contractId", 0))

	result, err := c.repo.Search(ctx.Context(), clientID, contractID, pagination)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.SuccessPage(ctx, result.Items, result.Total, result.Page, result.PageSize)
}

func (c *Controller) create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	owner, err := c.contracts.FindByID(ctx.Context(), req.ContractID)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if owner == nil {
		return response.NotFound(ctx, "合同不存在")
	}

	reference := req.Reference
	if reference == "" {
		reference = utils.UUIDWithoutDash()
	} else {
		exists, err := c.repo.FindByReference(ctx.Context(), reference)
		if err != nil {
			return response.ServerError(ctx, err.Error())
		}
		if exists != nil {
			return response.BadRequest(ctx, "回款单号已存在")
		}
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	method := req.Method
	if method == "" {
		method = "transfer"
	}

	payment := &model.Payment{
		ContractID: owner.ID,
		ClientID:   owner.ClientID,
		Reference:  reference,
		Amount:     req.Amount,
		PaidAt:     paidAt,
		Method:     method,
		Remark:     req.Remark,
	}
	if err := c.repo.Create(ctx.Context(), payment); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, payment.ClientID)
	return response.Success(ctx, payment)
}

func (c *Controller) get(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的回款ID")
	}

	payment, err := c.repo.FindByID(ctx.Context(), id, dal.WithPreload("Contract"))
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if payment == nil {
		return response.NotFound(ctx, "回款不存在")
	}
	return response.Success(ctx, payment)
}

func (c *Controller) update(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的回款ID")
	}
	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	payment, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if payment == nil {
		return response.NotFound(ctx, "回款不存在")
	}

	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.PaidAt != nil {
		payment.PaidAt = *req.PaidAt
	}
	if req.Method != nil {
		payment.Method = *req.Method
	}
	if req.Remark != nil {
		payment.Remark = *req.Remark
	}

	if err := c.repo.Update(ctx.Context(), payment); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, payment.ClientID)
	return response.Success(ctx, payment)
}

func (c *Controller) delete(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的回款ID")
	}

	payment, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if payment == nil {
		return response.NotFound(ctx, "回款不存在")
	}

	if err := c.repo.Delete(ctx.Context(), id); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, payment.ClientID)
	return response.Success(ctx, nil)
}
