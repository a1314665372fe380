package contract

import (
	"github.com/gofiber/fiber/v2"
	"github.com/turbodash/pkg/cache"
	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/pkg/response"
	"github.com/turbodash/pkg/router"
	"github.com/turbodash/services/dashboard/internal/client"
	"github.com/turbodash/services/dashboard/internal/kpi"
	"github.com/turbodash/services/dashboard/internal/model"
)

// Controller 合同控制器
type Controller struct {
	repo    Repository
	clients client.Repository
	cache   *cache.Cache
}

// NewController 创建合同控制器
func NewController(repo Repository, clients client.Repository, c *cache.Cache) *Controller {
	return &Controller{repo: repo, clients: clients, cache: c}
}

// Prefix 路由前缀
func (c *Controller) Prefix() string {
	return "/contracts"
}

// Routes 路由配置
func (c *Controller) Routes(middlewares map[string]fiber.Handler) []router.Route {
	mw := []fiber.Handler{middlewares["session"], middlewares["permContracts"]}
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

	result, err := c.repo.Search(ctx.Context(), clientID, ctx.Query("status"), pagination)
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

	owner, err := c.clients.FindByID(ctx.Context(), req.ClientID)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if owner == nil {
		return response.NotFound(ctx, "客户不存在")
	}

	status := req.Status
	if status == "" {
		status = "draft"
	}
	currency := req.Currency
	if currency == "" {
		currency = "CNY"
	}

	contract := &model.Contract{
		ClientID:  req.ClientID,
		Title:     req.Title,
		Amount:    req.Amount,
		Currency:  currency,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    status,
	}
	if err := c.repo.Create(ctx.Context(), contract); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, contract.ClientID)
	return response.Success(ctx, contract)
}

func (c *Controller) get(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的合同ID")
	}

	contract, err := c.repo.FindByID(ctx.Context(), id, dal.WithPreload("Client"))
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if contract == nil {
		return response.NotFound(ctx, "合同不存在")
	}
	return response.Success(ctx, contract)
}

func (c *Controller) update(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的合同ID")
	}
	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	contract, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if contract == nil {
		return response.NotFound(ctx, "合同不存在")
	}

	if req.Title != nil {
		contract.Title = *req.Title
	}
	if req.Amount != nil {
		contract.Amount = *req.Amount
	}
	if req.Currency != nil {
		contract.Currency = *req.Currency
	}
	if req.StartDate != nil {
		contract.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		contract.EndDate = req.EndDate
	}
	if req.Status != nil {
		contract.Status = *req.Status
	}

	if err := c.repo.Update(ctx.Context(), contract); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, contract.ClientID)
	return response.Success(ctx, contract)
}

func (c *Controller) delete(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的合同ID")
	}

	contract, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if contract == nil {
		return response.NotFound(ctx, "合同不存在")
	}

	if err := c.repo.Delete(ctx.Context(), id); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, contract.ClientID)
	return response.Success(ctx, nil)
}
