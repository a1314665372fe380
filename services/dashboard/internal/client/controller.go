package client

import (
	"github.com/gofiber/fiber/v2"
	"github.com/turbodash/pkg/cache"
	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/pkg/response"
	"github.com/turbodash/pkg/router"
	"github.com/turbodash/services/dashboard/internal/kpi"
	"github.com/turbodash/services/dashboard/internal/model"
)

// Controller 客户控制器
type Controller struct {
	repo  Repository
	cache *cache.Cache
}

// NewController 创建客户控制器
func NewController(repo Repository, c *cache.Cache) *Controller {
	return &Controller{repo: repo, cache: c}
}

// Prefix 路由前缀
func (c *Controller) Prefix() string {
	return "/clients"
}

// Routes 路由配置
func (c *Controller) Routes(middlewares map[string]fiber.Handler) []router.Route {
	mw := []fiber.Handler{middlewares["session"], middlewares["permClients"]}
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

	result, err := c.repo.Search(ctx.Context(), ctx.Query("status"), ctx.Query("keyword"), pagination)
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

	status := req.Status
	if status == "" {
		status = "active"
	}

	client := &model.Client{
		Name:         req.Name,
		Company:      req.Company,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Status:       status,
		Notes:        req.Notes,
	}
	if err := c.repo.Create(ctx.Context(), client); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, client.ID)
	return response.Success(ctx, client)
}

func (c *Controller) get(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的客户ID")
	}

	client, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if client == nil {
		return response.NotFound(ctx, "客户不存在")
	}
	return response.Success(ctx, client)
}

func (c *Controller) update(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的客户ID")
	}
	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	client, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if client == nil {
		return response.NotFound(ctx, "客户不存在")
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.ContactEmail != nil {
		client.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		client.ContactPhone = *req.ContactPhone
	}
	if req.Status != nil {
		client.Status = *req.Status
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := c.repo.Update(ctx.Context(), client); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, client.ID)
	return response.Success(ctx, client)
}

func (c *Controller) delete(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的客户ID")
	}
	if err := c.repo.Delete(ctx.Context(), id); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	kpi.InvalidateClient(c.cache, id)
	return response.Success(ctx, nil)
}
