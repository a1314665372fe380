package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/turbodash/pkg/auth"
	"github.com/turbodash/pkg/dal"
	"github.com/turbodash/pkg/response"
	"github.com/turbodash/pkg/router"
	"github.com/turbodash/services/dashboard/internal/model"
)

// Controller 用户管理控制器，仅超级管理员可用
type Controller struct {
	repo Repository
}

// NewController 创建用户管理控制器
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// Prefix 路由前缀
func (c *Controller) Prefix() string {
	return "/users"
}

// Routes 路由配置
func (c *Controller) Routes(middlewares map[string]fiber.Handler) []router.Route {
	mw := []fiber.Handler{middlewares["session"], middlewares["superAdmin"]}
	return []router.Route{
		{Method: "GET", Path: "", Handler: c.list, Middlewares: mw},
		{Method: "POST", Path: "", Handler: c.create, Middlewares: mw},
		{Method: "GET", Path: "/:id", Handler: c.get, Middlewares: mw},
		{Method: "PUT", Path: "/:id", Handler: c.update, Middlewares: mw},
		{Method: "DELETE", Path: "/:id", Handler: c.delete, Middlewares: mw},
		{Method: "PUT", Path: "/:id/grants", Handler: c.updateGrants, Middlewares: mw},
		{Method: "PUT", Path: "/:id/password", Handler: c.resetPassword, Middlewares: mw},
	}
}

func (c *Controller) list(ctx *fiber.Ctx) error {
	pagination := &dal.Pagination{
		Page:     ctx.QueryInt("page", 1),
		PageSize: ctx.QueryInt("pageSize", 20),
	}

	result, err := c.repo.FindPaged(ctx.Context(), nil, pagination, dal.WithPreload("Grants"), dal.WithOrder("id ASC"))
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}

	views := make([]*View, 0, len(result.Items))
	for i := range result.Items {
		views = append(views, toView(&result.Items[i]))
	}
	return response.SuccessPage(ctx, views, result.Total, result.Page, result.PageSize)
}

func (c *Controller) create(ctx *fiber.Ctx) error {
	var req CreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	existing, err := c.repo.FindByUsername(ctx.Context(), req.Username)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if existing != nil {
		return response.Error(ctx, 409, "用户名已存在")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	u := &model.User{
		Username: req.Username,
		Password: hash,
		Nickname: req.Nickname,
		Email:    req.Email,
		Role:     role,
		Status:   1,
	}
	if err := c.repo.Create(ctx.Context(), u); err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if len(req.Grants) > 0 {
		if err := c.repo.ReplaceGrants(ctx.Context(), u.ID, req.Grants); err != nil {
			return response.ServerError(ctx, err.Error())
		}
	}

	created, err := c.repo.FindByID(ctx.Context(), u.ID, dal.WithPreload("Grants"))
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, toView(created))
}

func (c *Controller) get(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的用户ID")
	}

	u, err := c.repo.FindByID(ctx.Context(), id, dal.WithPreload("Grants"))
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}
	return response.Success(ctx, toView(u))
}

func (c *Controller) update(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的用户ID")
	}
	var req UpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	u, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}

	if req.Nickname != nil {
		u.Nickname = *req.Nickname
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}

	if err := c.repo.Update(ctx.Context(), u); err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, toView(u))
}

func (c *Controller) delete(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的用户ID")
	}
	if err := c.repo.Delete(ctx.Context(), id); err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, nil)
}

// updateGrants 整体替换页面权限授予，下一次请求即生效
func (c *Controller) updateGrants(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的用户ID")
	}
	var req GrantsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	u, err := c.repo.FindByID(ctx.Context(), id)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if u == nil {
		return response.NotFound(ctx, "用户不存在")
	}

	if err := c.repo.ReplaceGrants(ctx.Context(), id, req.Grants); err != nil {
		return response.ServerError(ctx, err.Error())
	}

	updated, err := c.repo.FindByID(ctx.Context(), id, dal.WithPreload("Grants"))
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, toView(updated))
}

func (c *Controller) resetPassword(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.BadRequest(ctx, "无效的用户ID")
	}
	var req ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.BadRequest(ctx, err.Error())
	}
	if err := req.Validate(); err != nil {
		return response.ValidateError(ctx, err.Error())
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	if err := c.repo.UpdateFields(ctx.Context(), id, map[string]interface{}{"password": hash}); err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, nil)
}

// toView 转换为对外视图
func toView(u *model.User) *View {
	return &View{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.Nickname,
		Email:    u.Email,
		Role:     u.Role,
		Status:   u.Status,
		Grants:   u.PermissionPages(),
	}
}
