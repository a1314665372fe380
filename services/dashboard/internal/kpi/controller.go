package kpi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/turbodash/pkg/cache"
	"github.com/turbodash/pkg/response"
	"github.com/turbodash/pkg/router"
)

// 聚合缓存key前缀
const (
	prefixSummary = "kpi_summary"
	prefixMonthly = "kpi_revenue_monthly"
	prefixTop     = "kpi_top_clients"
)

// InvalidateClient 使某客户相关及全局的聚合缓存整族失效
//
// 客户、合同、回款的任何写入都会改变聚合结果，调用方无需枚举具体key。
func InvalidateClient(c *cache.Cache, clientID int64) {
	if clientID > 0 {
		c.InvalidateByPattern(fmt.Sprintf("clientId=%d", clientID))
	}
	c.InvalidateByPattern(prefixSummary)
	c.InvalidateByPattern(prefixMonthly)
	c.InvalidateByPattern(prefixTop)
}

// Controller 聚合统计控制器
type Controller struct {
	repo  Repository
	cache *cache.Cache
}

// NewController 创建聚合统计控制器
func NewController(repo Repository, c *cache.Cache) *Controller {
	return &Controller{repo: repo, cache: c}
}

// Prefix 路由前缀
func (c *Controller) Prefix() string {
	return "/kpis"
}

// Routes 路由配置
func (c *Controller) Routes(middlewares map[string]fiber.Handler) []router.Route {
	mw := []fiber.Handler{middlewares["session"], middlewares["permDashboard"]}
	return []router.Route{
		{Method: "GET", Path: "/summary", Handler: c.summary, Middlewares: mw},
		{Method: "GET", Path: "/revenue/monthly", Handler: c.monthlyRevenue, Middlewares: mw},
		{Method: "GET", Path: "/clients/top", Handler: c.topClients, Middlewares: mw},
	}
}

// summary 总览统计，命中缓存则直接返回
func (c *Controller) summary(ctx *fiber.Ctx) error {
	clientID := int64(ctx.QueryInt("clientId", 0))
	year := ctx.QueryInt("year", 0)

	params := map[string]string{}
	if clientID > 0 {
		params["clientId"] = strconv.FormatInt(clientID, 10)
	}
	if year > 0 {
		params["year"] = strconv.Itoa(year)
	}

	key := cache.BuildKey(prefixSummary, params)
	result, err := c.cache.GetOrCompute(key, func() (interface{}, error) {
		return c.repo.Summary(ctx.Context(), clientID, year)
	})
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, result)
}

// monthlyRevenue 月度营收曲线
func (c *Controller) monthlyRevenue(ctx *fiber.Ctx) error {
	year := ctx.QueryInt("year", time.Now().Year())

	key := cache.BuildKey(prefixMonthly, map[string]string{
		"year": strconv.Itoa(year),
	})
	result, err := c.cache.GetOrCompute(key, func() (interface{}, error) {
		return c.repo.MonthlyRevenue(ctx.Context(), year)
	})
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, result)
}

// topClients 营收排名
func (c *Controller) topClients(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 10)

	key := cache.BuildKey(prefixTop, map[string]string{
		"limit": strconv.Itoa(limit),
	})
	result, err := c.cache.GetOrCompute(key, func() (interface{}, error) {
		return c.repo.TopClients(ctx.Context(), limit)
	})
	if err != nil {
		return response.ServerError(ctx, err.Error())
	}
	return response.Success(ctx, result)
}
