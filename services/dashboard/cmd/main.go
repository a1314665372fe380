package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	pkgAuth "github.com/turbodash/pkg/auth"
	"github.com/turbodash/pkg/cache"
	"github.com/turbodash/pkg/config"
	"github.com/turbodash/pkg/database"
	"github.com/turbodash/pkg/logger"
	"github.com/turbodash/pkg/middleware"
	"github.com/turbodash/pkg/router"
	"github.com/turbodash/pkg/session"
	authpkg "github.com/turbodash/services/dashboard/internal/auth"
	"github.com/turbodash/services/dashboard/internal/client"
	"github.com/turbodash/services/dashboard/internal/contract"
	"github.com/turbodash/services/dashboard/internal/kpi"
	"github.com/turbodash/services/dashboard/internal/model"
	"github.com/turbodash/services/dashboard/internal/payment"
	"github.com/turbodash/services/dashboard/internal/user"
)

const serviceName = "dashboard-service"

func main() {
	// 加载配置
	if err := config.Init(""); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}
	defer database.Close()

	// 初始化Redis
	if err := database.InitRedis(&cfg.Redis); err != nil {
		logger.Fatal("初始化Redis失败", zap.Error(err))
	}
	defer database.CloseRedis()

	// 数据库迁移
	db := database.Get()
	if err := db.AutoMigrate(
		&model.User{}, &model.UserPermission{},
		&model.Client{}, &model.Contract{}, &model.Payment{},
	); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}
	logger.Info("数据库迁移完成")

	// 内存缓存
	kpiCache := cache.New(
		cache.WithDefaultTTL(time.Duration(cfg.Cache.DefaultTTL)*time.Millisecond),
		cache.WithCleanupInterval(time.Duration(cfg.Cache.CleanupInterval)*time.Second),
	)
	cache.SetGlobal(kpiCache)
	defer kpiCache.Close()

	// 会话存储
	store := session.NewRedisStore(database.GetRedis(), cfg.Session.TTL())

	// 仓储
	userRepo := user.NewRepository()
	clientRepo := client.NewRepository()
	contractRepo := contract.NewRepository()
	paymentRepo := payment.NewRepository()
	kpiRepo := kpi.NewRepository(db)

	// 初始化超级管理员
	if err := seedSuperAdmin(userRepo); err != nil {
		logger.Fatal("初始化超级管理员失败", zap.Error(err))
	}

	// 创建Fiber应用
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.Server.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.HTTP.WriteTimeout) * time.Second,
	})

	// 全局中间件
	app.Use(middleware.Recovery())
	app.Use(middleware.Cors())
	app.Use(middleware.RequestID())

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(200).JSON(fiber.Map{
			"status":  "healthy",
			"service": serviceName,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// 具名中间件
	middlewares := map[string]fiber.Handler{
		"session":       middleware.SessionAuth(store, cfg.Session.Name(), userRepo.LoadIdentity),
		"auth":          middleware.RequireAuth(),
		"superAdmin":    middleware.RequireSuperAdmin(),
		"permDashboard": middleware.RequirePermission("dashboard"),
		"permClients":   middleware.RequirePermission("clients"),
		"permContracts": middleware.RequirePermission("contracts"),
		"permRevenue":   middleware.RequirePermission("revenue"),
	}

	// 注册路由
	router.Register(app, middlewares,
		authpkg.NewController(store, userRepo, &cfg.Session),
		user.NewController(userRepo),
		client.NewController(clientRepo, kpiCache),
		contract.NewController(contractRepo, clientRepo, kpiCache),
		payment.NewController(paymentRepo, contractRepo, kpiCache),
		kpi.NewController(kpiRepo, kpiCache),
	)

	// 启动服务
	addr := cfg.Server.HTTP.Addr()
	go func() {
		logger.Info("仪表盘服务启动", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("服务运行失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务正在关闭...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("服务关闭异常", zap.Error(err))
	}
	logger.Info("服务已退出")
}

// seedSuperAdmin 用户表为空时创建初始超级管理员
func seedSuperAdmin(repo user.Repository) error {
	ctx := context.Background()
	count, err := repo.Count(ctx, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := pkgAuth.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := &model.User{
		Username: "admin",
		Password: hash,
		Nickname: "超级管理员",
		Role:     "super_admin",
		Status:   1,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}
	logger.Warn("已创建初始超级管理员账号，请尽快修改密码", zap.String("username", admin.Username))
	return nil
}
