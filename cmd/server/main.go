package main

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/api"
	"github.com/qs3c/water_go_server/internal/api/handler"
	"github.com/qs3c/water_go_server/internal/database"
	"github.com/qs3c/water_go_server/internal/pkg/cron"
	"github.com/qs3c/water_go_server/internal/pkg/email"
	"github.com/qs3c/water_go_server/internal/pkg/jwt"
	"github.com/qs3c/water_go_server/internal/pkg/oss"
	"github.com/qs3c/water_go_server/internal/pkg/pubsub"
	"github.com/qs3c/water_go_server/internal/pkg/queue"
	"github.com/qs3c/water_go_server/internal/pkg/ws"
	"github.com/qs3c/water_go_server/internal/repository"
	"github.com/qs3c/water_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选，未配置时配送凭证不可上传）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化邮件服务（可选）
	var emailSvc *email.Service
	if cfg.Email.SMTPHost != "" {
		emailSvc = email.NewService(&cfg.Email)
	}

	// 初始化 Queue 和 Pub/Sub
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 占用变化消息转发给管理端实时面板
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.OccupancyMessage) {
			wsHub.BroadcastToRole(jwt.RoleAdmin, &ws.Message{
				Type: msg.Type,
				Data: msg,
			})
		})
		if err != nil {
			log.Printf("Occupancy subscriber stopped: %v", err)
		}
	}()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, adminRepo, rdb, emailSvc, cfg)
	areaService := service.NewAreaService(areaRepo)
	userService := service.NewUserService(userRepo, areaRepo, cfg)
	slotService := service.NewSlotService(slotRepo, subRepo, userRepo, areaRepo, notifyQueue, cfg)
	subService := service.NewSubscriptionService(subRepo, slotRepo, ossClient, notifyQueue, publisher, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	areaHandler := handler.NewAreaHandler(areaService)
	userHandler := handler.NewUserHandler(userService)
	slotHandler := handler.NewSlotHandler(slotService)
	subHandler := handler.NewSubscriptionHandler(subService, cfg)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 启动定时任务（时段收尾 + URL 缓存清理）
	cronService := cron.NewService(slotRepo, subRepo, ossClient)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		areaHandler,
		userHandler,
		slotHandler,
		subHandler,
		websocketHandler,
		rdb,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
