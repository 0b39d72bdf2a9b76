package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/database"
	"github.com/qs3c/water_go_server/internal/pkg/email"
	"github.com/qs3c/water_go_server/internal/pkg/queue"
	"github.com/qs3c/water_go_server/internal/pkg/ws"
	"github.com/qs3c/water_go_server/internal/repository"
	"github.com/qs3c/water_go_server/internal/worker"
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

	// 初始化邮件服务（可选，未配置时只做站内推送）
	var emailSvc *email.Service
	if cfg.Email.SMTPHost != "" {
		emailSvc = email.NewService(&cfg.Email)
		log.Println("Email service initialized")
	}

	// 初始化 Queue
	notifyQueue := queue.NewQueue(rdb, cfg.Queue.NotifyQueue)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	areaRepo := repository.NewAreaRepository(db)

	// 创建通知处理器。独立进程没有服务端的连接池，
	// WebSocket 推送只对连到本进程的客户端生效，常规部署下留空。
	notifier := worker.NewNotifier(userRepo, slotRepo, subRepo, areaRepo, emailSvc, ws.NewHub(), cfg)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	log.Printf("Worker started, max workers: %d", maxWorkers)

	// 启动 worker 循环
	for i := 0; i < maxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					// 从队列获取任务
					msg, err := notifyQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop message: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: processing %s notification", workerID, msg.Type)
					if err := notifier.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: %s notification failed: %v", workerID, msg.Type, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
