package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/database"
	"github.com/qs3c/water_go_server/internal/model"
	"github.com/qs3c/water_go_server/internal/pkg/cron"
	"github.com/qs3c/water_go_server/internal/repository"
)

var (
	dryRun = flag.Bool("dry-run", true, "Dry run mode, don't actually modify records")
)

// 手动收尾工具。定时任务失效或补历史数据时使用：
// 关闭日期已过仍未关闭的时段，把其中滞留的 booked 订阅标记为 missed。
func main() {
	flag.Parse()

	log.Println("🧹 Starting slot sweep task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	slotRepo := repository.NewSlotRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	now := time.Now()
	expired, err := slotRepo.ListExpiredOpen(now)
	if err != nil {
		log.Fatalf("Failed to list expired slots: %v", err)
	}

	slotIDs := make([]int64, 0, len(expired))
	for _, slot := range expired {
		slotIDs = append(slotIDs, slot.ID)
	}

	grouped, err := subRepo.ListBySlotIDs(slotIDs)
	if err != nil {
		log.Fatalf("Failed to list subscriptions: %v", err)
	}

	staleBooked := 0
	for _, slot := range expired {
		booked := 0
		for _, sub := range grouped[slot.ID] {
			if sub.Status == model.SubscriptionStatusBooked {
				booked++
			}
		}
		staleBooked += booked

		log.Printf("  - slot %d (%s %s-%s, area %d): %d stale booked subscriptions",
			slot.ID, slot.Date.Format("2006-01-02"), slot.StartTime, slot.EndTime,
			slot.AreaID, booked)
	}

	closed := len(expired)
	missed := int64(staleBooked)
	if !*dryRun && closed > 0 {
		closed, missed, err = cron.NewService(slotRepo, subRepo, nil).SweepExpiredSlots(now)
		if err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
	}

	// 输出统计
	log.Println("\n" + strings.Repeat("=", 60))
	log.Println("📊 Sweep Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Expired open slots: %d", closed)
	log.Printf("Subscriptions marked missed: %d", missed)
	if *dryRun {
		log.Println("\n⚠️  DRY RUN MODE - No records were actually modified")
		log.Println("   Run with -dry-run=false to apply changes")
	} else {
		log.Println("\n✅ Sweep completed!")
	}
	log.Println(strings.Repeat("=", 60))
}
