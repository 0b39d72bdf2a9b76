package cron

import (
	"log"
	"time"

	"github.com/qs3c/water_go_server/internal/pkg/oss"
	"github.com/qs3c/water_go_server/internal/repository"
)

type Service struct {
	slotRepo  *repository.SlotRepository
	subRepo   *repository.SubscriptionRepository
	ossClient *oss.Client
	stopChan  chan struct{}
}

func NewService(
	slotRepo *repository.SlotRepository,
	subRepo *repository.SubscriptionRepository,
	ossClient *oss.Client,
) *Service {
	return &Service{
		slotRepo:  slotRepo,
		subRepo:   subRepo,
		ossClient: ossClient,
		stopChan:  make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailySweep()
	go s.runURLCacheSweep()
	log.Println("Cron service started (slot sweep + url cache sweep)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailySweep 每日凌晨收尾：关闭过期时段、把未处理订阅标记为未送达
func (s *Service) runDailySweep() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			if _, _, err := s.SweepExpiredSlots(time.Now()); err != nil {
				log.Printf("Daily slot sweep failed: %v", err)
			}
			timer.Reset(24 * time.Hour)
		}
	}
}

// runURLCacheSweep 每小时清理一次过期的签名 URL 缓存
func (s *Service) runURLCacheSweep() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if s.ossClient == nil {
				continue
			}
			if swept := s.ossClient.SweepURLCache(); swept > 0 {
				log.Printf("URL cache sweep: removed %d entries", swept)
			}
		}
	}
}

// SweepExpiredSlots 关闭日期已过但仍未关闭的时段，并把其中仍为 booked
// 的订阅批量置为 missed。返回关闭的时段数和标记的订阅数。
func (s *Service) SweepExpiredSlots(now time.Time) (int, int64, error) {
	slots, err := s.slotRepo.ListExpiredOpen(now)
	if err != nil {
		return 0, 0, err
	}
	if len(slots) == 0 {
		return 0, 0, nil
	}

	ids := make([]int64, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}

	if err := s.slotRepo.CloseByIDs(ids); err != nil {
		return 0, 0, err
	}

	missed, err := s.subRepo.MarkMissedBySlotIDs(ids)
	if err != nil {
		return len(ids), 0, err
	}

	log.Printf("Slot sweep: closed %d slots, marked %d subscriptions missed", len(ids), missed)
	return len(ids), missed, nil
}
