package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/model"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/pkg/queue"
	"github.com/qs3c/water_go_server/internal/repository"
)

var (
	ErrSlotNotFound   = errors.New("配送时段不存在")
	ErrInvalidDate    = errors.New("日期格式错误")
	ErrNoSubscription = errors.New("当前没有预订的配送时段")
)

type SlotService struct {
	slotRepo *repository.SlotRepository
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
	areaRepo *repository.AreaRepository
	notifyQ  *queue.Queue
	cfg      *config.Config
}

func NewSlotService(
	slotRepo *repository.SlotRepository,
	subRepo *repository.SubscriptionRepository,
	userRepo *repository.UserRepository,
	areaRepo *repository.AreaRepository,
	notifyQ *queue.Queue,
	cfg *config.Config,
) *SlotService {
	return &SlotService{
		slotRepo: slotRepo,
		subRepo:  subRepo,
		userRepo: userRepo,
		areaRepo: areaRepo,
		notifyQ:  notifyQ,
		cfg:      cfg,
	}
}

// Create 创建配送时段并自动为区域内启用居民订阅。
// 时段与订阅在同一事务内写入；通知入队失败只记日志，不影响创建结果。
func (s *SlotService) Create(req *dto.CreateSlotRequest) (*dto.CreateSlotResponse, error) {
	if _, err := s.areaRepo.GetByID(req.AreaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	cutoff, err := time.Parse(time.RFC3339, req.BookingCutoffTime)
	if err != nil {
		return nil, ErrInvalidDate
	}

	slot := &model.Slot{
		Date:              date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		AreaID:            req.AreaID,
		Capacity:          req.Capacity,
		BookingCutoffTime: cutoff,
		Status:            model.SlotStatusAvailable,
		IsActive:          true,
	}

	residents, err := s.userRepo.ListEnrollableByArea(req.AreaID)
	if err != nil {
		return nil, err
	}

	subs := make([]*model.SlotSubscription, 0, len(residents))
	userIDs := make([]int64, 0, len(residents))
	for _, resident := range residents {
		subs = append(subs, &model.SlotSubscription{
			CustomerID:         resident.ID,
			Quantity:           resident.WaterQuantity,
			Status:             model.SubscriptionStatusBooked,
			ExtraRequestStatus: model.ExtraRequestNone,
			IsActive:           true,
		})
		userIDs = append(userIDs, resident.ID)
	}

	if err := s.slotRepo.CreateWithSubscriptions(slot, subs); err != nil {
		return nil, err
	}

	s.pushNotify(&queue.NotifyMessage{
		Type:    queue.NotifySlotCreated,
		SlotID:  slot.ID,
		AreaID:  slot.AreaID,
		UserIDs: userIDs,
	})

	return &dto.CreateSlotResponse{
		SlotID:        slot.ID,
		EnrolledCount: len(subs),
	}, nil
}

// Get 查询单个时段（含实时统计）
func (s *SlotService) Get(id int64) (*dto.SlotInfo, error) {
	slot, err := s.slotRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	subs, err := s.subRepo.ListBySlot(id)
	if err != nil {
		return nil, err
	}

	return buildSlotInfo(slot, subs), nil
}

// List 分页查询时段列表（每个时段带实时统计）
func (s *SlotService) List(areaID int64, dateStr string, page, pageSize int) ([]*dto.SlotInfo, int64, error) {
	var date *time.Time
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, 0, ErrInvalidDate
		}
		date = &parsed
	}

	slots, total, err := s.slotRepo.List(areaID, date, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos, err := s.buildSlotInfos(slots)
	if err != nil {
		return nil, 0, err
	}
	return infos, total, nil
}

// Today 今日配送总览：逐时段统计加全局汇总
func (s *SlotService) Today(now time.Time) (*dto.TodaySummary, error) {
	slots, err := s.slotRepo.ListByDate(now)
	if err != nil {
		return nil, err
	}

	infos, err := s.buildSlotInfos(slots)
	if err != nil {
		return nil, err
	}

	summary := &dto.TodaySummary{Slots: infos}

	// 汇总复用各时段已算好的统计；去重居民数需要合并后的订阅集合
	slotIDs := make([]int64, 0, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
		summary.TotalCapacity += slot.Capacity
	}
	for _, info := range infos {
		summary.TotalOccupied += info.Stats.OccupiedLiters
		summary.TotalBookings += info.Stats.BookedCount
	}

	grouped, err := s.subRepo.ListBySlotIDs(slotIDs)
	if err != nil {
		return nil, err
	}
	var merged []*model.SlotSubscription
	for _, subs := range grouped {
		merged = append(merged, subs...)
	}
	summary.UniqueCustomers = UniqueCustomerCount(merged)

	return summary, nil
}

// CurrentForUser 查询居民当前（今日起最近）的订阅及其时段实时状态
func (s *SlotService) CurrentForUser(userID int64, now time.Time) (*dto.CurrentSlotResponse, error) {
	sub, err := s.subRepo.GetCurrentForCustomer(userID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}

	slot := sub.Slot
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	slotSubs, err := s.subRepo.ListBySlot(slot.ID)
	if err != nil {
		return nil, err
	}

	return &dto.CurrentSlotResponse{
		Slot:         buildSlotInfo(slot, slotSubs),
		Subscription: buildSubscriptionInfo(sub),
	}, nil
}

// Update 更新时段。存储状态只接受 available/closed：full 永远由读取时计算。
func (s *SlotService) Update(id int64, req *dto.UpdateSlotRequest) (*dto.SlotInfo, error) {
	if _, err := s.slotRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		fields["date"] = date
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.Capacity != nil {
		fields["capacity"] = *req.Capacity
	}
	if req.BookingCutoffTime != nil {
		cutoff, err := time.Parse(time.RFC3339, *req.BookingCutoffTime)
		if err != nil {
			return nil, ErrInvalidDate
		}
		fields["booking_cutoff_time"] = cutoff
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.slotRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	// 关闭时段要通知仍在预订中的居民
	if req.Status != nil && *req.Status == model.SlotStatusClosed {
		s.notifySlotClosed(id)
	}

	return s.Get(id)
}

// Delete 软删除时段
func (s *SlotService) Delete(id int64) error {
	if _, err := s.slotRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		return err
	}
	return s.slotRepo.SoftDelete(id)
}

// buildSlotInfos 批量组装时段信息，一次取数避免 N+1
func (s *SlotService) buildSlotInfos(slots []*model.Slot) ([]*dto.SlotInfo, error) {
	slotIDs := make([]int64, 0, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
	}

	grouped, err := s.subRepo.ListBySlotIDs(slotIDs)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.SlotInfo, 0, len(slots))
	for _, slot := range slots {
		infos = append(infos, buildSlotInfo(slot, grouped[slot.ID]))
	}
	return infos, nil
}

func (s *SlotService) notifySlotClosed(slotID int64) {
	subs, err := s.subRepo.ListBySlot(slotID)
	if err != nil {
		log.Printf("Failed to list subscriptions of slot %d for close notify: %v", slotID, err)
		return
	}

	userIDs := make([]int64, 0, len(subs))
	for _, sub := range subs {
		if sub.Status == model.SubscriptionStatusBooked {
			userIDs = append(userIDs, sub.CustomerID)
		}
	}
	if len(userIDs) == 0 {
		return
	}

	s.pushNotify(&queue.NotifyMessage{
		Type:    queue.NotifySlotCancelled,
		SlotID:  slotID,
		UserIDs: userIDs,
		Detail:  "时段已关闭",
	})
}

func (s *SlotService) pushNotify(msg *queue.NotifyMessage) {
	if s.notifyQ == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.notifyQ.Push(ctx, msg); err != nil {
		log.Printf("Failed to push notify message (type=%s, slot=%d): %v", msg.Type, msg.SlotID, err)
	}
}

func buildSlotInfo(slot *model.Slot, subs []*model.SlotSubscription) *dto.SlotInfo {
	info := &dto.SlotInfo{
		ID:                slot.ID,
		Date:              slot.Date.Format("2006-01-02"),
		StartTime:         slot.StartTime,
		EndTime:           slot.EndTime,
		AreaID:            slot.AreaID,
		Capacity:          slot.Capacity,
		BookingCutoffTime: slot.BookingCutoffTime.Format(time.RFC3339),
		IsActive:          slot.IsActive,
		Stats:             ComputeStats(slot, subs),
	}
	if slot.Area != nil {
		info.AreaName = slot.Area.Name
	}
	return info
}

func buildSubscriptionInfo(sub *model.SlotSubscription) *dto.SubscriptionInfo {
	info := &dto.SubscriptionInfo{
		ID:                 sub.ID,
		CustomerID:         sub.CustomerID,
		SlotID:             sub.SlotID,
		Quantity:           sub.Quantity,
		Status:             sub.Status,
		ExtraQuantity:      sub.ExtraQuantity,
		ExtraRequestStatus: sub.ExtraRequestStatus,
		ProofURL:           sub.ProofURL,
		CreatedAt:          sub.CreatedAt.Format(time.RFC3339),
	}
	if sub.DeliveredAt != nil {
		info.DeliveredAt = sub.DeliveredAt.Format(time.RFC3339)
	}
	if sub.Customer != nil {
		info.CustomerName = sub.Customer.Name
	}
	return info
}
