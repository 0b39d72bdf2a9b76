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
	"github.com/qs3c/water_go_server/internal/pkg/oss"
	"github.com/qs3c/water_go_server/internal/pkg/pubsub"
	"github.com/qs3c/water_go_server/internal/pkg/queue"
	"github.com/qs3c/water_go_server/internal/repository"
)

var (
	ErrSubscriptionNotFound = errors.New("订阅不存在")
	ErrCutoffPassed         = errors.New("已过取消截止时间")
)

type SubscriptionService struct {
	subRepo   *repository.SubscriptionRepository
	slotRepo  *repository.SlotRepository
	ossClient *oss.Client
	notifyQ   *queue.Queue
	publisher *pubsub.Publisher
	cfg       *config.Config

	// 注入时钟，便于测试截止时间与送达时间戳
	now func() time.Time
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	slotRepo *repository.SlotRepository,
	ossClient *oss.Client,
	notifyQ *queue.Queue,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   subRepo,
		slotRepo:  slotRepo,
		ossClient: ossClient,
		notifyQ:   notifyQ,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock 替换时钟（测试用）
func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

// Cancel 居民取消订阅。只在时段截止时间前允许；
// 取消后该订阅不再计入时段占用。
func (s *SubscriptionService) Cancel(subscriptionID, customerID int64) error {
	sub, err := s.getOwned(subscriptionID, customerID)
	if err != nil {
		return err
	}

	slot := sub.Slot
	if slot == nil {
		return ErrSubscriptionNotFound
	}

	if s.now().After(slot.BookingCutoffTime) {
		return ErrCutoffPassed
	}

	if err := s.subRepo.UpdateFields(sub.ID, map[string]interface{}{
		"status": model.SubscriptionStatusCancelled,
	}); err != nil {
		return err
	}

	s.publishOccupancy(slot.ID)
	return nil
}

// RequestExtra 居民申请加量。不受截止时间限制，新申请直接覆盖旧申请
// （不保留历史），重新进入待审批状态。
func (s *SubscriptionService) RequestExtra(subscriptionID, customerID int64, quantity int) (*dto.SubscriptionInfo, error) {
	sub, err := s.getOwned(subscriptionID, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.subRepo.UpdateFields(sub.ID, map[string]interface{}{
		"extra_quantity":       quantity,
		"extra_request_status": model.ExtraRequestPending,
	}); err != nil {
		return nil, err
	}

	return s.reload(sub.ID)
}

// DecideExtraRequest 管理员审批加量申请。只改审批状态，不改申请数量。
func (s *SubscriptionService) DecideExtraRequest(subscriptionID int64, decision string) (*dto.SubscriptionInfo, error) {
	sub, err := s.get(subscriptionID)
	if err != nil {
		return nil, err
	}

	if err := s.subRepo.UpdateFields(sub.ID, map[string]interface{}{
		"extra_request_status": decision,
	}); err != nil {
		return nil, err
	}

	s.pushNotify(&queue.NotifyMessage{
		Type:           queue.NotifyExtraDecided,
		SlotID:         sub.SlotID,
		SubscriptionID: sub.ID,
		UserIDs:        []int64{sub.CustomerID},
		Detail:         decision,
	})
	// 审批通过会改变占用升数
	if decision == model.ExtraRequestApproved {
		s.publishOccupancy(sub.SlotID)
	}

	return s.reload(sub.ID)
}

// MarkDelivery 管理员标记配送结果。允许重复标记，送达时间以最后一次
// 标记为准；可附带配送凭证照片。
func (s *SubscriptionService) MarkDelivery(subscriptionID int64, outcome string, proof []byte, proofExt string) (*dto.SubscriptionInfo, error) {
	sub, err := s.get(subscriptionID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status": outcome,
	}
	if outcome == model.SubscriptionStatusDelivered {
		fields["delivered_at"] = s.now()
	}

	if len(proof) > 0 && s.ossClient != nil {
		objectKey, err := s.ossClient.UploadProof(sub.ID, proof, proofExt)
		if err != nil {
			log.Printf("Failed to upload delivery proof for subscription %d: %v", sub.ID, err)
		} else {
			fields["proof_url"] = objectKey
		}
	}

	if err := s.subRepo.UpdateFields(sub.ID, fields); err != nil {
		return nil, err
	}

	s.pushNotify(&queue.NotifyMessage{
		Type:           queue.NotifyDeliveryMarked,
		SlotID:         sub.SlotID,
		SubscriptionID: sub.ID,
		UserIDs:        []int64{sub.CustomerID},
		Detail:         outcome,
	})
	s.publishOccupancy(sub.SlotID)

	return s.reload(sub.ID)
}

// GetDetail 订阅详情（管理端），凭证返回带签名的临时 URL
func (s *SubscriptionService) GetDetail(subscriptionID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.get(subscriptionID)
	if err != nil {
		return nil, err
	}

	info := buildSubscriptionInfo(sub)
	if sub.ProofURL != "" && s.ossClient != nil {
		signedURL, err := s.ossClient.GetSignedURL(sub.ProofURL)
		if err != nil {
			log.Printf("Failed to sign proof URL for subscription %d: %v", sub.ID, err)
		} else {
			info.ProofURL = signedURL
		}
	}
	return info, nil
}

// ListBySlot 时段订阅列表（管理端）
func (s *SubscriptionService) ListBySlot(slotID int64, page, pageSize int) ([]*dto.SubscriptionInfo, int64, error) {
	subs, total, err := s.subRepo.ListBySlotWithCustomer(slotID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.SubscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, buildSubscriptionInfo(sub))
	}
	return infos, total, nil
}

// ListByCustomer 居民订阅历史
func (s *SubscriptionService) ListByCustomer(customerID int64, page, pageSize int) ([]*dto.SubscriptionInfo, int64, error) {
	subs, total, err := s.subRepo.ListByCustomer(customerID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.SubscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, buildSubscriptionInfo(sub))
	}
	return infos, total, nil
}

func (s *SubscriptionService) get(subscriptionID int64) (*model.SlotSubscription, error) {
	sub, err := s.subRepo.GetByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// getOwned 居民自助操作：他人的订阅视同不存在
func (s *SubscriptionService) getOwned(subscriptionID, customerID int64) (*model.SlotSubscription, error) {
	sub, err := s.get(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.CustomerID != customerID {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *SubscriptionService) reload(subscriptionID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.get(subscriptionID)
	if err != nil {
		return nil, err
	}
	return buildSubscriptionInfo(sub), nil
}

// publishOccupancy 订阅变化后发布时段最新占用，供管理端实时面板
func (s *SubscriptionService) publishOccupancy(slotID int64) {
	if s.publisher == nil {
		return
	}

	slot, err := s.slotRepo.GetByID(slotID)
	if err != nil {
		log.Printf("Failed to load slot %d for occupancy publish: %v", slotID, err)
		return
	}
	subs, err := s.subRepo.ListBySlot(slotID)
	if err != nil {
		log.Printf("Failed to load subscriptions of slot %d for occupancy publish: %v", slotID, err)
		return
	}

	stats := ComputeStats(slot, subs)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.publisher.PublishOccupancy(ctx, &pubsub.OccupancyMessage{
		SlotID:             slot.ID,
		AreaID:             slot.AreaID,
		OccupiedLiters:     stats.OccupiedLiters,
		BookedCount:        stats.BookedCount,
		Status:             stats.Status,
		ProgressPercentage: stats.ProgressPercentage,
	}); err != nil {
		log.Printf("Failed to publish occupancy for slot %d: %v", slotID, err)
	}
}

func (s *SubscriptionService) pushNotify(msg *queue.NotifyMessage) {
	if s.notifyQ == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.notifyQ.Push(ctx, msg); err != nil {
		log.Printf("Failed to push notify message (type=%s, subscription=%d): %v", msg.Type, msg.SubscriptionID, err)
	}
}
