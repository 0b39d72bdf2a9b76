package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/model"
	"github.com/qs3c/water_go_server/internal/pkg/email"
	"github.com/qs3c/water_go_server/internal/pkg/queue"
	"github.com/qs3c/water_go_server/internal/pkg/ws"
	"github.com/qs3c/water_go_server/internal/repository"
)

// Notifier 通知任务处理器。消费队列中的通知消息，
// 按类型分发邮件并向在线用户推送 WebSocket 消息。
type Notifier struct {
	userRepo *repository.UserRepository
	slotRepo *repository.SlotRepository
	subRepo  *repository.SubscriptionRepository
	areaRepo *repository.AreaRepository
	emailSvc *email.Service
	hub      *ws.Hub
	cfg      *config.Config
}

func NewNotifier(
	userRepo *repository.UserRepository,
	slotRepo *repository.SlotRepository,
	subRepo *repository.SubscriptionRepository,
	areaRepo *repository.AreaRepository,
	emailSvc *email.Service,
	hub *ws.Hub,
	cfg *config.Config,
) *Notifier {
	return &Notifier{
		userRepo: userRepo,
		slotRepo: slotRepo,
		subRepo:  subRepo,
		areaRepo: areaRepo,
		emailSvc: emailSvc,
		hub:      hub,
		cfg:      cfg,
	}
}

// Process 处理一条通知消息
func (n *Notifier) Process(ctx context.Context, msg *queue.NotifyMessage) error {
	switch msg.Type {
	case queue.NotifySlotCreated:
		return n.notifySlotCreated(msg)
	case queue.NotifySlotCancelled:
		return n.notifySlotCancelled(msg)
	case queue.NotifyDeliveryMarked:
		return n.notifyDeliveryMarked(msg)
	case queue.NotifyExtraDecided:
		return n.notifyExtraDecided(msg)
	default:
		log.Printf("Notifier: unknown message type %q, skipping", msg.Type)
		return nil
	}
}

// notifySlotCreated 新时段开放、自动预订成功后通知区域内住户
func (n *Notifier) notifySlotCreated(msg *queue.NotifyMessage) error {
	slot, err := n.slotRepo.GetByID(msg.SlotID)
	if err != nil {
		return fmt.Errorf("failed to get slot %d: %w", msg.SlotID, err)
	}

	area, err := n.areaRepo.GetByID(slot.AreaID)
	if err != nil {
		return fmt.Errorf("failed to get area %d: %w", slot.AreaID, err)
	}

	users, err := n.userRepo.ListByIDs(msg.UserIDs)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	date := slot.Date.Format("2006-01-02")
	for _, user := range users {
		n.sendEmail(user, func(to string) error {
			return n.emailSvc.SendSlotCreated(
				to, user.Name, area.Name,
				date, slot.StartTime, slot.EndTime,
				user.WaterQuantity,
			)
		})

		n.push(user.ID, &ws.Message{
			Type: queue.NotifySlotCreated,
			Data: map[string]interface{}{
				"slot_id":    slot.ID,
				"area_name":  area.Name,
				"date":       date,
				"start_time": slot.StartTime,
				"end_time":   slot.EndTime,
			},
		})
	}

	log.Printf("Notifier: slot %d created, notified %d users", slot.ID, len(users))
	return nil
}

// notifySlotCancelled 时段被管理员关闭后通知已预订的住户
func (n *Notifier) notifySlotCancelled(msg *queue.NotifyMessage) error {
	users, err := n.userRepo.ListByIDs(msg.UserIDs)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		n.push(user.ID, &ws.Message{
			Type: queue.NotifySlotCancelled,
			Data: map[string]interface{}{
				"slot_id": msg.SlotID,
				"detail":  msg.Detail,
			},
		})
	}

	log.Printf("Notifier: slot %d cancelled, notified %d users", msg.SlotID, len(users))
	return nil
}

// notifyDeliveryMarked 配送结果登记后通知对应住户。
// Detail 字段携带配送结果（delivered / missed）。
func (n *Notifier) notifyDeliveryMarked(msg *queue.NotifyMessage) error {
	sub, err := n.subRepo.GetByID(msg.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to get subscription %d: %w", msg.SubscriptionID, err)
	}

	user, err := n.userRepo.GetByID(sub.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to get user %d: %w", sub.CustomerID, err)
	}

	slot, err := n.slotRepo.GetByID(sub.SlotID)
	if err != nil {
		return fmt.Errorf("failed to get slot %d: %w", sub.SlotID, err)
	}

	delivered := msg.Detail == model.SubscriptionStatusDelivered
	n.sendEmail(user, func(to string) error {
		return n.emailSvc.SendDeliveryResult(to, user.Name, slot.Date.Format("2006-01-02"), delivered)
	})

	n.push(user.ID, &ws.Message{
		Type: queue.NotifyDeliveryMarked,
		Data: map[string]interface{}{
			"subscription_id": sub.ID,
			"slot_id":         sub.SlotID,
			"status":          msg.Detail,
		},
	})

	log.Printf("Notifier: delivery marked %q for subscription %d", msg.Detail, sub.ID)
	return nil
}

// notifyExtraDecided 加量审批后通知申请人。Detail 携带审批结果。
func (n *Notifier) notifyExtraDecided(msg *queue.NotifyMessage) error {
	sub, err := n.subRepo.GetByID(msg.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to get subscription %d: %w", msg.SubscriptionID, err)
	}

	user, err := n.userRepo.GetByID(sub.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to get user %d: %w", sub.CustomerID, err)
	}

	approved := msg.Detail == model.ExtraRequestApproved
	n.sendEmail(user, func(to string) error {
		return n.emailSvc.SendExtraDecision(to, user.Name, sub.ExtraQuantity, approved)
	})

	n.push(user.ID, &ws.Message{
		Type: queue.NotifyExtraDecided,
		Data: map[string]interface{}{
			"subscription_id":      sub.ID,
			"extra_quantity":       sub.ExtraQuantity,
			"extra_request_status": msg.Detail,
		},
	})

	log.Printf("Notifier: extra request %q for subscription %d", msg.Detail, sub.ID)
	return nil
}

// sendEmail 向留有邮箱的用户发送邮件，失败只记录日志不中断处理
func (n *Notifier) sendEmail(user *model.User, send func(to string) error) {
	if n.emailSvc == nil || user.Email == nil || *user.Email == "" {
		return
	}
	if err := send(*user.Email); err != nil {
		log.Printf("Notifier: failed to send email to user %d: %v", user.ID, err)
	}
}

// push 向在线用户推送 WebSocket 消息，离线用户直接跳过
func (n *Notifier) push(userID int64, msg *ws.Message) {
	if n.hub == nil {
		return
	}
	if err := n.hub.SendToUser(userID, msg); err != nil {
		log.Printf("Notifier: failed to push to user %d: %v", userID, err)
	}
}
