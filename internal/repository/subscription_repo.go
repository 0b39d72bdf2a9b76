package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.SlotSubscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.SlotSubscription, error) {
	var sub model.SlotSubscription
	err := r.db.Preload("Slot").Preload("Customer").
		Where("id = ? AND is_deleted = ?", id, false).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListBySlot 查询时段的全部订阅（容量引擎的输入）
func (r *SubscriptionRepository) ListBySlot(slotID int64) ([]*model.SlotSubscription, error) {
	var subs []*model.SlotSubscription
	err := r.db.Where("slot_id = ? AND is_deleted = ?", slotID, false).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// ListBySlotIDs 批量查询多个时段的订阅，按 slot_id 分组返回。
// 列表页和今日总览用它一次取数，避免每个时段各查一遍。
func (r *SubscriptionRepository) ListBySlotIDs(slotIDs []int64) (map[int64][]*model.SlotSubscription, error) {
	grouped := make(map[int64][]*model.SlotSubscription, len(slotIDs))
	if len(slotIDs) == 0 {
		return grouped, nil
	}

	var subs []*model.SlotSubscription
	err := r.db.Where("slot_id IN ? AND is_deleted = ?", slotIDs, false).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	for _, sub := range subs {
		grouped[sub.SlotID] = append(grouped[sub.SlotID], sub)
	}
	return grouped, nil
}

// ListBySlotWithCustomer 带居民信息的订阅列表（管理端查看）
func (r *SubscriptionRepository) ListBySlotWithCustomer(slotID int64, page, pageSize int) ([]*model.SlotSubscription, int64, error) {
	var subs []*model.SlotSubscription
	var total int64

	query := r.db.Model(&model.SlotSubscription{}).
		Where("slot_id = ? AND is_deleted = ?", slotID, false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Customer").
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// GetCurrentForCustomer 查询居民在指定日期之后最近的一条订阅。
// 已取消的订阅不算“当前订阅”。
func (r *SubscriptionRepository) GetCurrentForCustomer(customerID int64, from time.Time) (*model.SlotSubscription, error) {
	dayStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	var sub model.SlotSubscription
	err := r.db.Preload("Slot").Preload("Slot.Area").
		Joins("JOIN slots ON slots.id = slot_subscriptions.slot_id").
		Where("slot_subscriptions.customer_id = ? AND slot_subscriptions.is_deleted = ?", customerID, false).
		Where("slot_subscriptions.status <> ?", model.SubscriptionStatusCancelled).
		Where("slots.date >= ? AND slots.is_deleted = ?", dayStart, false).
		Order("slots.date ASC, slots.start_time ASC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) ListByCustomer(customerID int64, page, pageSize int) ([]*model.SlotSubscription, int64, error) {
	var subs []*model.SlotSubscription
	var total int64

	query := r.db.Model(&model.SlotSubscription{}).
		Where("customer_id = ? AND is_deleted = ?", customerID, false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Slot").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

func (r *SubscriptionRepository) Update(sub *model.SlotSubscription) error {
	return r.db.Save(sub).Error
}

func (r *SubscriptionRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.SlotSubscription{}).Where("id = ?", id).Updates(fields).Error
}

// MarkMissedBySlotIDs 将指定时段中仍为 booked 的订阅批量置为 missed
func (r *SubscriptionRepository) MarkMissedBySlotIDs(slotIDs []int64) (int64, error) {
	if len(slotIDs) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.SlotSubscription{}).
		Where("slot_id IN ? AND status = ? AND is_deleted = ?",
			slotIDs, model.SubscriptionStatusBooked, false).
		Update("status", model.SubscriptionStatusMissed)
	return result.RowsAffected, result.Error
}
