package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/water_go_server/internal/model"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) Create(slot *model.Slot) error {
	return r.db.Create(slot).Error
}

// CreateWithSubscriptions 在同一事务中创建时段并批量写入自动订阅。
// 任一步失败整体回滚，不会出现有时段无订阅的中间状态。
func (r *SlotRepository) CreateWithSubscriptions(slot *model.Slot, subs []*model.SlotSubscription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(slot).Error; err != nil {
			return err
		}
		for _, sub := range subs {
			sub.SlotID = slot.ID
		}
		if len(subs) > 0 {
			if err := tx.Create(subs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SlotRepository) GetByID(id int64) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.Preload("Area").
		Where("id = ? AND is_deleted = ?", id, false).First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// List 分页查询时段，可按区域和日期过滤
func (r *SlotRepository) List(areaID int64, date *time.Time, page, pageSize int) ([]*model.Slot, int64, error) {
	var slots []*model.Slot
	var total int64

	query := r.db.Model(&model.Slot{}).Where("is_deleted = ?", false)
	if areaID > 0 {
		query = query.Where("area_id = ?", areaID)
	}
	if date != nil {
		start, end := dayRange(*date)
		query = query.Where("date >= ? AND date < ?", start, end)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Area").
		Order("date DESC, start_time ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&slots).Error
	if err != nil {
		return nil, 0, err
	}

	return slots, total, nil
}

// ListByDate 查询某日全部有效时段（今日总览使用）
func (r *SlotRepository) ListByDate(date time.Time) ([]*model.Slot, error) {
	start, end := dayRange(date)
	var slots []*model.Slot
	err := r.db.Preload("Area").
		Where("date >= ? AND date < ? AND is_deleted = ? AND is_active = ?",
			start, end, false, true).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotRepository) Update(slot *model.Slot) error {
	return r.db.Save(slot).Error
}

func (r *SlotRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Slot{}).Where("id = ?", id).Updates(fields).Error
}

func (r *SlotRepository) SoftDelete(id int64) error {
	return r.db.Model(&model.Slot{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}

// ListExpiredOpen 查询日期已过但仍未关闭的时段（维护任务使用）
func (r *SlotRepository) ListExpiredOpen(before time.Time) ([]*model.Slot, error) {
	start, _ := dayRange(before)
	var slots []*model.Slot
	err := r.db.Where("date < ? AND status <> ? AND is_deleted = ?",
		start, model.SlotStatusClosed, false).
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// dayRange 返回给定时刻所在自然日的起止边界
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// CloseByIDs 批量关闭时段
func (r *SlotRepository) CloseByIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Slot{}).Where("id IN ?", ids).
		Update("status", model.SlotStatusClosed).Error
}
