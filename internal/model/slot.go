package model

import (
	"time"
)

// 槽位存储状态。只有 closed 是权威值：available/full 在读取时由
// 订阅数据实时计算，存储值不可信。
const (
	SlotStatusAvailable = "available"
	SlotStatusFull      = "full"
	SlotStatusClosed    = "closed"
)

type Slot struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	Date              time.Time `gorm:"not null;index" json:"date"`
	StartTime         string    `gorm:"size:10;not null" json:"start_time"` // HH:MM
	EndTime           string    `gorm:"size:10;not null" json:"end_time"`
	AreaID            int64     `gorm:"not null;index" json:"area_id"`
	Capacity          int       `gorm:"not null" json:"capacity"` // 可配送总升数
	BookingCutoffTime time.Time `gorm:"not null" json:"booking_cutoff_time"`
	Status            string    `gorm:"size:20;default:available" json:"status"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	IsDeleted         bool      `gorm:"default:false;index" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Area *Area `gorm:"foreignKey:AreaID" json:"area,omitempty"`
}

func (Slot) TableName() string {
	return "slots"
}
