package model

import (
	"time"
)

// 订阅配送状态
const (
	SubscriptionStatusBooked    = "booked"
	SubscriptionStatusDelivered = "delivered"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusMissed    = "missed"
)

// 加量申请状态
const (
	ExtraRequestNone     = "none"
	ExtraRequestPending  = "pending"
	ExtraRequestApproved = "approved"
	ExtraRequestRejected = "rejected"
)

type SlotSubscription struct {
	ID                 int64      `gorm:"primaryKey" json:"id"`
	CustomerID         int64      `gorm:"not null;index" json:"customer_id"`
	SlotID             int64      `gorm:"not null;index" json:"slot_id"`
	Quantity           int        `gorm:"not null" json:"quantity"` // 基础升数
	Status             string     `gorm:"size:20;default:booked;index" json:"status"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	ExtraQuantity      int        `gorm:"default:0" json:"extra_quantity"`
	ExtraRequestStatus string     `gorm:"size:20;default:none" json:"extra_request_status"`
	ProofURL           string     `gorm:"size:500" json:"proof_url,omitempty"` // 配送凭证照片
	IsActive           bool       `gorm:"default:true" json:"is_active"`
	IsDeleted          bool       `gorm:"default:false;index" json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Customer *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Slot     *Slot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

func (SlotSubscription) TableName() string {
	return "slot_subscriptions"
}
