package model

import (
	"time"
)

type Area struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	City        string    `gorm:"size:100" json:"city"`
	Pincode     string    `gorm:"size:6;index" json:"pincode"`
	IsDeleted   bool      `gorm:"default:false;index" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Area) TableName() string {
	return "areas"
}
