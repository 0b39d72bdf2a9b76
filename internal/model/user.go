package model

import (
	"time"
)

type User struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Phone         string    `gorm:"size:20;not null;uniqueIndex:idx_phone_cc" json:"phone"`
	CountryCode   string    `gorm:"size:8;not null;uniqueIndex:idx_phone_cc" json:"country_code"`
	Email         *string   `gorm:"size:100" json:"email,omitempty"`
	AreaID        int64     `gorm:"index" json:"area_id"`
	AddressLine   string    `gorm:"size:255" json:"address_line"`
	Landmark      string    `gorm:"size:255" json:"landmark"`
	WaterQuantity int       `gorm:"default:0" json:"water_quantity"` // 每次配送的默认升数
	Enabled       bool      `gorm:"default:true;index" json:"enabled"`
	Verified      bool      `gorm:"default:false" json:"verified"`
	IsDeleted     bool      `gorm:"default:false;index" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Area *Area `gorm:"foreignKey:AreaID" json:"area,omitempty"`
}

func (User) TableName() string {
	return "users"
}
