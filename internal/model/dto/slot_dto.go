package dto

// CreateSlotRequest 创建配送时段请求
type CreateSlotRequest struct {
	Date              string `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime         string `json:"start_time" binding:"required,len=5"`
	EndTime           string `json:"end_time" binding:"required,len=5"`
	AreaID            int64  `json:"area_id" binding:"required,min=1"`
	Capacity          int    `json:"capacity" binding:"required,min=0"`
	BookingCutoffTime string `json:"booking_cutoff_time" binding:"required"` // RFC3339
}

// CreateSlotResponse 创建配送时段响应
type CreateSlotResponse struct {
	SlotID        int64 `json:"slot_id"`
	EnrolledCount int   `json:"enrolled_count"`
}

// UpdateSlotRequest 更新配送时段请求
type UpdateSlotRequest struct {
	Date              *string `json:"date,omitempty"`
	StartTime         *string `json:"start_time,omitempty" binding:"omitempty,len=5"`
	EndTime           *string `json:"end_time,omitempty" binding:"omitempty,len=5"`
	Capacity          *int    `json:"capacity,omitempty" binding:"omitempty,min=0"`
	BookingCutoffTime *string `json:"booking_cutoff_time,omitempty"`
	Status            *string `json:"status,omitempty" binding:"omitempty,oneof=available closed"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

// SlotStats 时段的实时占用统计（容量引擎输出）
type SlotStats struct {
	OccupiedLiters     int    `json:"occupied_liters"`
	BookedCount        int    `json:"booked_count"`
	Status             string `json:"status"`
	ProgressPercentage string `json:"progress_percentage"`
}

// SlotInfo 时段信息（含实时统计）
type SlotInfo struct {
	ID                int64     `json:"id"`
	Date              string    `json:"date"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	AreaID            int64     `json:"area_id"`
	AreaName          string    `json:"area_name,omitempty"`
	Capacity          int       `json:"capacity"`
	BookingCutoffTime string    `json:"booking_cutoff_time"`
	IsActive          bool      `json:"is_active"`
	Stats             SlotStats `json:"stats"`
}

// TodaySummary 今日配送总览
type TodaySummary struct {
	Slots           []*SlotInfo `json:"slots"`
	TotalCapacity   int         `json:"total_capacity"`
	TotalOccupied   int         `json:"total_occupied"`
	TotalBookings   int         `json:"total_bookings"`
	UniqueCustomers int         `json:"unique_customers"`
}
