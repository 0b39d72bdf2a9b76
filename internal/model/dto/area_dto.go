package dto

// CreateAreaRequest 创建配送区域请求
type CreateAreaRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description,omitempty" binding:"omitempty,max=2000"`
	City        string `json:"city" binding:"required,max=100"`
	Pincode     string `json:"pincode" binding:"required,len=6,numeric"`
}

// UpdateAreaRequest 更新配送区域请求
type UpdateAreaRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	City        *string `json:"city,omitempty" binding:"omitempty,max=100"`
	Pincode     *string `json:"pincode,omitempty" binding:"omitempty,len=6,numeric"`
}

// AreaInfo 区域信息
type AreaInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	CreatedAt   string `json:"created_at,omitempty"`
}
