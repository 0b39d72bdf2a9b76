package dto

// CreateUserRequest 管理员创建居民请求
type CreateUserRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Phone         string `json:"phone" binding:"required,min=6,max=15"`
	CountryCode   string `json:"country_code" binding:"required,max=5"`
	Email         string `json:"email,omitempty" binding:"omitempty,email"`
	AreaID        int64  `json:"area_id" binding:"required,min=1"`
	AddressLine   string `json:"address_line,omitempty" binding:"omitempty,max=255"`
	Landmark      string `json:"landmark,omitempty" binding:"omitempty,max=255"`
	WaterQuantity int    `json:"water_quantity,omitempty" binding:"omitempty,min=0"`
}

// UpdateUserRequest 管理员更新居民请求
type UpdateUserRequest struct {
	Name          *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Email         *string `json:"email,omitempty" binding:"omitempty,email"`
	AreaID        *int64  `json:"area_id,omitempty" binding:"omitempty,min=1"`
	AddressLine   *string `json:"address_line,omitempty" binding:"omitempty,max=255"`
	Landmark      *string `json:"landmark,omitempty" binding:"omitempty,max=255"`
	WaterQuantity *int    `json:"water_quantity,omitempty" binding:"omitempty,min=0"`
	Enabled       *bool   `json:"enabled,omitempty"`
}

// UpdateProfileRequest 居民更新个人资料请求
type UpdateProfileRequest struct {
	Name          *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Email         *string `json:"email,omitempty" binding:"omitempty,email"`
	AddressLine   *string `json:"address_line,omitempty" binding:"omitempty,max=255"`
	Landmark      *string `json:"landmark,omitempty" binding:"omitempty,max=255"`
	WaterQuantity *int    `json:"water_quantity,omitempty" binding:"omitempty,min=0"`
}
