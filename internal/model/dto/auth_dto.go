package dto

// RequestOTPRequest 请求验证码
type RequestOTPRequest struct {
	Phone       string `json:"phone" binding:"required,min=6,max=15"`
	CountryCode string `json:"country_code" binding:"required,max=5"`
}

// RequestOTPResponse 请求验证码响应
type RequestOTPResponse struct {
	ExpiresIn int `json:"expires_in"` // 秒
}

// VerifyOTPRequest 校验验证码
type VerifyOTPRequest struct {
	Phone       string `json:"phone" binding:"required,min=6,max=15"`
	CountryCode string `json:"country_code" binding:"required,max=5"`
	Code        string `json:"code" binding:"required,min=4,max=8"`
}

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=32"`
}

// LoginResponse 登录响应（居民和管理员共用）
type LoginResponse struct {
	Token string    `json:"token"`
	Role  string    `json:"role"`
	User  *UserInfo `json:"user,omitempty"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	CountryCode   string `json:"country_code"`
	Email         string `json:"email,omitempty"`
	AreaID        int64  `json:"area_id,omitempty"`
	AreaName      string `json:"area_name,omitempty"`
	AddressLine   string `json:"address_line,omitempty"`
	Landmark      string `json:"landmark,omitempty"`
	WaterQuantity int    `json:"water_quantity"`
	Enabled       bool   `json:"enabled"`
	Verified      bool   `json:"verified"`
	CreatedAt     string `json:"created_at,omitempty"`
}
