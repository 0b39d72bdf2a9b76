package dto

// RequestExtraRequest 申请加量请求
type RequestExtraRequest struct {
	ExtraQuantity int `json:"extra_quantity" binding:"required,min=1"`
}

// DecideExtraRequest 管理员审批加量请求
type DecideExtraRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// MarkDeliveryRequest 管理员标记配送结果。凭证照片走 multipart，
// outcome 同时支持表单字段和 JSON。
type MarkDeliveryRequest struct {
	Outcome string `json:"outcome" form:"outcome" binding:"required,oneof=delivered missed"`
}

// SubscriptionInfo 订阅信息
type SubscriptionInfo struct {
	ID                 int64  `json:"id"`
	CustomerID         int64  `json:"customer_id"`
	CustomerName       string `json:"customer_name,omitempty"`
	SlotID             int64  `json:"slot_id"`
	Quantity           int    `json:"quantity"`
	Status             string `json:"status"`
	DeliveredAt        string `json:"delivered_at,omitempty"`
	ExtraQuantity      int    `json:"extra_quantity"`
	ExtraRequestStatus string `json:"extra_request_status"`
	ProofURL           string `json:"proof_url,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// CurrentSlotResponse 用户当前时段（含订阅与时段实时状态）
type CurrentSlotResponse struct {
	Slot         *SlotInfo         `json:"slot"`
	Subscription *SubscriptionInfo `json:"subscription"`
}
