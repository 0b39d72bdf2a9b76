package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/api/middleware"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/pkg/response"
	"github.com/qs3c/water_go_server/internal/service"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
	cfg        *config.Config
}

func NewSubscriptionHandler(subService *service.SubscriptionService, cfg *config.Config) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
		cfg:        cfg,
	}
}

// Cancel 居民取消订阅
// POST /api/v1/subscriptions/:id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	principalID, ok := middleware.GetPrincipalID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	if err := h.subService.Cancel(subID, principalID); err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCutoffPassed):
			response.PolicyError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已取消", nil)
}

// RequestExtra 居民申请加量
// POST /api/v1/subscriptions/:id/extra
func (h *SubscriptionHandler) RequestExtra(c *gin.Context) {
	principalID, ok := middleware.GetPrincipalID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	var req dto.RequestExtraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.subService.RequestExtra(subID, principalID, req.ExtraQuantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "申请已提交", info)
}

// ListMine 居民订阅历史
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	principalID, ok := middleware.GetPrincipalID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.subService.ListByCustomer(principalID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// ListBySlot 时段订阅列表（管理端）
// GET /api/v1/admin/slots/:id/subscriptions
func (h *SubscriptionHandler) ListBySlot(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的时段ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.subService.ListBySlot(slotID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// GetDetail 订阅详情（管理端）
// GET /api/v1/admin/subscriptions/:id
func (h *SubscriptionHandler) GetDetail(c *gin.Context) {
	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	info, err := h.subService.GetDetail(subID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// DecideExtra 管理员审批加量申请
// POST /api/v1/admin/subscriptions/:id/extra-decision
func (h *SubscriptionHandler) DecideExtra(c *gin.Context) {
	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	var req dto.DecideExtraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.subService.DecideExtraRequest(subID, req.Decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "审批完成", info)
}

// MarkDelivery 管理员标记配送结果，可附带凭证照片（multipart 的 proof 字段）
// POST /api/v1/admin/subscriptions/:id/delivery
func (h *SubscriptionHandler) MarkDelivery(c *gin.Context) {
	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	var req dto.MarkDeliveryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	var proof []byte
	var proofExt string
	if file, header, err := c.Request.FormFile("proof"); err == nil {
		defer file.Close()

		maxSize := int64(h.cfg.Delivery.ProofMaxSizeMB) * 1024 * 1024
		if maxSize > 0 && header.Size > maxSize {
			response.ParamError(c, "凭证图片过大")
			return
		}

		proofExt = strings.ToLower(filepath.Ext(header.Filename))
		if proofExt != ".jpg" && proofExt != ".jpeg" && proofExt != ".png" {
			response.ParamError(c, "仅支持 JPG/PNG 图片")
			return
		}

		proof, err = io.ReadAll(file)
		if err != nil {
			response.ServerError(c, "读取凭证失败")
			return
		}
	}

	info, err := h.subService.MarkDelivery(subID, req.Outcome, proof, proofExt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已标记", info)
}
