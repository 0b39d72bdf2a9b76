package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/water_go_server/internal/api/middleware"
	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/pkg/response"
	"github.com/qs3c/water_go_server/internal/service"
)

type SlotHandler struct {
	slotService *service.SlotService
}

func NewSlotHandler(slotService *service.SlotService) *SlotHandler {
	return &SlotHandler{
		slotService: slotService,
	}
}

// Create 创建配送时段（自动订阅区域内居民）
// POST /api/v1/admin/slots
func (h *SlotHandler) Create(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.slotService.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAreaNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创建成功", resp)
}

// List 时段列表
// GET /api/v1/admin/slots
func (h *SlotHandler) List(c *gin.Context) {
	areaID, _ := strconv.ParseInt(c.DefaultQuery("area_id", "0"), 10, 64)
	date := c.Query("date")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.slotService.List(areaID, date, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 时段详情（含实时统计）
// GET /api/v1/admin/slots/:id
func (h *SlotHandler) Get(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的时段ID")
		return
	}

	info, err := h.slotService.Get(slotID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlotNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// Today 今日配送总览
// GET /api/v1/admin/slots/today
func (h *SlotHandler) Today(c *gin.Context) {
	summary, err := h.slotService.Today(time.Now())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, summary)
}

// Update 更新时段
// PUT /api/v1/admin/slots/:id
func (h *SlotHandler) Update(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的时段ID")
		return
	}

	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.slotService.Update(slotID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlotNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "更新成功", info)
}

// Delete 删除时段
// DELETE /api/v1/admin/slots/:id
func (h *SlotHandler) Delete(c *gin.Context) {
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的时段ID")
		return
	}

	if err := h.slotService.Delete(slotID); err != nil {
		switch {
		case errors.Is(err, service.ErrSlotNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Current 居民查看当前配送时段
// GET /api/v1/slots/current
func (h *SlotHandler) Current(c *gin.Context) {
	principalID, ok := middleware.GetPrincipalID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.slotService.CurrentForUser(principalID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSubscription):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrSlotNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}
