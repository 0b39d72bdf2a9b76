package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/water_go_server/internal/model/dto"
	"github.com/qs3c/water_go_server/internal/pkg/response"
	"github.com/qs3c/water_go_server/internal/service"
)

type AreaHandler struct {
	areaService *service.AreaService
}

func NewAreaHandler(areaService *service.AreaService) *AreaHandler {
	return &AreaHandler{
		areaService: areaService,
	}
}

// Create 创建配送区域
// POST /api/v1/admin/areas
func (h *AreaHandler) Create(c *gin.Context) {
	var req dto.CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.areaService.Create(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", info)
}

// List 区域列表
// GET /api/v1/admin/areas
func (h *AreaHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.areaService.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 区域详情
// GET /api/v1/admin/areas/:id
func (h *AreaHandler) Get(c *gin.Context) {
	areaID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的区域ID")
		return
	}

	info, err := h.areaService.Get(areaID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAreaNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// Update 更新区域
// PUT /api/v1/admin/areas/:id
func (h *AreaHandler) Update(c *gin.Context) {
	areaID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的区域ID")
		return
	}

	var req dto.UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.areaService.Update(areaID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAreaNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "更新成功", info)
}

// Delete 删除区域
// DELETE /api/v1/admin/areas/:id
func (h *AreaHandler) Delete(c *gin.Context) {
	areaID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的区域ID")
		return
	}

	if err := h.areaService.Delete(areaID); err != nil {
		switch {
		case errors.Is(err, service.ErrAreaNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
