package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"escalafon/internal/dto"
	"escalafon/internal/service"
	"escalafon/pkg/response"
)

// GuardHandler 值班记录模块 HTTP 处理器
type GuardHandler struct {
	guardSvc service.GuardService
}

// NewGuardHandler 创建 GuardHandler
func NewGuardHandler(guardSvc service.GuardService) *GuardHandler {
	return &GuardHandler{guardSvc: guardSvc}
}

// ListGuards 人员在区间内的值班记录
// GET /api/v1/guards?employee_id=&start=&end=
func (h *GuardHandler) ListGuards(c *gin.Context) {
	var req dto.GuardListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.guardSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleGuardError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateGuard 创建单日值班记录
// POST /api/v1/guards
func (h *GuardHandler) CreateGuard(c *gin.Context) {
	var req dto.CreateGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	g, err := h.guardSvc.Create(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		h.handleGuardError(c, err)
		return
	}
	response.Created(c, g)
}

// UpdateGuard 更新值班记录
// PUT /api/v1/guards/:id
func (h *GuardHandler) UpdateGuard(c *gin.Context) {
	var req dto.UpdateGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	g, err := h.guardSvc.Update(c.Request.Context(), c.Param("id"), &req, OperatorID(c))
	if err != nil {
		h.handleGuardError(c, err)
		return
	}
	response.OK(c, g)
}

// DeleteGuard 删除值班记录
// DELETE /api/v1/guards/:id
func (h *GuardHandler) DeleteGuard(c *gin.Context) {
	if err := h.guardSvc.Delete(c.Request.Context(), c.Param("id"), OperatorID(c)); err != nil {
		h.handleGuardError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleGuardError 统一处理值班记录模块业务错误
func (h *GuardHandler) handleGuardError(c *gin.Context, err error) {
	if handleCommonError(c, 15000, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrGuardNotFound):
		response.NotFound(c, 15001, "值班记录不存在")
	case errors.Is(err, service.ErrGuardInvalidRange):
		response.BadRequest(c, 15002, "开始日期不能晚于结束日期")
	case errors.Is(err, service.ErrGuardRangeTooLarge):
		response.BadRequest(c, 15003, "查询天数超出上限")
	case errors.Is(err, service.ErrEmptyDutyType):
		response.BadRequest(c, 15004, "值班类型不能为空")
	default:
		response.InternalError(c)
	}
}
