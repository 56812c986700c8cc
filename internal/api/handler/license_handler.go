package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"escalafon/internal/dto"
	"escalafon/internal/service"
	"escalafon/pkg/response"
)

// LicenseHandler 请假模块 HTTP 处理器
type LicenseHandler struct {
	licenseSvc service.LicenseService
}

// NewLicenseHandler 创建 LicenseHandler
func NewLicenseHandler(licenseSvc service.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenseSvc: licenseSvc}
}

// ListLicenses 请假列表（分页）
// GET /api/v1/licenses?status=&employee_id=&page=&page_size=
func (h *LicenseHandler) ListLicenses(c *gin.Context) {
	var req dto.LicenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.licenseSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleLicenseError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListEmployeeLicenses 人员全部请假
// GET /api/v1/employees/:id/licenses
func (h *LicenseHandler) ListEmployeeLicenses(c *gin.Context) {
	list, err := h.licenseSvc.ListByEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLicenseError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateLicense 登记请假
// POST /api/v1/licenses
func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	var req dto.CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	l, err := h.licenseSvc.Create(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		h.handleLicenseError(c, err)
		return
	}
	response.Created(c, l)
}

// UpdateLicense 更新请假
// PUT /api/v1/licenses/:id
func (h *LicenseHandler) UpdateLicense(c *gin.Context) {
	var req dto.UpdateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	l, err := h.licenseSvc.Update(c.Request.Context(), c.Param("id"), &req, OperatorID(c))
	if err != nil {
		h.handleLicenseError(c, err)
		return
	}
	response.OK(c, l)
}

// UpdateLicenseStatus 审批请假
// PUT /api/v1/licenses/:id/status
func (h *LicenseHandler) UpdateLicenseStatus(c *gin.Context) {
	var req dto.UpdateLicenseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	l, err := h.licenseSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, OperatorID(c))
	if err != nil {
		h.handleLicenseError(c, err)
		return
	}
	response.OK(c, l)
}

// DeleteLicense 删除请假
// DELETE /api/v1/licenses/:id
func (h *LicenseHandler) DeleteLicense(c *gin.Context) {
	if err := h.licenseSvc.Delete(c.Request.Context(), c.Param("id"), OperatorID(c)); err != nil {
		h.handleLicenseError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleLicenseError 统一处理请假模块业务错误
func (h *LicenseHandler) handleLicenseError(c *gin.Context, err error) {
	if handleCommonError(c, 16000, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrLicenseNotFound):
		response.NotFound(c, 16001, "请假记录不存在")
	case errors.Is(err, service.ErrLicenseInvalidRange):
		response.BadRequest(c, 16002, "请假开始日期不能晚于结束日期")
	case errors.Is(err, service.ErrLicenseInvalidType):
		response.BadRequest(c, 16003, "无效的请假类型")
	case errors.Is(err, service.ErrLicenseInvalidStatus):
		response.BadRequest(c, 16004, "无效的请假状态")
	default:
		response.InternalError(c)
	}
}
