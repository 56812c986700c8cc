package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"escalafon/internal/dto"
	"escalafon/internal/service"
	"escalafon/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出单位排班表
// GET /api/v1/export/roster?dependency_id=&start=&days=
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	var req dto.ExportRosterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), req.DependencyID, &req.WindowRequest)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportEmployeeCalendar 导出人员日历
// GET /api/v1/export/employees/:id/calendar?start=&days=
func (h *ExportHandler) ExportEmployeeCalendar(c *gin.Context) {
	var req dto.WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	data, filename, err := h.exportSvc.ExportEmployeeCalendar(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, contentTypeICS, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, 18000, err) {
		return
	}
	if errors.Is(err, service.ErrExportGenerateFail) {
		response.Error(c, http.StatusInternalServerError, 18005, "生成导出文件失败")
		return
	}
	response.InternalError(c)
}
