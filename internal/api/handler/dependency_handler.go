package handler

import (
	"github.com/gin-gonic/gin"

	"escalafon/internal/service"
	"escalafon/pkg/response"
)

// DependencyHandler 单位模块 HTTP 处理器
type DependencyHandler struct {
	depSvc service.DependencyService
}

// NewDependencyHandler 创建 DependencyHandler
func NewDependencyHandler(depSvc service.DependencyService) *DependencyHandler {
	return &DependencyHandler{depSvc: depSvc}
}

// ListDependencies 获取单位列表
// GET /api/v1/dependencies
func (h *DependencyHandler) ListDependencies(c *gin.Context) {
	deps, err := h.depSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": deps})
}

// GetDependency 获取单位详情
// GET /api/v1/dependencies/:id
func (h *DependencyHandler) GetDependency(c *gin.Context) {
	dep, err := h.depSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if handleCommonError(c, 17000, err) {
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, dep)
}
