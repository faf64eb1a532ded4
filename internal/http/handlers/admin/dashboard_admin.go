package admin

import (
	"github.com/prostore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminGetDashboard 后台仪表盘汇总
func (h *Handler) AdminGetDashboard(c *gin.Context) {
	summary, err := h.DashboardService.GetSummary()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, summary)
}
