package controller

import (
	"careeros_backend/internal/service"
	"careeros_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 获取学习总览
// @Description 聚合用户的学习统计、最近动态与推荐
// @Tags 仪表盘
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Overview}
// @Failure 401 {object} util.Response "未授权"
// @Failure 500 {object} util.Response "进度数据暂时不可用"
// @Router /api/dashboard/overview [get]
func (c *DashboardController) GetOverview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.DashboardService.Overview(ctx.Request.Context(), user.UserID)
	if err != nil {
		// 聚合失败不给部分结果，统一按不可用处理
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}
