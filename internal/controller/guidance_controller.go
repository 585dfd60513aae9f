package controller

import (
	"careeros_backend/internal/service"
	"careeros_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GuidanceController struct {
	GuidanceService *service.GuidanceService
}

func NewGuidanceController(guidanceService *service.GuidanceService) *GuidanceController {
	return &GuidanceController{GuidanceService: guidanceService}
}

// @Summary 获取职业指导
// @Description 基于学习统计生成职业建议，AI 不可用时返回静态建议
// @Tags 职业指导
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.CareerGuidance}
// @Failure 500 {object} util.Response "进度数据暂时不可用"
// @Router /api/career/guidance [get]
func (c *GuidanceController) GetGuidance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	guidance, err := c.GuidanceService.GetGuidance(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, guidance)
}
