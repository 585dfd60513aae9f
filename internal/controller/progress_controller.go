package controller

import (
	"careeros_backend/internal/service"
	"careeros_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 标记学习记录完成
// @Description 把课程/项目/软技能记录置为完成，并触发通知、成就与缓存失效
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "实体类型" Enums(course, project, skill)
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "未知实体类型"
// @Failure 404 {object} util.Response "记录不存在或不属于当前用户"
// @Router /api/progress/{kind}/{id}/complete [post]
func (c *ProgressController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	kind, id, ok := parseProgressTarget(ctx)
	if !ok {
		return
	}

	err := c.ProgressService.CompleteEntity(ctx.Request.Context(), kind, id, user.UserID)
	if err != nil {
		respondProgressError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "completed"})
}

// ProgressRequest 进度更新请求
type ProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// @Summary 更新学习进度
// @Description 推进学习记录进度（0-100），到 100 时等同完成
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "实体类型" Enums(course, project, skill)
// @Param id path int true "记录ID"
// @Param body body ProgressRequest true "进度"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "进度越界或未知实体类型"
// @Failure 404 {object} util.Response "记录不存在或不属于当前用户"
// @Router /api/progress/{kind}/{id} [patch]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	kind, id, ok := parseProgressTarget(ctx)
	if !ok {
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ProgressService.UpdateProgress(ctx.Request.Context(), kind, id, user.UserID, *req.Progress)
	if err != nil {
		respondProgressError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "progress updated"})
}

func parseProgressTarget(ctx *gin.Context) (service.EntityKind, uint, bool) {
	kind := service.EntityKind(ctx.Param("kind"))
	switch kind {
	case service.KindCourse, service.KindProject, service.KindSkill:
	default:
		util.BadRequest(ctx, "unknown entity kind")
		return "", 0, false
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid record id")
		return "", 0, false
	}

	return kind, uint(id), true
}

func respondProgressError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrValidation):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
