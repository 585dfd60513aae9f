package controller

import (
	"careeros_backend/internal/service"
	"careeros_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// @Summary 获取通知列表
// @Description 返回当前会话内的通知，最新的在前
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{
		"notifications": c.NotificationService.List(user.UserID),
		"unreadCount":   c.NotificationService.UnreadCount(user.UserID),
	})
}

// @Summary 标记通知已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path int true "通知ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "通知不存在"
// @Router /api/notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid notification id")
		return
	}

	if !c.NotificationService.MarkRead(user.UserID, id) {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"message": "marked as read"})
}
