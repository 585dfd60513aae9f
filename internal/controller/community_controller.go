package controller

import (
	"careeros_backend/internal/service"
	"careeros_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	CommunityService *service.CommunityService
}

func NewCommunityController(communityService *service.CommunityService) *CommunityController {
	return &CommunityController{CommunityService: communityService}
}

// @Summary 获取最新帖子
// @Description 全站最新帖子流，走视图缓存
// @Tags 社区
// @Produce json
// @Success 200 {object} util.Response{data=[]service.PostResponse}
// @Router /api/community/posts [get]
func (c *CommunityController) RecentFeed(ctx *gin.Context) {
	feed, err := c.CommunityService.RecentFeed(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, feed)
}

// @Summary 获取社区列表
// @Tags 社区
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Community}
// @Router /api/community [get]
func (c *CommunityController) ListCommunities(ctx *gin.Context) {
	communities, err := c.CommunityService.ListCommunities(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, communities)
}

// @Summary 获取社区帖子
// @Description 分页返回指定社区的帖子，置顶在前
// @Tags 社区
// @Produce json
// @Param communityId path int true "社区ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/community/{communityId}/posts [get]
func (c *CommunityController) ListCommunityPosts(ctx *gin.Context) {
	communityID, err := strconv.ParseUint(ctx.Param("communityId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid communityId")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := c.CommunityService.ListCommunityPosts(ctx.Request.Context(), uint(communityID), page, limit)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  posts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 发布帖子
// @Description 在指定社区发帖，成功后最新帖子视图缓存失效
// @Tags 社区
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param communityId path int true "社区ID"
// @Param body body service.PostRequest true "帖子内容"
// @Success 201 {object} util.Response{data=model.Post}
// @Failure 400 {object} util.Response "标题或内容为空"
// @Failure 404 {object} util.Response "社区不存在"
// @Router /api/community/{communityId}/posts [post]
func (c *CommunityController) CreatePost(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	communityID, err := strconv.ParseUint(ctx.Param("communityId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid communityId")
		return
	}

	var req service.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.CommunityService.CreatePost(ctx.Request.Context(), user.UserID, uint(communityID), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, post)
}
