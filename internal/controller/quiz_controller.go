package controller

import (
	"careeros_backend/internal/service"
	"careeros_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 提交职业测评结果
// @Description 保存一次职业测评结果，结果只追加不修改
// @Tags 职业测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuizResultRequest true "测评结果"
// @Success 201 {object} util.Response{data=model.QuizResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/quiz/results [post]
func (c *QuizController) SubmitResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.CreateQuizResult(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

// @Summary 获取最新测评结果
// @Description 返回用户最近一次职业测评结果，没有则 data 为空
// @Tags 职业测评
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.QuizResult}
// @Router /api/quiz/results/latest [get]
func (c *QuizController) LatestResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.QuizService.LatestResult(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取测评历史
// @Description 返回用户全部测评结果，最新的在前
// @Tags 职业测评
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/quiz/results [get]
func (c *QuizController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.QuizService.History(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}
