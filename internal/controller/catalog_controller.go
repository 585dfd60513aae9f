package controller

import (
	"careeros_backend/internal/model"
	"careeros_backend/internal/service"
	"careeros_backend/internal/util"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogController struct {
	CatalogService *service.CatalogService
	StorageService *service.StorageService
}

func NewCatalogController(catalogService *service.CatalogService, storageService *service.StorageService) *CatalogController {
	return &CatalogController{
		CatalogService: catalogService,
		StorageService: storageService,
	}
}

// @Summary 获取课程列表
// @Description 按分类筛选已发布课程
// @Tags 课程目录
// @Produce json
// @Param category query string false "课程分类"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	courses, err := c.CatalogService.ListCourses(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary 获取课程详情
// @Tags 课程目录
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CatalogService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		respondCatalogError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary 报名课程
// @Description 为当前用户创建选课记录，重复报名返回 409
// @Tags 课程目录
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "已报名该课程"
// @Router /api/courses/{id}/enroll [post]
func (c *CatalogController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.CatalogService.Enroll(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		respondCatalogError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// @Summary 获取项目列表
// @Tags 课程目录
// @Produce json
// @Param category query string false "项目分类"
// @Success 200 {object} util.Response{data=[]model.Project}
// @Router /api/projects [get]
func (c *CatalogController) ListProjects(ctx *gin.Context) {
	projects, err := c.CatalogService.ListProjects(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, projects)
}

// @Summary 开始项目
// @Tags 课程目录
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 201 {object} util.Response{data=model.UserProject}
// @Failure 404 {object} util.Response "项目不存在"
// @Failure 409 {object} util.Response "已开始该项目"
// @Router /api/projects/{id}/start [post]
func (c *CatalogController) StartProject(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userProject, err := c.CatalogService.StartProject(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		respondCatalogError(ctx, err)
		return
	}

	util.Created(ctx, userProject)
}

// @Summary 获取软技能列表
// @Tags 课程目录
// @Produce json
// @Success 200 {object} util.Response{data=[]model.SoftSkill}
// @Router /api/soft-skills [get]
func (c *CatalogController) ListSoftSkills(ctx *gin.Context) {
	skills, err := c.CatalogService.ListSoftSkills(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, skills)
}

// @Summary 开始学习软技能
// @Tags 课程目录
// @Produce json
// @Security BearerAuth
// @Param id path int true "软技能ID"
// @Success 201 {object} util.Response{data=model.UserSoftSkill}
// @Failure 404 {object} util.Response "软技能不存在"
// @Failure 409 {object} util.Response "已在学习该软技能"
// @Router /api/soft-skills/{id}/start [post]
func (c *CatalogController) StartSoftSkill(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userSkill, err := c.CatalogService.StartSoftSkill(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		respondCatalogError(ctx, err)
		return
	}

	util.Created(ctx, userSkill)
}

// @Summary 获取成就目录
// @Tags 课程目录
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements [get]
func (c *CatalogController) ListAchievements(ctx *gin.Context) {
	achievements, err := c.CatalogService.ListAchievements(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

// CourseRequest 管理端课程创建/更新请求
type CourseRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	CoverURL      string `json:"coverUrl"`
	DurationHours int    `json:"durationHours"`
	Published     *bool  `json:"published"`
}

// @Summary 创建课程
// @Description 管理端新建课程目录条目
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/admin/courses [post]
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		CoverURL:      req.CoverURL,
		DurationHours: req.DurationHours,
		Published:     true,
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := c.CatalogService.CreateCourse(ctx.Request.Context(), course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// ProjectRequest 管理端项目创建请求
type ProjectRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	CoverURL       string `json:"coverUrl"`
	EstimatedHours int    `json:"estimatedHours"`
	Published      *bool  `json:"published"`
}

// @Summary 创建项目
// @Description 管理端新建实战项目条目
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProjectRequest true "项目信息"
// @Success 201 {object} util.Response{data=model.Project}
// @Router /api/admin/projects [post]
func (c *CatalogController) CreateProject(ctx *gin.Context) {
	var req ProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	project := &model.Project{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		CoverURL:       req.CoverURL,
		EstimatedHours: req.EstimatedHours,
		Published:      true,
	}
	if req.Published != nil {
		project.Published = *req.Published
	}

	if err := c.CatalogService.CreateProject(ctx.Request.Context(), project); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, project)
}

// @Summary 上传课程介绍视频
// @Description 上传视频并自动生成封面缩略图，写回课程记录
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param video formData file true "视频文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件缺失或不是有效视频"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/intro-video [post]
func (c *CatalogController) UploadIntroVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CatalogService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		respondCatalogError(ctx, err)
		return
	}

	file, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	// 先落到临时文件，探测元信息并抓取缩略图
	tmpDir := os.TempDir()
	tmpVideo := filepath.Join(tmpDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := ctx.SaveUploadedFile(file, tmpVideo); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpVideo)

	info, err := util.ProbeVideo(tmpVideo)
	if err != nil {
		util.BadRequest(ctx, "不是有效的视频文件")
		return
	}

	tmpThumb := filepath.Join(tmpDir, uuid.New().String()+".jpg")
	if err := util.GenerateThumbnail(tmpVideo, tmpThumb, "00:00:01"); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpThumb)

	prefix := fmt.Sprintf("courses/%d/%d", course.ID, time.Now().Unix())
	videoURL, err := c.StorageService.UploadFile(ctx.Request.Context(), prefix+filepath.Ext(file.Filename), tmpVideo, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	thumbURL, err := c.StorageService.UploadFile(ctx.Request.Context(), prefix+"_thumb.jpg", tmpThumb, "image/jpeg")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	course.IntroVideoURL = videoURL
	course.ThumbnailURL = thumbURL
	if err := c.CatalogService.UpdateCourse(ctx.Request.Context(), course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"introVideoUrl": videoURL,
		"thumbnailUrl":  thumbURL,
		"duration":      info.Duration,
		"width":         info.Width,
		"height":        info.Height,
	})
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func respondCatalogError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAlreadyEnrolled):
		util.Error(ctx, 409, err.Error())
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrValidation):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
