package app

import (
	"careeros_backend/docs"
	"careeros_backend/internal/config"
	"careeros_backend/internal/middleware"
	"careeros_backend/internal/model"
	"careeros_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 社区模块（列表可匿名，发帖需登录）
	a.registerCommunityRoutes(router, c, repos, cfg)

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	// 4. 管理员接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerCommunityRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	community := router.Group("/api/community")
	community.Use(middleware.ActivityMiddleware(repos.user))
	{
		community.GET("", middleware.TryAuthMiddleware(cfg), c.community.ListCommunities)
		community.GET("/posts", middleware.TryAuthMiddleware(cfg), c.community.RecentFeed)
		community.GET("/:communityId/posts", middleware.TryAuthMiddleware(cfg), c.community.ListCommunityPosts)

		authorized := community.Group("/")
		authorized.Use(middleware.AuthMiddleware(cfg))
		{
			authorized.POST("/:communityId/posts", c.community.CreatePost)
		}
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.PUT("/user/password", c.user.ChangePassword)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	// 学习总览
	rg.GET("/dashboard/overview", c.dashboard.GetOverview)

	// 进度变更
	rg.POST("/progress/:kind/:id/complete", c.progress.Complete)
	rg.PATCH("/progress/:kind/:id", c.progress.UpdateProgress)

	// 目录与报名
	rg.GET("/courses", c.catalog.ListCourses)
	rg.GET("/courses/:id", c.catalog.GetCourse)
	rg.POST("/courses/:id/enroll", c.catalog.Enroll)
	rg.GET("/projects", c.catalog.ListProjects)
	rg.POST("/projects/:id/start", c.catalog.StartProject)
	rg.GET("/soft-skills", c.catalog.ListSoftSkills)
	rg.POST("/soft-skills/:id/start", c.catalog.StartSoftSkill)
	rg.GET("/achievements", c.catalog.ListAchievements)

	// 职业测评与指导
	rg.POST("/quiz/results", c.quiz.SubmitResult)
	rg.GET("/quiz/results", c.quiz.History)
	rg.GET("/quiz/results/latest", c.quiz.LatestResult)
	rg.GET("/career/guidance", c.guidance.GetGuidance)

	// 通知
	rg.GET("/notifications", c.notification.List)
	rg.PATCH("/notifications/:id/read", c.notification.MarkRead)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.Admin),
		middleware.ActivityMiddleware(repos.user),
	)
	{
		admin.POST("/courses", c.catalog.CreateCourse)
		admin.POST("/courses/:id/intro-video", c.catalog.UploadIntroVideo)
		admin.POST("/projects", c.catalog.CreateProject)
	}
}
