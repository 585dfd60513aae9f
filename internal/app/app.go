package app

import (
	"careeros_backend/internal/cache"
	"careeros_backend/internal/config"
	"careeros_backend/internal/controller"
	"careeros_backend/internal/repository"
	"careeros_backend/internal/service"
	"careeros_backend/pkg/database"
	"careeros_backend/pkg/logger"
	"careeros_backend/pkg/monitoring"
	"careeros_backend/pkg/security"
	"careeros_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user            *repository.UserRepository
	course          *repository.CourseRepository
	enrollment      *repository.EnrollmentRepository
	project         *repository.ProjectRepository
	userProject     *repository.UserProjectRepository
	softSkill       *repository.SoftSkillRepository
	userSoftSkill   *repository.UserSoftSkillRepository
	achievement     *repository.AchievementRepository
	userAchievement *repository.UserAchievementRepository
	quiz            *repository.QuizResultRepository
	community       *repository.CommunityRepository
	post            *repository.PostRepository
}

type services struct {
	storage      *service.StorageService
	auth         *service.AuthService
	user         *service.UserService
	notification *service.NotificationService
	dashboard    *service.DashboardService
	progress     *service.ProgressService
	quiz         *service.QuizService
	community    *service.CommunityService
	catalog      *service.CatalogService
	guidance     *service.GuidanceService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	dashboard    *controller.DashboardController
	progress     *controller.ProgressController
	quiz         *controller.QuizController
	community    *controller.CommunityController
	catalog      *controller.CatalogController
	notification *controller.NotificationController
	guidance     *controller.GuidanceController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:            repository.NewUserRepository(db),
		course:          repository.NewCourseRepository(db),
		enrollment:      repository.NewEnrollmentRepository(db),
		project:         repository.NewProjectRepository(db),
		userProject:     repository.NewUserProjectRepository(db),
		softSkill:       repository.NewSoftSkillRepository(db),
		userSoftSkill:   repository.NewUserSoftSkillRepository(db),
		achievement:     repository.NewAchievementRepository(db),
		userAchievement: repository.NewUserAchievementRepository(db),
		quiz:            repository.NewQuizResultRepository(db),
		community:       repository.NewCommunityRepository(db),
		post:            repository.NewPostRepository(db),
	}
}

// initViewCache 按配置选择缓存驱动，Redis 不可用时退化为进程内缓存
func (a *App) initViewCache(cfg *config.Config, rdb *redis.Client) cache.ViewCache {
	if cfg.Cache.Driver == "memory" || rdb == nil {
		logger.Log.Info("view cache using in-memory driver")
		return cache.NewMemoryViewCache()
	}
	return cache.NewRedisViewCache(rdb)
}

func (a *App) initServices(repos *repositories, cfg *config.Config, viewCache cache.ViewCache) *services {
	s := &services{}

	storeTimeout := cfg.Server.StoreTimeout()
	cacheTTL := cfg.Cache.TTL()

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, storeTimeout)
	s.notification = service.NewNotificationService(cfg.Notification.BufferSize)

	s.dashboard = service.NewDashboardService(
		repos.enrollment,
		repos.userProject,
		repos.userSoftSkill,
		repos.userAchievement,
		repos.quiz,
		viewCache,
		cacheTTL,
		storeTimeout,
	)

	s.progress = service.NewProgressService(
		repos.enrollment,
		repos.userProject,
		repos.userSoftSkill,
		repos.userAchievement,
		repos.achievement,
		repos.user,
		s.notification,
		viewCache,
		s.dashboard,
		storeTimeout,
	)

	s.quiz = service.NewQuizService(repos.quiz, viewCache, storeTimeout)
	s.community = service.NewCommunityService(repos.community, repos.post, viewCache, cacheTTL, storeTimeout)

	s.catalog = service.NewCatalogService(
		repos.course,
		repos.project,
		repos.softSkill,
		repos.enrollment,
		repos.userProject,
		repos.userSoftSkill,
		repos.achievement,
		storeTimeout,
	)

	s.guidance = service.NewGuidanceService(cfg.AI, s.dashboard, repos.quiz)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user, s.storage),
		dashboard:    controller.NewDashboardController(s.dashboard),
		progress:     controller.NewProgressController(s.progress),
		quiz:         controller.NewQuizController(s.quiz),
		community:    controller.NewCommunityController(s.community),
		catalog:      controller.NewCatalogController(s.catalog, s.storage),
		notification: controller.NewNotificationController(s.notification),
		guidance:     controller.NewGuidanceController(s.guidance),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(ginMode(cfg.Server.Mode))

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	// memory 驱动下不需要 Redis 连接
	var rdb *redis.Client
	if cfg.Cache.Driver != "memory" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	repos := app.initRepositories(db)
	viewCache := app.initViewCache(cfg, rdb)
	services := app.initServices(repos, cfg, viewCache)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("careeros-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ReloadConfig 应用可热更新的配置项。
// 数据库、端口等需要重启才生效的配置在这里不处理。
func (a *App) ReloadConfig(cfg *config.Config) {
	a.services.guidance.SetConfig(cfg.AI)
	logger.Log.Info("config reloaded", zap.String("ai_model", cfg.AI.Model))
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
