package routes

import (
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"appeals-system/internal/controllers"
	"appeals-system/internal/repositories"
	"appeals-system/internal/services"
	"appeals-system/pkg/config"
	"appeals-system/pkg/filestorage"
	"appeals-system/pkg/middleware"
	"appeals-system/pkg/service"
)

type Loggers struct {
	Main   *zap.Logger
	Auth   *zap.Logger
	User   *zap.Logger
	Appeal *zap.Logger
}

// NewLoggers раздаёт именованные дочерние логгеры по подсистемам.
func NewLoggers(base *zap.Logger) *Loggers {
	return &Loggers{
		Main:   base,
		Auth:   base.Named("auth"),
		User:   base.Named("user"),
		Appeal: base.Named("appeal"),
	}
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.MediaRoot, cfg.Storage.StorageURL)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	socialGroupRepo := repositories.NewSocialGroupRepository(dbConn, loggers.Main)
	departmentRepo := repositories.NewDepartmentRepository(dbConn, loggers.Main)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, loggers.Main)
	statusRepo := repositories.NewAppealStatusRepository(dbConn, loggers.Appeal)
	themeRepo := repositories.NewAppealThemeRepository(dbConn, loggers.Appeal)
	attachmentRepo := repositories.NewAppealAttachmentRepository(dbConn, loggers.Appeal)
	appealRepo := repositories.NewAppealRepository(dbConn, attachmentRepo, loggers.Appeal)
	historyRepo := repositories.NewAppealHistoryRepository(dbConn, loggers.Appeal)
	appealUserRepo := repositories.NewAppealUserRepository(dbConn, loggers.Appeal)

	// --- 2. СЕРВИСЫ ---
	historyService := services.NewAppealHistoryService(historyRepo, loggers.Appeal)
	visibilityService := services.NewAppealVisibilityService(appealUserRepo, loggers.Appeal)
	attachmentService := services.NewAttachmentService(attachmentRepo, fileStorage, loggers.Appeal)
	appealService := services.NewAppealService(
		txManager, appealRepo, statusRepo, themeRepo, departmentRepo, appealUserRepo,
		historyService, attachmentService, cacheRepo, cfg.Cache.AppealsTTL, loggers.Appeal,
	)
	authService := services.NewAuthService(txManager, userRepo, socialGroupRepo, cacheRepo, jwtSvc, loggers.Auth, &cfg.Auth)
	userService := services.NewUserService(
		txManager, userRepo, departmentRepo, employeeRepo, socialGroupRepo,
		visibilityService, attachmentService, loggers.User,
	)
	reportService := services.NewReportService(appealRepo, loggers.Main)
	dictionaryService := services.NewDictionaryService(socialGroupRepo, statusRepo, loggers.Main)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, loggers.Auth)
	userController := controllers.NewUserController(userService, loggers.User)
	appealController := controllers.NewAppealController(appealService, loggers.Appeal)
	reportController := controllers.NewReportController(reportService, loggers.Main)
	dictionaryController := controllers.NewDictionaryController(dictionaryService, loggers.Main)

	// --- 4. РОУТЕРЫ ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, loggers.Auth)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static(strings.TrimRight(cfg.Storage.StorageURL, "/"), cfg.Storage.MediaRoot)

	authLimiter := middleware.NewRateLimiter(cfg.Auth.RateLimitPerSecond, cfg.Auth.RateLimitBurst, loggers.Auth)
	runAuthRouter(e.Group("/users"), authController, authMW, authLimiter)
	runUserRouter(e.Group("/users", authMW.Auth), userController, authMW)
	runDictionaryRouter(e, dictionaryController)
	appealsGroup := e.Group("/appeals")
	runReportRouter(appealsGroup, reportController, authMW)
	runAppealRouter(appealsGroup, appealController, authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
