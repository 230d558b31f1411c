package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskdesk/internal/controllers"
	"taskdesk/internal/repositories"
	"taskdesk/internal/repositories/local"
	"taskdesk/internal/services"
	"taskdesk/pkg/config"
	"taskdesk/pkg/filestorage"
	"taskdesk/pkg/localstore"
	"taskdesk/pkg/middleware"
	"taskdesk/pkg/service"
	appwebsocket "taskdesk/pkg/websocket"
)

// Dependencies carries everything the router wiring needs. Exactly one
// of DB and Store is set, depending on the configured storage driver.
type Dependencies struct {
	Config      *config.Config
	DB          *pgxpool.Pool
	Store       *localstore.Store
	CacheRepo   repositories.CacheRepositoryInterface
	SessionRepo repositories.SessionRepositoryInterface
	JWTService  service.JWTService
	Hub         *appwebsocket.Hub
	FileStorage filestorage.FileStorageInterface
	Logger      *zap.Logger
}

func InitRouter(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger
	logger.Info("InitRouter: wiring routes", zap.String("driver", deps.Config.Storage.Driver))

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(deps.JWTService, logger)

	var (
		userRepo       repositories.UserRepositoryInterface
		departmentRepo repositories.DepartmentRepositoryInterface
		taskRepo       repositories.TaskRepositoryInterface
		messageRepo    repositories.MessageRepositoryInterface
	)
	if deps.Config.Storage.Driver == config.StorageDriverPostgres {
		userRepo = repositories.NewUserRepository(deps.DB, logger)
		departmentRepo = repositories.NewDepartmentRepository(deps.DB, logger)
		taskRepo = repositories.NewTaskRepository(deps.DB, logger)
		messageRepo = repositories.NewMessageRepository(deps.DB, logger)
	} else {
		userRepo = local.NewUserRepository(deps.Store, logger)
		departmentRepo = local.NewDepartmentRepository(deps.Store, logger)
		taskRepo = local.NewTaskRepository(deps.Store, logger)
		messageRepo = local.NewMessageRepository(deps.Store, logger)
	}

	authService := services.NewAuthService(userRepo, departmentRepo, deps.SessionRepo, deps.CacheRepo, deps.JWTService, logger, &deps.Config.Auth)
	userService := services.NewUserService(userRepo, departmentRepo, logger)
	departmentService := services.NewDepartmentService(departmentRepo, logger)
	taskService := services.NewTaskService(taskRepo, userRepo, departmentRepo, logger)
	chatService := services.NewChatService(messageRepo, userRepo, deps.FileStorage, deps.Hub, logger)
	dashboardService := services.NewDashboardService(taskRepo, userRepo, departmentRepo, logger)

	authController := controllers.NewAuthController(authService, logger)
	userController := controllers.NewUserController(userService, logger)
	departmentController := controllers.NewDepartmentController(departmentService, logger)
	taskController := controllers.NewTaskController(taskService, logger)
	chatController := controllers.NewChatController(chatService, logger)
	dashboardController := controllers.NewDashboardController(dashboardService, logger)
	reportController := controllers.NewReportController(taskService, logger)
	wsController := controllers.NewWebSocketController(deps.Hub, deps.JWTService, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runUserRouter(secureGroup, userController, authMW)
	runDepartmentRouter(secureGroup, departmentController, authMW)
	runTaskRouter(secureGroup, taskController)
	runChatRouter(secureGroup, chatController)
	runDashboardRouter(secureGroup, dashboardController, authMW)
	runReportRouter(secureGroup, reportController, authMW)

	e.GET("/api/ws", wsController.ServeWs)

	logger.Info("InitRouter: routes ready")
}
