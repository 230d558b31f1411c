package main

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"taskdesk/internal/repositories"
	"taskdesk/internal/repositories/local"
	"taskdesk/internal/routes"
	"taskdesk/pkg/config"
	"taskdesk/pkg/database/postgresql"
	apperrors "taskdesk/pkg/errors"
	"taskdesk/pkg/filestorage"
	"taskdesk/pkg/localstore"
	applogger "taskdesk/pkg/logger"
	"taskdesk/pkg/service"
	"taskdesk/pkg/utils"
	appwebsocket "taskdesk/pkg/websocket"
	"taskdesk/seeders"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	e.Validator = utils.NewValidator(validator.New())

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	hub := appwebsocket.NewHub(logger)
	go hub.Run()

	deps := routes.Dependencies{
		Config:     cfg,
		JWTService: jwtSvc,
		Hub:        hub,
		Logger:     logger,
	}

	var db *pgxpool.Pool
	var store *localstore.Store
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		var err error
		db, err = postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal("connecting to postgres failed", zap.Error(err))
		}
		defer db.Close()
		if err := postgresql.Migrate(cfg.Postgres.DSN, "migrations"); err != nil {
			logger.Fatal("running migrations failed", zap.Error(err))
		}
	default:
		var err error
		store, err = localstore.Open(cfg.Storage.LocalPath, seeders.Snapshot())
		if err != nil {
			logger.Fatal("opening local store failed", zap.Error(err), zap.String("path", cfg.Storage.LocalPath))
		}
	}
	deps.DB = db
	deps.Store = store

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logger.Fatal("connecting to redis failed", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		deps.CacheRepo = repositories.NewRedisCacheRepository(redisClient)
		deps.SessionRepo = repositories.NewRedisSessionRepository(redisClient, cfg.JWT.RefreshTokenTTL)
	} else {
		deps.CacheRepo = repositories.NewMemoryCacheRepository()
		if store != nil {
			deps.SessionRepo = local.NewSessionRepository(store)
		} else {
			deps.SessionRepo = repositories.NewMemorySessionRepository()
		}
	}

	if cfg.Upload.Inline {
		deps.FileStorage = filestorage.NewInlineFileStorage()
	} else {
		fs, err := filestorage.NewLocalFileStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
		if err != nil {
			logger.Fatal("creating file storage failed", zap.Error(err))
		}
		deps.FileStorage = fs
		absPath, err := filepath.Abs(cfg.Upload.Dir)
		if err != nil {
			logger.Fatal("resolving uploads path failed", zap.Error(err))
		}
		e.Static("/uploads", absPath)
	}

	routes.InitRouter(e, deps)

	logger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("driver", cfg.Storage.Driver))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
