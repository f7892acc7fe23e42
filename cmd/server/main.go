package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"authservice/internal/auth"
	"authservice/internal/cache"
	"authservice/internal/config"
	"authservice/internal/db"
	"authservice/internal/handler"
	"authservice/internal/logger"
	"authservice/internal/repository"
	"authservice/internal/router"
	"authservice/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title User Directory API
// @version 1.0
// @description User directory with JWT authentication and role-based access.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var gormDB *gorm.DB
	userRepo := repository.NewMemoryUserRepository()
	if cfg.DBDriver != config.DriverMemory {
		gormDB, err = db.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			zl.Fatal("database init", zap.Error(err))
		}
		if err := repository.AutoMigrate(gormDB); err != nil {
			zl.Fatal("auto-migrate", zap.Error(err))
		}
		userRepo = repository.NewUserRepository(gormDB)
	}
	zl.Info("user store ready", zap.String("driver", cfg.DBDriver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		zl.Warn("redis unreachable, serving without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		zl.Fatal("jwt init", zap.Error(err))
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, zl)
	userService := service.NewUserService(userRepo, cacheClient)
	adminService := service.NewAdminService(userRepo, cacheClient)

	if cfg.BootstrapAdminEmail != "" {
		admin, created, err := adminService.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			zl.Fatal("bootstrap admin", zap.Error(err))
		}
		zl.Info("bootstrap admin ready", zap.Uint("user_id", admin.ID), zap.Bool("created", created))
	}

	e := echo.New()
	router.Register(
		e,
		cfg,
		zl,
		authService,
		handler.NewUserHandler(userService),
		handler.NewAuthHandler(authService),
		handler.NewAdminHandler(adminService),
	)

	addr := ":" + cfg.ServerPort
	go func() {
		zl.Info("server listening", zap.String("addr", addr), zap.String("swagger", "/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	if err := cacheClient.Close(); err != nil {
		zl.Warn("redis close", zap.Error(err))
	}
	if gormDB != nil {
		if err := db.Close(gormDB); err != nil {
			zl.Warn("database close", zap.Error(err))
		}
	}
}
