package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"authservice/internal/cache"
	"authservice/internal/config"
	"authservice/internal/db"
	"authservice/internal/logger"
	"authservice/internal/repository"
	"authservice/internal/service"
)

// Seed creates the first ADMIN account, or promotes an existing user, in a
// persistent store. SEED_ADMIN_EMAIL is required; without SEED_ADMIN_PASSWORD
// a random password is generated and printed once.
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

	if cfg.DBDriver == config.DriverMemory {
		zl.Fatal("seeding needs a persistent store; set DB_DRIVER and DATABASE_DSN")
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		zl.Fatal("SEED_ADMIN_EMAIL is required")
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	generated := false
	if password == "" {
		password, err = randomPassword()
		if err != nil {
			zl.Fatal("generate password", zap.Error(err))
		}
		generated = true
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := repository.AutoMigrate(gormDB); err != nil {
		zl.Fatal("auto-migrate", zap.Error(err))
	}

	ctx := context.Background()
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(ctx); err != nil {
		zl.Warn("redis unreachable, cached profiles may stay stale until they expire", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	adminService := service.NewAdminService(repository.NewUserRepository(gormDB), cacheClient)
	admin, created, err := adminService.EnsureAdmin(ctx, email, password)
	if err != nil {
		zl.Fatal("seed admin", zap.Error(err))
	}

	zl.Info("admin ready", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email), zap.Bool("created", created))
	if created && generated {
		fmt.Printf("generated admin password: %s\n", password)
	}
}

func randomPassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
