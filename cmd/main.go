package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/classhub/authcore/internal/api"
	"github.com/classhub/authcore/internal/controller"
	"github.com/classhub/authcore/internal/migrations"
	"github.com/classhub/authcore/internal/service"
	"github.com/classhub/authcore/internal/storage"
	"github.com/classhub/authcore/internal/storage/memory"
	"github.com/classhub/authcore/internal/storage/postgres"
	redisstorage "github.com/classhub/authcore/internal/storage/redis"
	"github.com/classhub/authcore/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.Run(db, logger); err != nil {
		logger.Fatal(zap.Error(err))
	}

	users := postgres.NewUserRepository(db)

	adminCfg := util.NewAdminConfig()
	if adminCfg.Email != "" && adminCfg.Password != "" {
		if err := users.EnsureAdminUser(ctx, adminCfg.Email, adminCfg.Password); err != nil {
			logger.Fatal(zap.Error(err))
		}
	}

	tokenCfg := util.NewTokenConfig()
	cleanupFuncs := []func(){dbCleanup}

	var sessions storage.SessionRepository
	if util.NewSessionStoreConfig().Backend == "redis" {
		redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
		if err != nil {
			logger.Fatal(zap.Error(err))
		}
		sessions = redisstorage.NewSessionRepository(redisClient, tokenCfg.RefreshTTL)
		cleanupFuncs = append(cleanupFuncs, redisCleanup)
	} else {
		sessions = memory.NewSessionRepository(logger)
	}

	tokenService := service.NewTokenService(tokenCfg)
	authService := service.NewAuthService(tokenService, users, sessions, logger)

	controller := controller.NewController(logger, authService)

	apiServer := api.NewAPI(controller, tokenService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
