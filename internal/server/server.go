package server

import (
	"codeclash/configs"
	"codeclash/internal/cache"
	"codeclash/internal/dbs"
	"codeclash/internal/handlers"
	"codeclash/internal/logger"
	"codeclash/internal/repositories"
	"codeclash/internal/services"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func StartGinServer() {
	config := configs.LoadConfig()

	logger.InitLogger(config.IsProduction())
	defer logger.SyncLogger()

	if err := config.Validate(); err != nil {
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := dbs.Init(config)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	var (
		cacheStore cache.Cache
		locker     services.TeamLocker
	)
	if config.RedisEnabled {
		rdb, err := dbs.InitRedis(ctx, config)
		if err != nil {
			logger.Log.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer rdb.Close()

		cacheStore = cache.NewRedisCache(rdb)
		locker = services.NewRedisTeamLocker(rdb, config.TeamLockTTL)
	} else {
		logger.Log.Warn("Redis disabled, using in-process cache and team locks")
		cacheStore = cache.NewMemoryCache()
		locker = services.NewLocalTeamLocker()
	}

	teamRepo := repositories.NewTeamRepository(db)
	questionRepo := repositories.NewQuestionRepository(db, cacheStore, config.CacheTTL)
	submissionRepo := repositories.NewSubmissionRepository(db)

	judge := services.NewJudge0Client(config, nil)
	tokenService := services.NewTokenService(config.JWTSecret)

	assignment := services.NewAssignmentService(teamRepo, questionRepo, locker, config.SlotADifficulty, config.SlotBDifficulty)
	timer := services.NewTimerService(teamRepo)
	evaluator := services.NewSubmissionService(teamRepo, questionRepo, submissionRepo, judge, locker, config.MaxSubmissions)
	leaderboard := services.NewLeaderboardService(teamRepo, config.CompletionRewardLink)

	router := NewRouter(config,
		handlers.NewTeamHandler(teamRepo, tokenService, config.IsProduction()),
		handlers.NewRoundHandler(assignment, timer, tokenService),
		handlers.NewSubmissionHandler(evaluator, tokenService),
		handlers.NewLeaderboardHandler(leaderboard),
	)

	srv := &http.Server{
		Addr:        ":" + config.ServerPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// A submission holds the connection for the whole judge round-trip.
		WriteTimeout: config.TeamLockTTL + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Log.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-stop
	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TeamLockTTL)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
		return
	}

	logger.Log.Info("Server stopped gracefully")
}
