package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/config"
	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/postgres"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/redis"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/sqlite"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/auth"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/cleanup"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/game"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/stats"
	transportHttp "github.com/iamasit07/tic-tac-toe/backend/internal/transport/http"
	"github.com/iamasit07/tic-tac-toe/backend/internal/transport/websocket"
	pkgauth "github.com/iamasit07/tic-tac-toe/backend/pkg/auth"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/httputil"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	tiers, err := config.LoadTiers(cfg.TiersFile, domain.DefaultTiers())
	if err != nil {
		logger.Fatalw("tier table", "file", cfg.TiersFile, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime)
	if err != nil {
		logger.Fatalw("postgres", "error", err)
	}
	defer db.Close()
	logger.Infow("[DB] migrations applied")

	guests, err := sqlite.Open(ctx, cfg.GuestDBPath)
	if err != nil {
		logger.Fatalw("guest store", "path", cfg.GuestDBPath, "error", err)
	}
	defer guests.Close()

	redisClient := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	leaderboardCache := redis.NewLeaderboardCache(redis.NewRedisCache(redisClient))

	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)

	statsService := stats.NewService(userRepo, gameRepo, guests, leaderboardCache, logger)
	issuer := pkgauth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL())
	authService := auth.NewService(userRepo, issuer, cfg.BcryptCost, logger)

	sessionManager := game.NewSessionManager(logger)
	newMatch := func(id stats.Identity, observer func(domain.Snapshot)) *game.Match {
		binding := statsService.For(id)
		return game.NewMatch(game.Options{
			Tiers:           tiers,
			Stats:           binding.Stats,
			Ranking:         binding.Ranking,
			History:         binding.History,
			Observer:        observer,
			Rand:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			RestartCooldown: cfg.RestartCooldown,
			Logger:          logger.With("player", id.Key()),
		})
	}

	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, sessionManager, newMatch, cfg.AllowedOrigins, logger)
	go wsHandler.ListenForRankingRefresh(ctx, leaderboardCache.Listen)

	retention := time.Duration(cfg.GuestRetentionDays) * 24 * time.Hour
	cleanup.NewWorker(sessionManager, guests, cfg.CleanupInterval, cfg.SessionIdleTimeout, retention, logger).Start(ctx)

	cookies := httputil.CookieOptions{Secure: cfg.IsProduction()}
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Auth:           transportHttp.NewAuthHandler(authService, statsService, cookies, issuer, logger),
		Stats:          transportHttp.NewStatsHandler(statsService, logger),
		WebSocket:      wsHandler.HandleWebSocket,
		Tokens:         authService,
		Cookies:        cookies,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("Server starting", "port", cfg.Port, "tiers", tiers.Levels())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
	}
	logger.Infow("Server exited gracefully")
}

func newLogger(cfg *config.Config) *zap.SugaredLogger {
	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zc.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return logger.Sugar()
}
