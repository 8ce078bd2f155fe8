// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kynix-service/internal/config"
	"kynix-service/internal/db"
	authHandler "kynix-service/internal/handlers/auth"
	notifHandler "kynix-service/internal/handlers/notification"
	rtHandler "kynix-service/internal/handlers/realtime"
	"kynix-service/internal/middleware"
	"kynix-service/internal/pkg/ratelimit"
	"kynix-service/internal/pkg/token"
	"kynix-service/internal/realtime"
	"kynix-service/internal/repository/postgres"
	authService "kynix-service/internal/service/auth"
	notifService "kynix-service/internal/service/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg      config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	registry *realtime.Registry
	http     *http.Server
}

func NewServer() *Server {
	return &Server{
		cfg:    config.Load(),
		engine: gin.New(),
	}
}

func (s *Server) Start() error {
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.NewPostgresPool(ctx, db.PostgresConfig{DSN: s.cfg.PostgresDSN})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// ----- Token Manager -----
	tokens, err := token.LoadAndBuild(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to load token manager: %w", err)
	}

	// ----- Repositories -----
	accountRepo := postgres.NewAccountRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)

	// ----- Realtime -----
	s.registry = realtime.NewRegistry(logger)
	dispatcher := realtime.NewDispatcher(s.registry, logger)

	// ----- Services -----
	authSvc := authService.NewAuthService(accountRepo, tokens, logger)
	notifSvc := notifService.NewNotificationService(notifRepo, dispatcher, logger)

	// ----- Handlers & Middleware -----
	limiter := ratelimit.NewLimiter(redisClient)
	authMw := middleware.NewAuthMiddleware(authSvc)

	handlers := &Handlers{
		Auth:           authHandler.NewAuthHandler(authSvc, limiter, logger),
		Notification:   notifHandler.NewNotificationHandler(notifSvc),
		WebSocket:      rtHandler.NewWebSocketHandler(s.registry, tokens.Verifier, logger),
		AuthMiddleware: authMw,
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)

	SetupRouter(s.engine, handlers)

	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains HTTP and closes every live websocket channel.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.registry != nil {
		s.registry.Shutdown()
	}
	if s.logger != nil {
		defer s.logger.Sync()
	}
	if s.http != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
	return nil
}
