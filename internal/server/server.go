package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/yupiflow-admin/internal/handler"
	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/internal/repository"
	"github.com/noah-isme/yupiflow-admin/internal/service"
	"github.com/noah-isme/yupiflow-admin/pkg/cache"
	"github.com/noah-isme/yupiflow-admin/pkg/config"
	"github.com/noah-isme/yupiflow-admin/pkg/database"
	"github.com/noah-isme/yupiflow-admin/pkg/jobs"
	"github.com/noah-isme/yupiflow-admin/pkg/mq"
)

const shutdownTimeout = 15 * time.Second

// Server owns the HTTP listener and every long-lived dependency.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpServer *http.Server
	db         *sqlx.DB
	redis      *redis.Client
	broker     mq.Backend
	events     *jobs.Queue
}

// New connects to Postgres, Redis and the broker and wires the API.
func New(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*Server, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	broker, err := newBroker(cfg, logr)
	if err != nil {
		_ = db.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	metrics := service.NewMetricsService()
	validate := models.NewValidator()

	userRepo := repository.NewUserRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.UsersCache.TTL, logr, cfg.UsersCache.Enabled && redisClient != nil)
	userSvc := service.NewUserService(userRepo, validate, logr, service.WithUserCache(cacheSvc, cfg.UsersCache.TTL), service.WithUserMetrics(metrics))
	exportSvc := service.NewExportService(userRepo, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	publisher := service.NewRegistrationEventPublisher(broker, cfg.RegistrationEvents.Queue, metrics, logr)
	events := jobs.NewQueue("registration-events", publisher.Handle, jobs.QueueConfig{
		Workers:    cfg.RegistrationEvents.Workers,
		MaxRetries: cfg.RegistrationEvents.MaxRetries,
		RetryDelay: cfg.RegistrationEvents.RetryDelay,
		Logger:     logr,
	})
	publisher.Bind(events)
	registrationSvc := service.NewRegistrationService(registrationRepo, userRepo, publisher, metrics, validate, logr)

	deps := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		deps["redis"] = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	router := NewRouter(cfg, Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Users:         handler.NewUserHandler(userSvc, exportSvc),
		Registrations: handler.NewRegistrationHandler(registrationSvc),
		Metrics:       handler.NewMetricsHandler(metrics, deps, logr),
	}, authSvc, metrics, logr)

	return &Server{
		cfg:    cfg,
		logger: logr,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		db:     db,
		redis:  redisClient,
		broker: broker,
		events: events,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests and stops the queue.
func (s *Server) Run(ctx context.Context) error {
	s.events.Start(ctx)
	defer s.close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Sugar().Infow("server starting", "addr", s.httpServer.Addr, "env", s.cfg.Env)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) close() {
	s.events.Stop()
	if err := s.broker.Close(); err != nil {
		s.logger.Warn("failed to close broker", zap.Error(err))
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	_ = s.db.Close()
}

func newBroker(cfg *config.Config, logr *zap.Logger) (mq.Backend, error) {
	if !cfg.RegistrationEvents.Enabled {
		return mq.NewMemoryBackend(logr), nil
	}
	client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	return client, nil
}
