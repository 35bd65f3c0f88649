package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/config"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/database"
	kafkainfra "github.com/HosseinHeydarpour/apply-app-backend/internal/infra/kafka"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/logger"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/notifier"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/security"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/telemetry"
	postgresrepo "github.com/HosseinHeydarpour/apply-app-backend/internal/repository/postgres"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/transport/http/middleware"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/transport/http/routes"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if _, err := telemetry.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	hasher := security.NewBcryptHasher(cfg.Password.BcryptCost)
	validator := security.NewPolicyValidator(cfg.Password.MinLength, cfg.Password.MinZxcvbnRank)
	codec, err := security.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	var mailer port.Notifier
	if cfg.SMTP.Host != "" {
		emailNotifier, err := notifier.NewEmailNotifier(cfg.SMTP, log)
		if err != nil {
			log.Warn("failed to init smtp client, using logging notifier", zap.Error(err))
			mailer = notifier.NewLoggingNotifier(log)
		} else {
			mailer = emailNotifier
		}
	} else {
		log.Info("smtp host not configured, using logging notifier")
		mailer = notifier.NewLoggingNotifier(log)
	}

	authService := usecase.NewAuthService(repos.Users, hasher, validator, codec, eventPublisher, log)
	userService := usecase.NewUserService(repos.Users, hasher, validator, codec, eventPublisher, log)
	resetService := usecase.NewPasswordResetService(
		repos.Users,
		hasher,
		validator,
		security.NewResetTokenGenerator(),
		codec,
		mailer,
		eventPublisher,
		cfg.App.BaseURL,
		log,
	)
	if cfg.Reset.TokenTTL > 0 {
		resetService.WithTTL(cfg.Reset.TokenTTL)
	}
	catalogService := usecase.NewCatalogService(repos.Agencies, repos.Universities, repos.Ads, log)
	applicationService := usecase.NewApplicationService(repos.Applications, repos.Consultations, repos.Agencies, repos.Universities, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Database: pool,
		Metrics:  metrics,
		Services: routes.ServiceSet{
			Auth:          authService,
			Users:         userService,
			PasswordReset: resetService,
			Catalog:       catalogService,
			Applications:  applicationService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
