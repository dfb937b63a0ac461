package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-booking-api/internal/config"
	"github.com/jwalitptl/clinic-booking-api/internal/email"
	"github.com/jwalitptl/clinic-booking-api/internal/handler"
	authHandler "github.com/jwalitptl/clinic-booking-api/internal/handler/auth"
	bookingHandler "github.com/jwalitptl/clinic-booking-api/internal/handler/booking"
	doctorHandler "github.com/jwalitptl/clinic-booking-api/internal/handler/doctor"
	"github.com/jwalitptl/clinic-booking-api/internal/middleware"
	"github.com/jwalitptl/clinic-booking-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-booking-api/internal/router"
	authService "github.com/jwalitptl/clinic-booking-api/internal/service/auth"
	bookingService "github.com/jwalitptl/clinic-booking-api/internal/service/booking"
	doctorService "github.com/jwalitptl/clinic-booking-api/internal/service/doctor"
	eventService "github.com/jwalitptl/clinic-booking-api/internal/service/event"
	pkgauth "github.com/jwalitptl/clinic-booking-api/pkg/auth"
	"github.com/jwalitptl/clinic-booking-api/pkg/logger"
	"github.com/jwalitptl/clinic-booking-api/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-booking-api/pkg/metrics"
	"github.com/jwalitptl/clinic-booking-api/pkg/security"
	"github.com/jwalitptl/clinic-booking-api/pkg/validator"
	"github.com/jwalitptl/clinic-booking-api/pkg/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Missing signing key must abort startup, never run unsigned.
	tokenSvc, err := pkgauth.NewJWTService(pkgauth.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Expiry:   time.Duration(cfg.JWT.ExpiryMinutes) * time.Minute,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token issuer")
	}

	validate, err := validator.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize validator")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("clinic_api", "core")

	accountRepo := postgres.NewAccountRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	hasher := security.NewBcryptHasher(12)
	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	eventSvc := eventService.NewService(outboxRepo)
	authSvc := authService.NewService(accountRepo, doctorRepo, tokenSvc, hasher, validate, emailSvc, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo)
	bookingSvc := bookingService.NewService(bookingRepo, doctorRepo, eventSvc, appLogger, appMetrics)

	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc, doctorSvc),
		doctorHandler.NewHandler(doctorSvc, bookingSvc),
		bookingHandler.NewHandler(bookingSvc),
		handler.NewHandler(db),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			CORS:           middleware.CORSConfig{AllowOrigins: cfg.AllowedOrigins},
		},
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Redis.URL != "" {
		broker, err := redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		}, appLogger, appMetrics)
		go processor.Start(ctx)
	} else {
		log.Warn().Msg("redis not configured, booking events stay in the outbox")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
