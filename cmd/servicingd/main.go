package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/usecase"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/service"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/infrastructure/adapter"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/infrastructure/config"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/infrastructure/messaging"
	pgRepo "github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/presentation/grpc"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/presentation/rest"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/auth"
	pkgkafka "github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/kafka"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/observability"
	pkgpostgres "github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/postgres"
	"github.com/google/uuid"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   getEnv("LOG_LEVEL", "info"),
		Format:  getEnv("LOG_FORMAT", "json"),
		Service: cfg.ServiceName,
	})
	slog.SetDefault(logger)

	logger.Info("starting loan-servicing-engine",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"batch_workers", cfg.Batch.Workers,
		"batch_interval", cfg.Batch.Interval.String(),
	)

	// Initialize tracing.
	shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdown(ctx) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Initialize metrics.
	meterProvider, _, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Warn("failed to initialize metrics, continuing without metrics", "error", err)
	} else {
		defer func() { _ = meterProvider.Shutdown(ctx) }() //nolint:errcheck // best-effort meter shutdown
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	scheduleRepo := pgRepo.NewScheduleRepo(pool)
	paymentRepo := pgRepo.NewPaymentRepo(pool)
	classRepo := pgRepo.NewClassificationRepo(pool)
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: strings.Split(cfg.Kafka.Brokers, ","),
	})
	defer kafkaProducer.Close()
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, cfg.Kafka.EventTopic, logger)
	auditSink := messaging.NewKafkaAuditSink(kafkaProducer, cfg.Kafka.AuditTopic, logger)
	notifier := messaging.NewKafkaNotificationSink(kafkaProducer, cfg.Kafka.NotificationTopic, logger)
	clock := adapter.NewSystemClock()
	locker := service.NewLoanLocker()

	// Wire use cases.
	generateUC := usecase.NewGenerateScheduleUseCase(scheduleRepo, publisher, auditSink, clock, logger)
	getScheduleUC := usecase.NewGetScheduleUseCase(scheduleRepo)
	applyPaymentUC := usecase.NewApplyPaymentUseCase(scheduleRepo, paymentRepo, locker, publisher, auditSink, notifier, clock, logger)
	paymentHistoryUC := usecase.NewGetPaymentHistoryUseCase(paymentRepo)
	classifyUC := usecase.NewClassifyLoanUseCase(scheduleRepo, classRepo, locker, publisher, auditSink, notifier, clock, logger)
	classifyAllUC := usecase.NewClassifyAllLoansUseCase(scheduleRepo, classifyUC, cfg.Batch.Workers, logger)
	classHistoryUC := usecase.NewGetClassificationHistoryUseCase(classRepo)

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtCfg := auth.JWTConfig{
		Issuer: getEnv("JWT_ISSUER", "intellifin-gateway"),
	}
	switch {
	case os.Getenv("JWT_PUBLIC_KEY") != "":
		jwtCfg.PublicKeyPEM = os.Getenv("JWT_PUBLIC_KEY")
	case os.Getenv("JWT_PUBLIC_KEY_FILE") != "":
		keyData, loadErr := auth.LoadKeyFromFile(os.Getenv("JWT_PUBLIC_KEY_FILE"))
		if loadErr != nil {
			logger.Error("failed to load JWT public key file", "error", loadErr)
			os.Exit(1)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtSecret := os.Getenv("JWT_SECRET")
		if jwtSecret == "" {
			logger.Error("JWT_SECRET or a JWT public key is required")
			os.Exit(1)
		}
		jwtCfg.Secret = jwtSecret
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	handler := grpcPresentation.NewServicingHandler(
		generateUC, getScheduleUC,
		applyPaymentUC, paymentHistoryUC,
		classifyUC, classifyAllUC, classHistoryUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtSvc)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(pool, logger)
	healthHandler.RegisterRoutes(mux)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Nightly classification pass.
	go runClassificationLoop(ctx, classifyAllUC, cfg.Batch.Interval, logger)

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loan-servicing-engine stopped")
}

// runClassificationLoop re-evaluates the whole loan book on a fixed interval
// until the context is cancelled.
func runClassificationLoop(ctx context.Context, classifyAll *usecase.ClassifyAllLoansUseCase, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("classification loop stopped")
			return
		case <-ticker.C:
			result, err := classifyAll.Execute(ctx, dto.ClassifyAllLoansRequest{
				Actor:         "system",
				CorrelationID: uuid.New().String(),
			})
			if err != nil {
				logger.Error("scheduled classification run failed", "error", err)
				continue
			}
			logger.Info("scheduled classification run complete",
				"visited", result.Visited,
				"classified", result.Classified,
				"changed", result.Changed,
				"failures", len(result.Failures),
			)
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
