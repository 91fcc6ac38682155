package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zhima-Mochi/marketplace-console/internal/application/marketplace"
	apppurchase "github.com/Zhima-Mochi/marketplace-console/internal/application/purchase"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/id"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/memory"
	obsinfra "github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/receipt"
	"github.com/Zhima-Mochi/marketplace-console/internal/infrastructure/seed"
	"github.com/Zhima-Mochi/marketplace-console/internal/pkg/env"
	"github.com/Zhima-Mochi/marketplace-console/internal/pkg/logging"
	consolepresentation "github.com/Zhima-Mochi/marketplace-console/internal/presentation/console"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	serviceName string
	environment string
	logFile     string
	logOutput   string
	logLevel    string
	logFormat   string
	receiptsDir string
	metricsAddr string
	seedFile    string
}

func loadConfig() config {
	cfg := config{
		serviceName: env.GetDefault(env.EnvServiceName, "marketplace"),
		environment: env.GetDefault(env.EnvEnvironment, "dev"),
		logOutput:   env.GetDefault(env.EnvLogOutput, "stderr"),
		logLevel:    env.GetDefault(env.EnvLogLevel, "info"),
		logFormat:   env.GetDefault(env.EnvLogFormat, "json"),
		receiptsDir: env.GetDefault(env.EnvReceiptsDir, receipt.DefaultDir),
	}
	env.TrySetFromEnv(env.EnvLogFile, &cfg.logFile)
	env.TrySetFromEnv(env.EnvMetricsAddr, &cfg.metricsAddr)
	env.TrySetFromEnv(env.EnvSeedFile, &cfg.seedFile)
	return cfg
}

func main() {
	cfg := loadConfig()

	baseLogger := logging.MustNewLogger(logging.Options{
		Service:  cfg.serviceName,
		Env:      cfg.environment,
		Output:   cfg.logOutput,
		File:     cfg.logFile,
		Level:    cfg.logLevel,
		Encoding: cfg.logFormat,
	})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	counters, histograms := prometrics.Standard(prometrics.New(prometheus.DefaultRegisterer, "", ""))
	tel := obsinfra.New(obsinfra.Options{
		Tracer:     oteltrace.New(cfg.serviceName),
		Logger:     zaplogger.Wrap(baseLogger),
		Counters:   counters,
		Histograms: histograms,
	})

	sellerRepo := memory.NewSellerRepository()
	customerRepo := memory.NewCustomerRepository()
	productRepo := memory.NewProductRepository()
	idGenerator := id.NewUUIDGenerator()

	registry := marketplace.NewService(sellerRepo, customerRepo, productRepo, idGenerator, tel)
	purchaseUseCase := apppurchase.NewUseCase(customerRepo, productRepo, receipt.NewFileWriter(cfg.receiptsDir), idGenerator, tel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.seedFile != "" {
		catalog, err := seed.LoadFile(cfg.seedFile)
		if err != nil {
			systemLogger.Fatal("seed_load_error", zap.String("path", cfg.seedFile), zap.Error(err))
		}
		summary, err := seed.Apply(ctx, registry, catalog)
		if err != nil {
			systemLogger.Fatal("seed_apply_error", zap.String("path", cfg.seedFile), zap.Error(err))
		}
		systemLogger.Info("seed_applied",
			zap.String("path", cfg.seedFile),
			zap.Int("sellers", summary.Sellers),
			zap.Int("products", summary.Products),
			zap.Int("customers", summary.Customers),
		)
	}

	var server *http.Server
	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server = &http.Server{
			Addr:              cfg.metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			systemLogger.Info("metrics_server_start", zap.String("addr", server.Addr))
			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				systemLogger.Error("metrics_server_error", zap.Error(err))
			}
		}()
	}

	shell := consolepresentation.NewShell(registry, purchaseUseCase, os.Stdin, os.Stdout, tel)
	done := make(chan error, 1)
	go func() { done <- shell.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			systemLogger.Error("console_error", zap.Error(err))
		}
	case <-ctx.Done():
		systemLogger.Info("shutdown_signal")
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			systemLogger.Error("metrics_server_shutdown_error", zap.Error(err))
		} else {
			systemLogger.Info("metrics_server_stopped")
		}
	}
}
