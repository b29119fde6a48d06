package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"nutrilookup"
	"nutrilookup/generator"
	"nutrilookup/httpapi"
	"nutrilookup/lookup"
	"nutrilookup/storage"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var genConfig nutrilookup.GeneratorConfig
	if err := envdecode.Decode(&genConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var svcConfig nutrilookup.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var serverConfig nutrilookup.ServerConfig
	if err := envdecode.Decode(&serverConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var archiveConfig nutrilookup.ArchiveConfig
	if err := envdecode.Decode(&archiveConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	_, meterProvider, otelShutdown, err := nutrilookup.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	sink, err := newArchiveSink(ctx, archiveConfig)
	if err != nil {
		slog.Error("SETUP: Failed to create archive sink", "error", err)
		return
	}
	exchangeLogger := nutrilookup.NewArchiveExchangeLogger(sink, modelName(genConfig), archiveConfig.FlushEvery)
	defer func() {
		if err := exchangeLogger.Flush(context.Background()); err != nil {
			slog.Error("SETUP: Failed to flush exchange log", "error", err)
		}
	}()

	gen, err := generator.New(ctx, genConfig, &http.Client{Timeout: genConfig.Timeout + 5*time.Second})
	if err != nil {
		slog.Error("SETUP: Failed to create generator", "error", err)
		return
	}

	svc := lookup.NewInstrumentedService(
		lookup.NewService(gen, exchangeLogger, lookup.Options{
			Density:        svcConfig.MillilitreDensity,
			MaxSuggestions: svcConfig.MaxSuggestions,
			MaxMeals:       svcConfig.MaxMeals,
		}),
		meterProvider.Meter("nutrilookup"),
	)

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(svc, httpapi.Options{
		AllowedOrigins: serverConfig.AllowedOrigins,
		Timeout:        genConfig.Timeout,
	})

	srv := &http.Server{
		Addr:              ":" + serverConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("SETUP: Server listening", "addr", srv.Addr, "backend", genConfig.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("SETUP: Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("SETUP: Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), genConfig.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("SETUP: Graceful shutdown failed", "error", err)
	}
}

func newArchiveSink(ctx context.Context, cfg nutrilookup.ArchiveConfig) (storage.Sink, error) {
	if cfg.S3Bucket == "" {
		slog.Info("SETUP: Archiving exchanges to local directory", "dir", cfg.Dir)
		return storage.NewFileSink(cfg.Dir), nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SETUP: Archiving exchanges to S3", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	return storage.NewS3Sink(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil
}

func modelName(cfg nutrilookup.GeneratorConfig) string {
	if cfg.ModelID != "" {
		return cfg.ModelID
	}
	return cfg.Backend
}
