package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/justsurfingit/application-tracker/internal/auth"
	"github.com/justsurfingit/application-tracker/internal/config"
	"github.com/justsurfingit/application-tracker/internal/database"
	"github.com/justsurfingit/application-tracker/internal/handlers"
	"github.com/justsurfingit/application-tracker/internal/logging"
	"github.com/justsurfingit/application-tracker/internal/metrics"
	"github.com/justsurfingit/application-tracker/internal/ratelimit"
	"github.com/justsurfingit/application-tracker/internal/services"
	"github.com/justsurfingit/application-tracker/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration and logging
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	// 3. Shared infrastructure
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store, err := storage.New(afero.NewOsFs(), cfg.Upload.Dir)
	if err != nil {
		return fmt.Errorf("failed to prepare upload dir: %w", err)
	}
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL())

	// 4. Services and handlers
	router := buildRouter(ctx, cfg, db, store, tokens, m, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "addr", srv.Addr, "env", cfg.Env, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func buildRouter(
	ctx context.Context,
	cfg *config.Config,
	db *gorm.DB,
	store *storage.Store,
	tokens *auth.TokenIssuer,
	m *metrics.Metrics,
	log *slog.Logger,
) *gin.Engine {
	var extractor services.JDExtractor
	if cfg.LLM.Available() {
		llm, err := services.NewLLMService(ctx, cfg.LLM)
		if err != nil {
			log.Warn("AI parser unavailable, using rules only", "error", err)
		} else {
			extractor = llm
			log.Info("AI parser enabled", "model", llm.Model)
		}
	}

	authService := services.NewAuthService(db, tokens)

	h := handlers.Handlers{
		Jobs: handlers.NewJobHandler(
			services.NewParserService(extractor, cfg.LLM.Model, log, m),
			services.NewJobService(db),
			log,
		),
		Applications: handlers.NewApplicationHandler(services.NewApplicationService(db, log, m), log),
		Offers:       handlers.NewOfferHandler(services.NewOfferService(db, log, m), log),
		Resumes: handlers.NewResumeHandler(
			services.NewResumeService(db, store, log, cfg.Upload.MaxBytes()),
			log,
		),
		Schedule: handlers.NewScheduleHandler(
			services.NewInterviewService(db),
			services.NewDeadlineService(db),
			log,
		),
		Account: handlers.NewAccountHandler(
			authService,
			services.NewProfileService(db, store, log),
			services.NewActivityService(db),
			log,
		),
		Health: handlers.NewHealthHandler(cfg.AppName, cfg.AppVersion, func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
	}

	return handlers.NewRouter(handlers.RouterConfig{
		Log:           log,
		Metrics:       m,
		CORSOrigins:   cfg.CORSAllowOrigins,
		AuthLimiter:   ratelimit.New(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst, 10*time.Minute),
		Authenticator: authService,
	}, h)
}
