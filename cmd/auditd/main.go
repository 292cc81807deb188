package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mkoecher/audit-cockpit/internal/archive"
	"github.com/mkoecher/audit-cockpit/internal/audit"
	"github.com/mkoecher/audit-cockpit/internal/common"
	"github.com/mkoecher/audit-cockpit/internal/extract"
	"github.com/mkoecher/audit-cockpit/internal/llm"
	"github.com/mkoecher/audit-cockpit/internal/llm/azure"
	"github.com/mkoecher/audit-cockpit/internal/pricelist"
	"github.com/mkoecher/audit-cockpit/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env
	if err := godotenv.Load(); err != nil {
		log.Infow(".env not loaded, relying on process env", "error", err)
	}
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slogger := slog.Default()

	// Run archive
	runs, err := archive.Open(ctx, cfg.Archive.DSN, slogger)
	if err != nil {
		log.Fatalf("opening run archive: %v", err)
	}
	defer func() {
		if err := runs.Close(); err != nil {
			log.Errorw("closing run archive", "error", err)
		}
	}()

	// LLM path is optional: without credentials the deterministic path still
	// serves, the LLM endpoints return 503.
	var runner *llm.Runner
	if cfg.LLMEnabled() {
		client := azure.NewClient(azure.Config{
			Endpoint:   cfg.LLM.Endpoint,
			APIKey:     cfg.LLM.APIKey,
			APIVersion: cfg.LLM.APIVersion,
			Deployment: cfg.LLM.Deployment,
			Timeout:    cfg.LLM.Timeout,
		}, slogger)
		runner = llm.NewRunner(client, cfg.LLM.BatchPages, cfg.LLM.MaxWorkers, slogger)
		log.Infow("llm audit path enabled", "deployment", cfg.LLM.Deployment)
	} else {
		log.Infow("llm audit path disabled: credentials not configured")
	}

	extractor := extract.NewPDFExtractor(slogger)
	prices := pricelist.NewLoader(cfg.Upload.PriceListMaxRows, slogger)
	svc := audit.NewService(extractor, prices, runner, runs, slogger)

	srv := server.New(cfg, svc, runs, slogger)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Router(),
	}

	log.Infof("http serving on %s", cfg.Server.HTTPAddr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http shutdown", "error", err)
	}
	fmt.Println("stopped.")
}
