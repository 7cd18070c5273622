package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/gazette-tracker/internal/common"
	"github.com/joseph-ayodele/gazette-tracker/internal/extract"
	"github.com/joseph-ayodele/gazette-tracker/internal/ingest"
	"github.com/joseph-ayodele/gazette-tracker/internal/match"
	"github.com/joseph-ayodele/gazette-tracker/internal/reconcile"
	"github.com/joseph-ayodele/gazette-tracker/internal/repository"
	"github.com/joseph-ayodele/gazette-tracker/internal/server"
	"github.com/joseph-ayodele/gazette-tracker/internal/textsource"
	"github.com/joseph-ayodele/gazette-tracker/internal/verify"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := db.HealthCheck(ctx); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	records, err := repository.NewRecordRepository(db, logger)
	if err != nil {
		logger.Error("failed to init record repository", "error", err)
		os.Exit(1)
	}

	courtRules := extract.DefaultCourtRules()
	if cfg.Extract.CourtRulesPath != "" {
		courtRules, err = extract.LoadCourtRules(cfg.Extract.CourtRulesPath)
		if err != nil {
			logger.Error("failed to load court rules", "path", cfg.Extract.CourtRulesPath, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded court rules", "path", cfg.Extract.CourtRulesPath, "rules", len(courtRules))
	}

	resolver := textsource.NewChain(textsource.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	extractor := extract.NewExtractor(courtRules, logger)
	matcher := match.NewMatcher(cfg.Match.Threshold)
	engine := reconcile.NewEngine(matcher)

	ingestSvc := ingest.NewService(resolver, extractor, records, logger,
		ingest.WithWorkers(cfg.Ingest.Workers),
		ingest.WithPerDocTimeout(cfg.Ingest.PerDocTimeout),
	)
	verifySvc := verify.NewService(resolver, extractor, engine, logger)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.New(ingestSvc, verifySvc, records, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("stopped")
}
