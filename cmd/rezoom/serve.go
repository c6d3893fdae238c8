package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/rezoom/internal/config"
	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/db/memory"
	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/logging"
	"github.com/jonathan/rezoom/internal/pdfservice"
	"github.com/jonathan/rezoom/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start the HTTP server exposing auth, profile, chat, upload and resume endpoints.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Addr = fmt.Sprintf(":%d", servePort)
	}

	logger := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		Production: os.Getenv("APP_ENV") == "production",
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	deps := server.Deps{Store: store, Logger: logger}

	client, err := newLLMClient(ctx, cfg)
	switch {
	case err == nil:
		defer func() { _ = client.Close() }()
		deps.LLM = client
	case errors.Is(err, llm.ErrMissingAPIKey):
		logger.Warn("GEMINI_API_KEY not set; chat and resume import will report the model as unavailable")
	default:
		return err
	}

	if cfg.PDFServiceURL != "" {
		renderer, err := pdfservice.New(cfg.PDFServiceURL, cfg.PDFTimeout(), logger)
		if err != nil {
			return fmt.Errorf("failed to create PDF service client: %w", err)
		}
		deps.PDF = renderer
	} else {
		logger.Warn("PDF_SERVICE_URL not set; PDF export is disabled")
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("rezoom configured",
		zap.String("store", cfg.Store),
		zap.Int("chat_max_steps", cfg.ChatMaxSteps),
		zap.String("extraction_duplicates", cfg.ExtractionDuplicates))
	return srv.Start(ctx)
}

// openStore returns the configured profile store and a function releasing it
func openStore(ctx context.Context, cfg *config.Config) (db.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		return memory.New(), func() {}, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return database, database.Close, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	return llm.NewClient(ctx, modelConfig(cfg.ModelTimeout()), cfg.GeminiAPIKey)
}

// modelConfig applies GEMINI_MODEL, when set, to the tier used by chat and extraction
func modelConfig(timeout time.Duration) *llm.Config {
	llmCfg := llm.DefaultConfig().WithTimeout(timeout)
	if model := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, model)
	}
	return llmCfg
}
