package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/coverme/internal/config"
	"github.com/jonathan/coverme/internal/db"
	"github.com/jonathan/coverme/internal/fetch"
	"github.com/jonathan/coverme/internal/generation"
	"github.com/jonathan/coverme/internal/ingestion"
	"github.com/jonathan/coverme/internal/parsing"
	"github.com/jonathan/coverme/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start the HTTP API. Migrations run on startup; the server stops gracefully on SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides COVERME_SERVER_PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, port int) error {
	cfg, logger, err := root.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DB.URL, cfg.DB.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	parser := parsing.NewParser(client,
		parsing.WithLogger(logger),
		parsing.WithCallTimeout(cfg.LLM.CallTimeout))
	generator := generation.NewGenerator(client,
		generation.WithLogger(logger),
		generation.WithCallTimeout(cfg.LLM.CallTimeout))

	srv := server.New(cfg, server.Deps{
		Store:     database,
		Parser:    parser,
		Generator: generator,
		Fetcher:   newFetcher(cfg.Fetch, logger),
		Logger:    logger,
	})

	logger.WithField("provider", cfg.LLM.Provider).Info("coverme ready")
	return srv.Start(ctx)
}

// newFetcher builds the URL fetcher, adding the headless browser fallback
// when enabled.
func newFetcher(cfg config.FetchConfig, logger logrus.FieldLogger) *ingestion.URLFetcher {
	opts := []ingestion.FetcherOption{
		ingestion.WithMinChars(cfg.MinChars),
		ingestion.WithFetchLogger(logger),
	}
	if cfg.UseBrowser {
		opts = append(opts, ingestion.WithRenderer(fetch.BrowserRenderer(cfg.Timeout, logger)))
	}
	return ingestion.NewURLFetcher(cfg.Timeout, opts...)
}
