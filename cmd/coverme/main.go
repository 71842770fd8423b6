// Package main provides the CoverME command line: the HTTP API server plus
// offline parse, fetch and generate commands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/coverme/internal/config"
	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/logging"
)

// newLLMClient is replaced in tests
var newLLMClient = func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	return llm.NewClient(ctx, cfg.LLM.ClientConfig(), cfg.LLM.APIKey)
}

type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "coverme",
		Short:         "CoverME cover letter service",
		Long:          "CoverME parses job descriptions and writes tailored cover letters, over a REST API or from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a config file (env vars override it)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides COVERME_LOG_LEVEL)")

	cmd.AddCommand(
		newServeCmd(opts),
		newParseJobCmd(opts),
		newFetchJobCmd(opts),
		newGenerateLetterCmd(opts),
	)
	return cmd
}

// load reads configuration and builds the logger. Logs go to stderr so
// command output on stdout stays machine readable.
func (o *rootOptions) load(stderr io.Writer) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
