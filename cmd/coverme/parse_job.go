package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/coverme/internal/config"
	"github.com/jonathan/coverme/internal/ingestion"
	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/observability"
	"github.com/jonathan/coverme/internal/parsing"
	"github.com/jonathan/coverme/internal/schemas"
)

type parseJobOptions struct {
	inFile  string
	url     string
	outFile string
	noAI    bool
	verbose bool
}

func newParseJobCmd(root *rootOptions) *cobra.Command {
	opts := &parseJobOptions{}
	cmd := &cobra.Command{
		Use:   "parse-job",
		Short: "Parse a job description into structured JSON",
		Long: "Parse a job description from a file, stdin (--in -) or a URL into the JSON returned by " +
			"POST /cover-letters/parse. With --no-ai only the heuristic extractor runs.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParseJob(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.inFile, "in", "i", "", "Path to the job description text or HTML (- for stdin)")
	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "URL to fetch the job posting from")
	cmd.Flags().StringVarP(&opts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.noAI, "no-ai", false, "Skip the model and use the heuristic extractor only")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a summary to stderr")
	cmd.MarkFlagsMutuallyExclusive("in", "url")
	cmd.MarkFlagsOneRequired("in", "url")
	return cmd
}

func runParseJob(cmd *cobra.Command, root *rootOptions, opts *parseJobOptions) error {
	cfg, logger, err := root.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	raw, err := readJobInput(ctx, cmd.InOrStdin(), opts.inFile, opts.url, cfg.Fetch, logger)
	if err != nil {
		return err
	}

	var client llm.Client
	if !opts.noAI {
		if err := cfg.ValidateLLM(); err != nil {
			return fmt.Errorf("%w (or use --no-ai)", err)
		}
		if client, err = newLLMClient(ctx, cfg); err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
	}

	parser := parsing.NewParser(client, parsing.WithLogger(logger), parsing.WithCallTimeout(cfg.LLM.CallTimeout))
	outcome, err := parser.Parse(ctx, ingestion.PrepareJobText(raw))
	if err != nil {
		return fmt.Errorf("failed to parse job description: %w", err)
	}

	resp := outcome.Response()
	parsedJSON, err := json.Marshal(resp.Parsed)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := schemas.Validate(schemas.ExtractionResult, parsedJSON); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("parsed result does not match schema: %w", err)
		}
		logger.WithError(err).Warn("could not validate parsed result against schema")
	}

	if opts.verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintParseResult(&resp)
	}
	return writeJSONOutput(cmd.OutOrStdout(), opts.outFile, resp)
}

// readJobInput returns the raw posting from a file, stdin or a URL
func readJobInput(ctx context.Context, stdin io.Reader, inFile, url string, fetchCfg config.FetchConfig, logger *logrus.Logger) (string, error) {
	switch {
	case url != "":
		posting, err := newFetcher(fetchCfg, logger).Fetch(ctx, url)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		return posting.Text, nil
	case inFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		return ingestion.ReadJobFile(inFile)
	}
}

// writeJSONOutput writes v as indented JSON to path, or to w when path is empty
func writeJSONOutput(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
