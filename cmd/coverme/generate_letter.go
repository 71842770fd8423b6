package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/coverme/internal/generation"
	"github.com/jonathan/coverme/internal/observability"
	"github.com/jonathan/coverme/internal/schemas"
	"github.com/jonathan/coverme/internal/types"
)

type generateLetterOptions struct {
	parsedFile  string
	profileFile string
	tone        string
	length      string
	template    string
	asJSON      bool
	outFile     string
	verbose     bool
}

func newGenerateLetterCmd(root *rootOptions) *cobra.Command {
	opts := &generateLetterOptions{}
	cmd := &cobra.Command{
		Use:   "generate-letter",
		Short: "Write a cover letter from a parsed job description",
		Long: "Write a cover letter from the JSON produced by parse-job (either the full response " +
			"or just its \"parsed\" object) and an optional candidate profile JSON file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerateLetter(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.parsedFile, "parsed", "p", "", "Path to the parsed job description JSON (required)")
	cmd.Flags().StringVar(&opts.profileFile, "profile", "", "Path to the candidate profile JSON")
	cmd.Flags().StringVar(&opts.tone, "tone", "", "Letter tone (default "+generation.DefaultTone+")")
	cmd.Flags().StringVar(&opts.length, "length", "", "short, medium or long (default "+generation.DefaultLength+")")
	cmd.Flags().StringVar(&opts.template, "template", "", "Letter template (default "+generation.DefaultTemplate+")")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print variants and metadata as JSON")
	cmd.Flags().StringVarP(&opts.outFile, "out", "o", "", "Write output to this file instead of stdout")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print model and style details to stderr")
	_ = cmd.MarkFlagRequired("parsed")
	return cmd
}

func runGenerateLetter(cmd *cobra.Command, root *rootOptions, opts *generateLetterOptions) error {
	cfg, logger, err := root.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	parsed, err := readParsedFile(opts.parsedFile)
	if err != nil {
		return err
	}

	var profile json.RawMessage
	if opts.profileFile != "" {
		data, err := os.ReadFile(opts.profileFile)
		if err != nil {
			return fmt.Errorf("failed to read profile file: %w", err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("profile file %s is not valid JSON", opts.profileFile)
		}
		profile = data
	}

	if err := cfg.ValidateLLM(); err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	gen := generation.NewGenerator(client, generation.WithLogger(logger), generation.WithCallTimeout(cfg.LLM.CallTimeout))
	style := types.GenerationConfig{Tone: opts.tone, Length: opts.length, Template: opts.template}
	resp, err := gen.Generate(ctx, parsed, style, profile)
	if err != nil {
		return err
	}
	if opts.verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintLetterMetadata(resp, generation.ApplyDefaults(style))
	}

	if opts.asJSON {
		return writeJSONOutput(cmd.OutOrStdout(), opts.outFile, resp)
	}
	return writeTextOutput(cmd.OutOrStdout(), opts.outFile, resp.Variants[0])
}

// readParsedFile accepts either a parse response or a bare extraction
// result and checks it against the extraction result schema.
func readParsedFile(path string) (types.ExtractionResult, error) {
	var parsed types.ExtractionResult

	data, err := os.ReadFile(path)
	if err != nil {
		return parsed, fmt.Errorf("failed to read parsed file: %w", err)
	}

	var envelope struct {
		Parsed json.RawMessage `json:"parsed"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return parsed, fmt.Errorf("parsed file %s is not valid JSON: %w", path, err)
	}
	if len(envelope.Parsed) > 0 {
		data = envelope.Parsed
	}

	if err := schemas.Validate(schemas.ExtractionResult, data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return parsed, fmt.Errorf("parsed file %s: %w", path, err)
		}
		return parsed, err
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return parsed, fmt.Errorf("failed to decode parsed file: %w", err)
	}
	return parsed, nil
}

func writeTextOutput(w io.Writer, path, text string) error {
	text = strings.TrimRight(text, "\n") + "\n"
	if path == "" {
		_, err := io.WriteString(w, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
