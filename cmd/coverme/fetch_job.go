package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type fetchJobOptions struct {
	url      string
	browser  bool
	asJSON   bool
	outFile  string
	minChars int
}

func newFetchJobCmd(root *rootOptions) *cobra.Command {
	opts := &fetchJobOptions{}
	cmd := &cobra.Command{
		Use:   "fetch-job",
		Short: "Fetch a job posting and print its cleaned text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetchJob(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "URL of the job posting (required)")
	cmd.Flags().BoolVar(&opts.browser, "browser", false, "Render client-side pages in headless Chrome when the HTML has little text")
	cmd.Flags().IntVar(&opts.minChars, "min-chars", 0, "Text length below which the browser is tried")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print url, platform and text as JSON")
	cmd.Flags().StringVarP(&opts.outFile, "out", "o", "", "Write output to this file instead of stdout")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func runFetchJob(cmd *cobra.Command, root *rootOptions, opts *fetchJobOptions) error {
	cfg, logger, err := root.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.browser {
		cfg.Fetch.UseBrowser = true
	}
	if opts.minChars > 0 {
		cfg.Fetch.MinChars = opts.minChars
	}

	posting, err := newFetcher(cfg.Fetch, logger).Fetch(cmd.Context(), opts.url)
	if err != nil {
		return fmt.Errorf("failed to fetch job posting: %w", err)
	}

	if opts.asJSON {
		return writeJSONOutput(cmd.OutOrStdout(), opts.outFile, posting)
	}
	return writeTextOutput(cmd.OutOrStdout(), opts.outFile, posting.Text)
}
