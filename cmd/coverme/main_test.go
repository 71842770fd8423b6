package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/coverme/internal/config"
	"github.com/jonathan/coverme/internal/llm"
	"github.com/jonathan/coverme/internal/llm/llmtest"
)

const postingWithSections = `Senior Backend Engineer at Acme

Responsibilities:
- Design Go services on AWS
- Mentor engineers

Requirements:
- 5+ years with PostgreSQL`

// cleanEnv clears settings a developer shell might export
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, config.EnvPrefix+"_") {
			t.Setenv(name, "")
		}
	}
	t.Setenv("PORT", "")
	t.Setenv("COVERME_LOG_LEVEL", "error")
}

// useFakeLLM routes every command's model calls to fake
func useFakeLLM(t *testing.T, fake *llmtest.Client) {
	t.Helper()
	t.Setenv("COVERME_LLM_API_KEY", "test-key")
	orig := newLLMClient
	newLLMClient = func(context.Context, *config.Config) (llm.Client, error) { return fake, nil }
	t.Cleanup(func() { newLLMClient = orig })
}

// run executes the CLI in process and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runCapture(t, stdin, args...)
	return stdout, err
}

func runCapture(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
