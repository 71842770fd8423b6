// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/coverme/internal/llm"
)

// Reply is a scripted answer for one model tier
type Reply struct {
	Text string
	Err  error
}

// Client answers each request with the Reply registered for its tier and
// records every request it receives.
type Client struct {
	mu      sync.Mutex
	replies map[llm.ModelTier]Reply
	calls   []llm.Request
	Models  map[llm.ModelTier]string
}

// New creates a fake client with the default Gemini model names
func New() *Client {
	return &Client{
		replies: make(map[llm.ModelTier]Reply),
		Models:  llm.DefaultGeminiConfig().Models,
	}
}

// On registers the answer for a tier and returns the client for chaining
func (c *Client) On(tier llm.ModelTier, text string, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies[tier] = Reply{Text: text, Err: err}
	return c
}

// Complete implements llm.Client
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	reply, ok := c.replies[req.Tier]
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return "", context.DeadlineExceeded
	}
	if !ok {
		return "", fmt.Errorf("llmtest: no reply scripted for tier %s", req.Tier)
	}
	return reply.Text, reply.Err
}

// GetModel implements llm.Client
func (c *Client) GetModel(tier llm.ModelTier) string {
	return c.Models[tier]
}

// Close implements llm.Client
func (c *Client) Close() error { return nil }

// Calls returns a copy of the recorded requests
func (c *Client) Calls() []llm.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]llm.Request, len(c.calls))
	copy(out, c.calls)
	return out
}
