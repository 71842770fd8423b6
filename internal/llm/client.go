package llm

import (
	"context"
	"fmt"
)

// Role identifies the author of a chat message
type Role string

// Message roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat-style prompt
type Message struct {
	Role    Role
	Content string
}

// Request is a single completion call
type Request struct {
	Tier        ModelTier
	Temperature float32
	Messages    []Message
	// JSON asks the provider for a JSON-only response where supported.
	JSON bool
}

// Client is an abstraction over LLM providers.
// Implementations are safe for concurrent use.
type Client interface {
	// Complete runs one completion and returns the raw text of the first candidate
	Complete(ctx context.Context, req Request) (string, error)
	// GetModel returns the provider model name configured for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// System builds a system message
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// splitSystem separates system messages from the conversation turns.
// Providers that take a dedicated system prompt use the joined result.
func splitSystem(msgs []Message) (string, []Message) {
	var system string
	turns := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}

func validateRequest(req Request) error {
	_, turns := splitSystem(req.Messages)
	if len(turns) == 0 {
		return fmt.Errorf("request has no user message")
	}
	return nil
}
