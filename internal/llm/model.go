// Package llm wraps langchaingo text generation behind the failure taxonomy
// the HTTP layer reports to callers.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/argenova/mesai-ai/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Model wraps a langchaingo LLM for text generation.
type Model struct {
	llm         llms.Model
	modelName   string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama, "":
		model, err = ollama.New(
			ollama.WithModel(cfg.ChatModel),
			ollama.WithServerURL(cfg.OllamaURL),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.ChatModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.ChatModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	timeout := cfg.GenerateTimeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &Model{
		llm:         model,
		modelName:   cfg.ChatModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
	}, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string { return m.modelName }

// Generate produces a reply for the prompt within the configured timeout.
// Failures are returned classified; check with errors.Is against the
// sentinels in this package.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt,
		llms.WithTemperature(m.temperature),
		llms.WithMaxTokens(m.maxTokens),
	)
	if err != nil {
		return "", Classify(err, m.modelName)
	}

	slog.Debug("llm generation complete",
		"model", m.modelName,
		"prompt_len", len(prompt),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return response, nil
}

// GenerateStream produces a reply while emitting incremental chunks through
// emit as they arrive. Returning an error from emit cancels generation;
// cancelling ctx stops consuming the upstream stream.
func (m *Model) GenerateStream(ctx context.Context, prompt string, emit func(token string) error) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(m.temperature),
		llms.WithMaxTokens(m.maxTokens),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			return emit(string(chunk))
		}),
	)
	if err != nil {
		return "", Classify(err, m.modelName)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices", ErrService)
	}

	return response.Choices[0].Content, nil
}
