package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/argenova/mesai-ai/internal/models"
)

// MaxContextLen bounds the summarized context passed to the composer.
const MaxContextLen = 500

// Generator produces text from a prompt. Satisfied by llm.Model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer condenses retrieved examples into a bounded context blob via a
// secondary LLM call, with a deterministic truncation fallback.
type Summarizer struct {
	model  Generator
	maxLen int
	logger *slog.Logger
}

// NewSummarizer creates a summarizer with the default target length.
func NewSummarizer(model Generator, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{model: model, maxLen: MaxContextLen, logger: logger}
}

// Summarize condenses examples into at most maxLen characters. Empty input
// yields an empty string without invoking the model; a model failure degrades
// to the raw concatenation, truncated.
func (s *Summarizer) Summarize(ctx context.Context, examples []models.Example) string {
	if len(examples) == 0 {
		return ""
	}

	raw := ConcatExamples(examples)

	instruction := fmt.Sprintf(
		"Aşağıdaki soru-yanıt örneklerini en fazla %d karakterlik tek bir bağlam özetine dönüştür. "+
			"Sadece özeti yaz, başka açıklama ekleme.\n\n%s", s.maxLen, raw)

	summary, err := s.model.Generate(ctx, instruction)
	if err != nil {
		s.logger.Warn("context summarization failed, truncating raw examples", "error", err)
		return Truncate(raw, s.maxLen)
	}

	return Truncate(strings.TrimSpace(summary), s.maxLen)
}

// ConcatExamples renders examples as "Soru: …\nYanıt: …" blocks.
func ConcatExamples(examples []models.Example) string {
	blocks := make([]string, len(examples))
	for i, ex := range examples {
		blocks[i] = fmt.Sprintf("Soru: %s\nYanıt: %s", ex.Prompt, ex.Response)
	}
	return strings.Join(blocks, "\n\n")
}

// Truncate shortens s to maxLen runes, appending an ellipsis marker when
// anything was cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
