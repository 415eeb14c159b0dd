package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/argenova/mesai-ai/internal/models"
)

const (
	// keywordTokens is how many leading prompt tokens the keyword tier
	// matches against message text.
	keywordTokens = 3

	// keywordWindow is how far back the keyword tier looks.
	keywordWindow = 30 * 24 * time.Hour
)

// LogSearcher is the slice of the log store the keyword tier needs.
type LogSearcher interface {
	SearchRecent(ctx context.Context, tokens []string, since time.Time, category string, limit int) ([]models.ConversationLog, error)
}

// KeywordTier retrieves examples by substring-matching prompt tokens against
// recent conversation logs. An empty category disables category filtering.
type KeywordTier struct {
	store    LogSearcher
	category string
	now      func() time.Time
}

// NewKeywordTier creates the keyword search tier.
func NewKeywordTier(store LogSearcher, category string) *KeywordTier {
	return &KeywordTier{store: store, category: category, now: time.Now}
}

// Name implements Strategy.
func (t *KeywordTier) Name() string { return "keyword" }

// Retrieve matches the first three whitespace-delimited prompt tokens against
// logs from the last 30 days and extracts the first user/bot pair of each.
func (t *KeywordTier) Retrieve(ctx context.Context, prompt string, limit int) ([]models.Example, error) {
	tokens := strings.Fields(prompt)
	if len(tokens) > keywordTokens {
		tokens = tokens[:keywordTokens]
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	since := t.now().Add(-keywordWindow)
	logs, err := t.store.SearchRecent(ctx, tokens, since, t.category, limit*2)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	var examples []models.Example
	for _, log := range logs {
		p, resp, ok := log.FirstExchange()
		if !ok {
			continue
		}
		examples = append(examples, models.Example{Prompt: p, Response: resp})
		if len(examples) >= limit {
			break
		}
	}
	return examples, nil
}
