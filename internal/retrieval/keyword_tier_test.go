package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argenova/mesai-ai/internal/models"
)

// stubLogSearcher records the query it received and returns scripted logs.
type stubLogSearcher struct {
	gotTokens   []string
	gotSince    time.Time
	gotCategory string
	logs        []models.ConversationLog
	err         error
}

func (s *stubLogSearcher) SearchRecent(_ context.Context, tokens []string, since time.Time, category string, _ int) ([]models.ConversationLog, error) {
	s.gotTokens = tokens
	s.gotSince = since
	s.gotCategory = category
	return s.logs, s.err
}

func logWithExchange(prompt, response string) models.ConversationLog {
	return models.ConversationLog{
		Messages: []models.Message{
			{Sender: models.SenderUser, Content: prompt},
			{Sender: models.SenderBot, Content: response},
		},
	}
}

func TestKeywordTierUsesFirstThreeTokens(t *testing.T) {
	searcher := &stubLogSearcher{}
	tier := NewKeywordTier(searcher, "weekly_work_hours")

	_, err := tier.Retrieve(context.Background(), "pazartesi mesai saatlerimi değerlendirir misin", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"pazartesi", "mesai", "saatlerimi"}, searcher.gotTokens)
	assert.Equal(t, "weekly_work_hours", searcher.gotCategory)
}

func TestKeywordTierWindowIsThirtyDays(t *testing.T) {
	searcher := &stubLogSearcher{}
	tier := NewKeywordTier(searcher, "")
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	tier.now = func() time.Time { return now }

	_, err := tier.Retrieve(context.Background(), "mesai", 3)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-30*24*time.Hour), searcher.gotSince)
}

func TestKeywordTierExtractsFirstExchange(t *testing.T) {
	searcher := &stubLogSearcher{logs: []models.ConversationLog{
		logWithExchange("soru bir", "yanıt bir"),
		{Messages: []models.Message{{Sender: models.SenderBot, Content: "tek yanıt"}}},
		logWithExchange("soru iki", "yanıt iki"),
	}}
	tier := NewKeywordTier(searcher, "")

	got, err := tier.Retrieve(context.Background(), "mesai sorusu", 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "soru bir", got[0].Prompt)
	assert.Equal(t, "yanıt iki", got[1].Response)
}

func TestKeywordTierRespectsLimit(t *testing.T) {
	searcher := &stubLogSearcher{logs: []models.ConversationLog{
		logWithExchange("a", "ra"),
		logWithExchange("b", "rb"),
		logWithExchange("c", "rc"),
	}}
	tier := NewKeywordTier(searcher, "")

	got, err := tier.Retrieve(context.Background(), "mesai", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestKeywordTierEmptyPrompt(t *testing.T) {
	searcher := &stubLogSearcher{}
	tier := NewKeywordTier(searcher, "")

	got, err := tier.Retrieve(context.Background(), "   ", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, searcher.gotTokens)
}

func TestKeywordTierStoreErrorPropagates(t *testing.T) {
	searcher := &stubLogSearcher{err: errors.New("db down")}
	tier := NewKeywordTier(searcher, "")

	_, err := tier.Retrieve(context.Background(), "mesai", 3)
	assert.Error(t, err)
}
