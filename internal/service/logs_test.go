package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argenova/mesai-ai/internal/models"
	"github.com/argenova/mesai-ai/internal/store"
)

func seedLogs(t *testing.T, env *testEnv, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := env.svc.Query(context.Background(), QueryRequest{Prompt: "soru"})
		require.NoError(t, err)
	}
}

func TestHistoryPagination(t *testing.T) {
	env := newTestEnv(t)
	seedLogs(t, env, 25)

	page, err := env.svc.History(context.Background(), 10, 1)
	require.NoError(t, err)

	assert.Len(t, page.Logs, 10)
	assert.Equal(t, 25, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)
	assert.Equal(t, 1, page.Pagination.Page)

	last, err := env.svc.History(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Len(t, last.Logs, 5)
}

func TestHistoryDefaults(t *testing.T) {
	env := newTestEnv(t)
	seedLogs(t, env, 1)

	page, err := env.svc.History(context.Background(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Equal(t, 1, page.Pagination.Page)
}

func TestFeedbackValidation(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.Feedback(context.Background(), "any", "great")
	assert.ErrorIs(t, err, ErrInvalidFeedback)
}

func TestFeedbackRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Query(context.Background(), QueryRequest{Prompt: "soru"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Feedback(context.Background(), resp.LogID, models.FeedbackLike))

	log := env.logs.get(resp.LogID)
	require.NotNil(t, log.Feedback)
	assert.Equal(t, models.FeedbackLike, *log.Feedback)
}

func TestFeedbackUnknownLog(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.Feedback(context.Background(), "missing", models.FeedbackLike)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkTrainingAndListExamples(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Query(ctx, QueryRequest{Prompt: "mesai sorum"})
	require.NoError(t, err)
	require.NoError(t, env.svc.MarkTraining(ctx, resp.LogID))

	examples, err := env.svc.TrainingExamples(ctx)
	require.NoError(t, err)

	assert.Len(t, examples.Curated, 3)
	require.Len(t, examples.Marked, 1)
	assert.Equal(t, "mesai sorum", examples.Marked[0].Prompt)
	assert.Equal(t, 4, examples.Total)
}
