package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/argenova/mesai-ai/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// countResult decodes SELECT count() GROUP ALL rows.
type countResult struct {
	Count int `json:"count"`
}

// CreateLog creates a conversation log with the given id and initial messages.
func (c *Client) CreateLog(ctx context.Context, id, category string, messages []models.Message, duration float64) (*models.ConversationLog, error) {
	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, `
		CREATE type::record("log", $id) CONTENT {
			messages: $messages,
			duration: $duration,
			category: $category
		}
	`, map[string]any{
		"id":       id,
		"messages": messages,
		"duration": duration,
		"category": category,
	})
	if err != nil {
		return nil, fmt.Errorf("create log: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create log: empty result")
	}
	return &(*results)[0].Result[0], nil
}

// AppendExchange appends messages to an existing log and accumulates its
// duration. SurrealDB serializes writes per record, so concurrent appends to
// the same log id do not interleave within the array.
func (c *Client) AppendExchange(ctx context.Context, id string, messages []models.Message, duration float64) error {
	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, `
		UPDATE type::record("log", $id) SET
			messages += $messages,
			duration += $duration
	`, map[string]any{
		"id":       id,
		"messages": messages,
		"duration": duration,
	})
	if err != nil {
		return fmt.Errorf("append exchange: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLog retrieves a log by id. Returns ErrNotFound if it does not exist.
func (c *Client) GetLog(ctx context.Context, id string) (*models.ConversationLog, error) {
	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, `
		SELECT * FROM type::record("log", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}

// ListLogs returns one page of logs, newest first, plus the total count.
// page is 1-based.
func (c *Client) ListLogs(ctx context.Context, limit, page int) ([]models.ConversationLog, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, `
		SELECT * FROM log ORDER BY created_at DESC LIMIT $limit START $start
	`, map[string]any{
		"limit": limit,
		"start": (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", wrapQueryError(err))
	}

	counts, err := surrealdb.Query[[]countResult](ctx, c.db, `
		SELECT count() FROM log GROUP ALL
	`, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", wrapQueryError(err))
	}

	total := 0
	if counts != nil && len(*counts) > 0 && len((*counts)[0].Result) > 0 {
		total = (*counts)[0].Result[0].Count
	}

	var logs []models.ConversationLog
	if results != nil && len(*results) > 0 {
		logs = (*results)[0].Result
	}
	return logs, total, nil
}

// SetFeedback attaches a feedback value to a log.
func (c *Client) SetFeedback(ctx context.Context, id, feedback string) error {
	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, `
		UPDATE type::record("log", $id) SET feedback = $feedback
	`, map[string]any{"id": id, "feedback": feedback})
	if err != nil {
		return fmt.Errorf("set feedback: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkTraining flags a log as a training example.
func (c *Client) MarkTraining(ctx context.Context, id string) error {
	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, `
		UPDATE type::record("log", $id) SET is_training_example = true
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("mark training: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return ErrNotFound
	}
	return nil
}

// TrainingLogs returns logs flagged as training examples, newest first.
func (c *Client) TrainingLogs(ctx context.Context, limit int) ([]models.ConversationLog, error) {
	if limit <= 0 {
		limit = 100
	}

	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, `
		SELECT * FROM log WHERE is_training_example = true
		ORDER BY created_at DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("training logs: %w", wrapQueryError(err))
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}

// SearchRecent returns logs created after since whose message text contains
// any of the given tokens (case-insensitive). An empty category disables the
// category filter. Newest first.
func (c *Client) SearchRecent(ctx context.Context, tokens []string, since time.Time, category string, limit int) ([]models.ConversationLog, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	// Build one CONTAINS clause per token; tokens are bound, never spliced.
	clauses := make([]string, 0, len(tokens))
	vars := map[string]any{
		"since": since,
		"limit": limit,
	}
	for i, tok := range tokens {
		name := fmt.Sprintf("tok%d", i)
		clauses = append(clauses, fmt.Sprintf("search_text CONTAINS $%s", name))
		vars[name] = strings.ToLower(tok)
	}

	categoryClause := ""
	if category != "" {
		categoryClause = "AND category = $category"
		vars["category"] = category
	}

	sql := fmt.Sprintf(`
		SELECT * FROM log
		WHERE created_at > $since %s AND (%s)
		ORDER BY created_at DESC LIMIT $limit
	`, categoryClause, strings.Join(clauses, " OR "))

	results, err := surrealdb.Query[[]models.ConversationLog](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("search recent: %w", wrapQueryError(err))
	}

	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}
