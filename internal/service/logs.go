package service

import (
	"context"
	"errors"
	"time"

	"github.com/argenova/mesai-ai/internal/metrics"
	"github.com/argenova/mesai-ai/internal/models"
)

// ErrInvalidFeedback indicates a feedback value outside the accepted set.
var ErrInvalidFeedback = errors.New("feedback must be one of: like, dislike, improve")

// LogEntry is the transport shape of a conversation log.
type LogEntry struct {
	ID                string           `json:"id"`
	Messages          []models.Message `json:"messages"`
	Duration          float64          `json:"duration"`
	Category          string           `json:"category"`
	Feedback          *string          `json:"feedback,omitempty"`
	IsTrainingExample bool             `json:"isTrainingExample"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// Pagination describes one page of a listed collection. The wire names match
// what the frontend already binds to.
type Pagination struct {
	Page  int `json:"currentPage"`
	Limit int `json:"itemsPerPage"`
	Total int `json:"totalItems"`
	Pages int `json:"totalPages"`
}

// HistoryPage is one page of conversation logs, newest first.
type HistoryPage struct {
	Logs       []LogEntry `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

// History returns one page of conversation logs.
func (s *Service) History(ctx context.Context, limit, page int) (*HistoryPage, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	var (
		logs  []models.ConversationLog
		total int
		err   error
	)
	s.metrics.Time(metrics.OpLogQuery, func() {
		logs, total, err = s.logs.ListLogs(ctx, limit, page)
	})
	if err != nil {
		return nil, err
	}

	entries := make([]LogEntry, 0, len(logs))
	for i := range logs {
		entries = append(entries, toLogEntry(&logs[i]))
	}

	pages := (total + limit - 1) / limit
	return &HistoryPage{
		Logs: entries,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// Feedback attaches a feedback value to a logged exchange.
func (s *Service) Feedback(ctx context.Context, logID, feedback string) error {
	if !models.ValidFeedback(feedback) {
		return ErrInvalidFeedback
	}
	return s.logs.SetFeedback(ctx, logID, feedback)
}

// MarkTraining flags a logged exchange as a training example.
func (s *Service) MarkTraining(ctx context.Context, logID string) error {
	return s.logs.MarkTraining(ctx, logID)
}

// TrainingExamples is the curated corpus plus exchanges marked by users.
type TrainingExamples struct {
	Curated []models.Example `json:"curated"`
	Marked  []models.Example `json:"marked"`
	Total   int              `json:"total"`
}

// TrainingExamples returns the full set of examples available for retrieval
// seeding: the curated corpus and the first exchange of every user-marked log.
func (s *Service) TrainingExamples(ctx context.Context) (*TrainingExamples, error) {
	logs, err := s.logs.TrainingLogs(ctx, 100)
	if err != nil {
		return nil, err
	}

	marked := make([]models.Example, 0, len(logs))
	for i := range logs {
		if p, r, ok := logs[i].FirstExchange(); ok {
			marked = append(marked, models.Example{Prompt: p, Response: r})
		}
	}

	curated := s.static.All()
	return &TrainingExamples{
		Curated: curated,
		Marked:  marked,
		Total:   len(curated) + len(marked),
	}, nil
}

func toLogEntry(l *models.ConversationLog) LogEntry {
	return LogEntry{
		ID:                l.LogID(),
		Messages:          l.Messages,
		Duration:          l.Duration,
		Category:          l.Category,
		Feedback:          l.Feedback,
		IsTrainingExample: l.IsTrainingExample,
		CreatedAt:         l.CreatedAt,
	}
}
