// Package service orchestrates the retrieval-augmented chat pipeline:
// retrieve similar exchanges, summarize, compose, generate, persist, index.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/argenova/mesai-ai/internal/metrics"
	"github.com/argenova/mesai-ai/internal/models"
	"github.com/argenova/mesai-ai/internal/retrieval"
	"github.com/argenova/mesai-ai/internal/vector"
)

// ErrEmptyPrompt indicates the request carried no usable prompt text.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// LogStore is the conversation log persistence the service depends on.
type LogStore interface {
	CreateLog(ctx context.Context, id, category string, messages []models.Message, duration float64) (*models.ConversationLog, error)
	AppendExchange(ctx context.Context, id string, messages []models.Message, duration float64) error
	ListLogs(ctx context.Context, limit, page int) ([]models.ConversationLog, int, error)
	SetFeedback(ctx context.Context, id, feedback string) error
	MarkTraining(ctx context.Context, id string) error
	TrainingLogs(ctx context.Context, limit int) ([]models.ConversationLog, error)
	Ping(ctx context.Context) error
}

// VectorStore is the similarity index the service depends on.
type VectorStore interface {
	EnsureCollection(ctx context.Context) bool
	Upsert(ctx context.Context, id string, vec []float32, payload vector.Payload) bool
	Search(ctx context.Context, vec []float32, limit int) []vector.Hit
	ScrollAll(ctx context.Context, limit int) []vector.Point
	Clear(ctx context.Context) bool
	Info(ctx context.Context) map[string]any
}

// Embedder turns text into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// TextGenerator is the language model surface the service depends on.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string, emit func(token string) error) (string, error)
	Model() string
}

// SimilarFinder retrieves prior exchanges similar to a prompt.
type SimilarFinder interface {
	FindSimilar(ctx context.Context, prompt string) []models.Example
}

// ContextSummarizer condenses retrieved examples into a context blob.
type ContextSummarizer interface {
	Summarize(ctx context.Context, examples []models.Example) string
}

// Service wires the pipeline components together. Construct once at startup;
// all dependencies are stateless or internally synchronized, so a single
// Service is safe for concurrent requests.
type Service struct {
	logs       LogStore
	vectors    VectorStore
	embedder   Embedder
	model      TextGenerator
	retriever  SimilarFinder
	summarizer ContextSummarizer
	static     *retrieval.StaticExamples
	metrics    *metrics.Collector
	category   string
	ollamaURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Deps carries the service dependencies.
type Deps struct {
	Logs       LogStore
	Vectors    VectorStore
	Embedder   Embedder
	Model      TextGenerator
	Retriever  SimilarFinder
	Summarizer ContextSummarizer
	Static     *retrieval.StaticExamples
	Metrics    *metrics.Collector
	Category   string
	OllamaURL  string
	Logger     *slog.Logger
}

// New creates the chat service.
func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewCollector()
	}
	return &Service{
		logs:       d.Logs,
		vectors:    d.Vectors,
		embedder:   d.Embedder,
		model:      d.Model,
		retriever:  d.Retriever,
		summarizer: d.Summarizer,
		static:     d.Static,
		metrics:    d.Metrics,
		category:   d.Category,
		ollamaURL:  d.OllamaURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     d.Logger,
	}
}

// Metrics returns the runtime stats collector.
func (s *Service) Metrics() *metrics.Collector { return s.metrics }
