package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/argenova/mesai-ai/internal/models"
	"github.com/argenova/mesai-ai/internal/retrieval"
	"github.com/argenova/mesai-ai/internal/store"
	"github.com/argenova/mesai-ai/internal/vector"
)

// fakeLogs is an in-memory LogStore.
type fakeLogs struct {
	mu      sync.Mutex
	logs    map[string]*models.ConversationLog
	order   []string
	pingErr error
}

func newFakeLogs() *fakeLogs {
	return &fakeLogs{logs: make(map[string]*models.ConversationLog)}
}

func (f *fakeLogs) CreateLog(_ context.Context, id, category string, messages []models.Message, duration float64) (*models.ConversationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	log := &models.ConversationLog{
		ID:        surrealmodels.RecordID{Table: "log", ID: id},
		Messages:  messages,
		Duration:  duration,
		Category:  category,
		CreatedAt: time.Now(),
	}
	f.logs[id] = log
	f.order = append(f.order, id)
	return log, nil
}

func (f *fakeLogs) AppendExchange(_ context.Context, id string, messages []models.Message, duration float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	log, ok := f.logs[id]
	if !ok {
		return store.ErrNotFound
	}
	log.Messages = append(log.Messages, messages...)
	log.Duration += duration
	return nil
}

func (f *fakeLogs) ListLogs(_ context.Context, limit, page int) ([]models.ConversationLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.ConversationLog
	start := (page - 1) * limit
	for i := start; i < len(f.order) && len(out) < limit; i++ {
		out = append(out, *f.logs[f.order[i]])
	}
	return out, len(f.order), nil
}

func (f *fakeLogs) SetFeedback(_ context.Context, id, feedback string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	log, ok := f.logs[id]
	if !ok {
		return store.ErrNotFound
	}
	log.Feedback = &feedback
	return nil
}

func (f *fakeLogs) MarkTraining(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	log, ok := f.logs[id]
	if !ok {
		return store.ErrNotFound
	}
	log.IsTrainingExample = true
	return nil
}

func (f *fakeLogs) TrainingLogs(context.Context, int) ([]models.ConversationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.ConversationLog
	for _, id := range f.order {
		if f.logs[id].IsTrainingExample {
			out = append(out, *f.logs[id])
		}
	}
	return out, nil
}

func (f *fakeLogs) Ping(context.Context) error { return f.pingErr }

func (f *fakeLogs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logs)
}

func (f *fakeLogs) get(id string) *models.ConversationLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logs[id]
}

// fakeVectors is an in-memory VectorStore.
type fakeVectors struct {
	mu       sync.Mutex
	points   map[string]vector.Payload
	cleared  int
	healthy  bool
	upsertOK bool
}

func newFakeVectors() *fakeVectors {
	return &fakeVectors{points: make(map[string]vector.Payload), healthy: true, upsertOK: true}
}

func (f *fakeVectors) EnsureCollection(context.Context) bool { return f.healthy }

func (f *fakeVectors) Upsert(_ context.Context, id string, _ []float32, payload vector.Payload) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.upsertOK {
		return false
	}
	f.points[id] = payload
	return true
}

func (f *fakeVectors) Search(context.Context, []float32, int) []vector.Hit { return nil }

func (f *fakeVectors) ScrollAll(context.Context, int) []vector.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []vector.Point
	for range f.points {
		out = append(out, vector.Point{})
	}
	return out
}

func (f *fakeVectors) Clear(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.points = make(map[string]vector.Payload)
	return f.healthy
}

func (f *fakeVectors) Info(context.Context) map[string]any {
	if !f.healthy {
		return nil
	}
	return map[string]any{"status": "green"}
}

func (f *fakeVectors) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points)
}

func (f *fakeVectors) payloads() []vector.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]vector.Payload, 0, len(f.points))
	for _, p := range f.points {
		out = append(out, p)
	}
	return out
}

// fakeEmbedder returns a constant vector.
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) Dimension() int { return 3 }

// fakeModel returns scripted generations.
type fakeModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	tokens  []string
	prompts []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeModel) GenerateStream(_ context.Context, prompt string, emit func(string) error) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	var full string
	for _, tok := range f.tokens {
		if err := emit(tok); err != nil {
			return "", err
		}
		full += tok
	}
	return full, nil
}

func (f *fakeModel) Model() string { return "fake-model" }

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeRetriever returns fixed examples.
type fakeRetriever struct {
	examples []models.Example
}

func (f *fakeRetriever) FindSimilar(context.Context, string) []models.Example { return f.examples }

// fakeSummarizer returns a fixed blob.
type fakeSummarizer struct {
	blob string
}

func (f *fakeSummarizer) Summarize(context.Context, []models.Example) string { return f.blob }

// testEnv bundles the fakes behind a ready Service.
type testEnv struct {
	svc     *Service
	logs    *fakeLogs
	vectors *fakeVectors
	model   *fakeModel
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		logs:    newFakeLogs(),
		vectors: newFakeVectors(),
		model:   &fakeModel{reply: "analiz tamam", tokens: []string{"ana", "liz"}},
	}

	env.svc = New(Deps{
		Logs:     env.logs,
		Vectors:  env.vectors,
		Embedder: &fakeEmbedder{},
		Model:    env.model,
		Retriever: &fakeRetriever{examples: []models.Example{
			{Prompt: "geçmiş soru", Response: "geçmiş yanıt"},
		}},
		Summarizer: &fakeSummarizer{blob: "özet bağlam"},
		Static: retrieval.NewStaticExamples([]models.Example{
			{Prompt: "kurgu bir", Response: "yanıt bir"},
			{Prompt: "kurgu iki", Response: "yanıt iki"},
			{Prompt: "kurgu üç", Response: "yanıt üç"},
		}),
		Category: "weekly_work_hours",
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	})
	return env
}
