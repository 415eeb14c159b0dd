package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/argenova/mesai-ai/internal/metrics"
	"github.com/argenova/mesai-ai/internal/models"
	"github.com/argenova/mesai-ai/internal/prompt"
	"github.com/argenova/mesai-ai/internal/store"
	"github.com/argenova/mesai-ai/internal/vector"
)

// QueryRequest is a single analysis request against the work-hour assistant.
type QueryRequest struct {
	Prompt    string `json:"prompt"`
	LogID     string `json:"logId"`
	Role      string `json:"role"`
	Style     string `json:"style"`
	Format    string `json:"format"`
	Length    string `json:"length"`
	SelfCheck bool   `json:"selfCheck"`
}

// QueryResponse carries the reply together with the pipeline trace fields the
// frontend renders for transparency.
type QueryResponse struct {
	Reply             string           `json:"reply"`
	Duration          float64          `json:"duration"`
	LogID             string           `json:"logId"`
	SimilarQueries    int              `json:"similarQueries"`
	SimilarExamples   []models.Example `json:"similarExamples"`
	SummarizedContext string           `json:"summarizedContext"`
	EnhancedPrompt    string           `json:"enhancedPrompt"`
	SelfCheck         string           `json:"selfCheck,omitempty"`
}

// Query runs the full pipeline: retrieve similar exchanges, summarize them,
// compose the enhanced prompt, generate, persist the exchange and index it in
// the background. A generation failure aborts the request and writes no log;
// retrieval and summarization degrade internally and never fail the request.
func (s *Service) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	userPrompt := strings.TrimSpace(req.Prompt)
	if userPrompt == "" {
		return nil, ErrEmptyPrompt
	}

	start := time.Now()

	examples := s.retriever.FindSimilar(ctx, userPrompt)
	contextBlob := s.summarizer.Summarize(ctx, examples)

	enhanced := prompt.Compose(userPrompt, contextBlob, prompt.Options{
		Role:   req.Role,
		Style:  req.Style,
		Format: prompt.ParseFormat(req.Format),
		Length: prompt.ParseLength(req.Length),
	})

	var (
		reply  string
		genErr error
	)
	s.metrics.Time(metrics.OpLLMGenerate, func() {
		reply, genErr = s.model.Generate(ctx, enhanced)
	})
	if genErr != nil {
		return nil, genErr
	}

	duration := time.Since(start).Seconds()

	logID, err := s.persistExchange(ctx, req.LogID, userPrompt, reply, duration)
	if err != nil {
		return nil, err
	}

	go s.indexExchange(context.WithoutCancel(ctx), logID, userPrompt, reply)

	var selfCheck string
	if req.SelfCheck {
		selfCheck = s.selfCheck(ctx, userPrompt, reply)
	}

	return &QueryResponse{
		Reply:             reply,
		Duration:          duration,
		LogID:             logID,
		SimilarQueries:    len(examples),
		SimilarExamples:   examples,
		SummarizedContext: contextBlob,
		EnhancedPrompt:    enhanced,
		SelfCheck:         selfCheck,
	}, nil
}

// ChatResponse is the simplified reply shape of the chat endpoint. The reply
// travels under both answer and response for older frontends.
type ChatResponse struct {
	Success  bool    `json:"success"`
	Answer   string  `json:"answer"`
	Response string  `json:"response"`
	Duration float64 `json:"duration"`
	LogID    string  `json:"logId"`
}

// Chat runs the same pipeline as Query but returns only the reply.
func (s *Service) Chat(ctx context.Context, req QueryRequest) (*ChatResponse, error) {
	resp, err := s.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Success:  true,
		Answer:   resp.Reply,
		Response: resp.Reply,
		Duration: resp.Duration,
		LogID:    resp.LogID,
	}, nil
}

// StreamResult summarizes a completed streaming exchange.
type StreamResult struct {
	Reply    string
	LogID    string
	Duration float64
}

// ChatStream runs the pipeline with token streaming. emit is called for every
// model token; an emit error (typically a dropped client) aborts generation.
// The exchange is persisted and indexed only after streaming completes.
func (s *Service) ChatStream(ctx context.Context, req QueryRequest, emit func(token string) error) (*StreamResult, error) {
	userPrompt := strings.TrimSpace(req.Prompt)
	if userPrompt == "" {
		return nil, ErrEmptyPrompt
	}

	start := time.Now()

	examples := s.retriever.FindSimilar(ctx, userPrompt)
	contextBlob := s.summarizer.Summarize(ctx, examples)

	enhanced := prompt.Compose(userPrompt, contextBlob, prompt.Options{
		Role:   req.Role,
		Style:  req.Style,
		Format: prompt.ParseFormat(req.Format),
		Length: prompt.ParseLength(req.Length),
	})

	var (
		reply  string
		genErr error
	)
	s.metrics.Time(metrics.OpLLMStream, func() {
		reply, genErr = s.model.GenerateStream(ctx, enhanced, emit)
	})
	if genErr != nil {
		return nil, genErr
	}

	duration := time.Since(start).Seconds()

	logID, err := s.persistExchange(ctx, req.LogID, userPrompt, reply, duration)
	if err != nil {
		return nil, err
	}

	go s.indexExchange(context.WithoutCancel(ctx), logID, userPrompt, reply)

	return &StreamResult{Reply: reply, LogID: logID, Duration: duration}, nil
}

// persistExchange appends the exchange to an existing conversation or starts a
// new one. An unknown log id starts a fresh conversation under that id, so a
// client holding a stale id after a data wipe keeps working.
func (s *Service) persistExchange(ctx context.Context, logID, userPrompt, reply string, duration float64) (string, error) {
	now := time.Now().UTC()
	messages := []models.Message{
		{Sender: models.SenderUser, Content: userPrompt, CreatedAt: now},
		{Sender: models.SenderBot, Content: reply, CreatedAt: now},
	}

	logID = strings.TrimSpace(logID)
	if logID == "" {
		logID = uuid.NewString()
	} else {
		err := s.logs.AppendExchange(ctx, logID, messages, duration)
		if err == nil {
			return logID, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("persist conversation: %w", err)
		}
	}

	if _, err := s.logs.CreateLog(ctx, logID, s.category, messages, duration); err != nil {
		return "", fmt.Errorf("persist conversation: %w", err)
	}
	return logID, nil
}

// indexExchange embeds the user prompt and stores it with the reply so future
// prompts can retrieve this exchange. Runs after the response is sent; any
// failure is logged and never surfaced.
func (s *Service) indexExchange(ctx context.Context, logID, userPrompt, reply string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	vec, err := s.embedder.Embed(ctx, userPrompt)
	if err != nil {
		s.logger.Warn("exchange embedding failed, skipping index", "logId", logID, "error", err)
		return
	}

	id := fmt.Sprintf("%s:%d", logID, time.Now().UnixNano())
	ok := s.vectors.Upsert(ctx, id, vec, vector.Payload{
		"prompt":    userPrompt,
		"response":  reply,
		"category":  s.category,
		"type":      models.PayloadTypeExchange,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if !ok {
		s.logger.Warn("exchange indexing failed", "logId", logID)
	}
}

// selfCheck asks the model to verify its own reply. Failures degrade to an
// empty result.
func (s *Service) selfCheck(ctx context.Context, userPrompt, reply string) string {
	instruction := fmt.Sprintf(
		"Aşağıdaki yanıtı soruya göre kontrol et. Hesaplama hatası veya eksik madde varsa kısaca belirt, "+
			"yoksa sadece 'Yanıt tutarlı.' yaz.\n\nSoru:\n%s\n\nYanıt:\n%s", userPrompt, reply)

	check, err := s.model.Generate(ctx, instruction)
	if err != nil {
		s.logger.Warn("self-check generation failed", "error", err)
		return ""
	}
	return strings.TrimSpace(check)
}
