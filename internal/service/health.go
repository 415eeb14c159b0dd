package service

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ComponentHealth reports one dependency's reachability.
type ComponentHealth struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Health is the aggregate health report.
type Health struct {
	Status    string          `json:"status"`
	Database  ComponentHealth `json:"database"`
	Vectors   ComponentHealth `json:"vectors"`
	Model     ComponentHealth `json:"model"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// CheckHealth probes the log store, the vector store and the model backend.
// Status is "ok" only when every dependency answers; a degraded service still
// reports per-component detail so operators can see what is down.
func (s *Service) CheckHealth(ctx context.Context) *Health {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	h := &Health{CheckedAt: time.Now().UTC()}

	if err := s.logs.Ping(ctx); err != nil {
		h.Database.Error = err.Error()
	} else {
		h.Database.OK = true
	}

	if info := s.vectors.Info(ctx); info != nil {
		h.Vectors.OK = true
	} else {
		h.Vectors.Error = "vector store unreachable"
	}

	if err := s.pingModelBackend(ctx); err != nil {
		h.Model.Error = err.Error()
	} else {
		h.Model.OK = true
	}

	h.Status = "degraded"
	if h.Database.OK && h.Vectors.OK && h.Model.OK {
		h.Status = "ok"
	}
	return h
}

// pingModelBackend checks the Ollama HTTP surface. When the service runs
// against a hosted provider there is no local backend to probe, so an empty
// URL counts as healthy.
func (s *Service) pingModelBackend(ctx context.Context) error {
	if s.ollamaURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ollamaURL+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("model backend returned status %d", resp.StatusCode)
	}
	return nil
}
