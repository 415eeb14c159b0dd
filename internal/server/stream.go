package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/argenova/mesai-ai/internal/service"
)

// streamEvent is one SSE data frame. Every frame carries a type; the terminal
// frame is either "done" or "error".
type streamEvent struct {
	Type     string  `json:"type"`
	Content  string  `json:"content,omitempty"`
	Error    string  `json:"error,omitempty"`
	LogID    string  `json:"logId,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// handleChatStream streams model tokens over SSE. Validation failures are
// rejected as plain JSON before any stream bytes go out; once streaming has
// started, failures arrive as a terminal error frame instead.
func (s *Server) handleChatStream(c *gin.Context) {
	var req service.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": service.ErrEmptyPrompt.Error()})
		return
	}

	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	write := func(ev streamEvent) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	result, err := s.svc.ChatStream(c.Request.Context(), req, func(token string) error {
		return write(streamEvent{Type: "token", Content: token})
	})
	if err != nil {
		_ = c.Error(err)
		_ = write(streamEvent{Type: "error", Error: err.Error()})
		return
	}

	_ = write(streamEvent{Type: "done", LogID: result.LogID, Duration: result.Duration})
}
