package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/argenova/mesai-ai/internal/service"
	"github.com/argenova/mesai-ai/internal/store"
	"github.com/argenova/mesai-ai/internal/upload"
)

// maxUploadSize bounds uploaded spreadsheets.
const maxUploadSize = 10 << 20

// writeError maps pipeline errors onto HTTP status codes. Validation problems
// are 400, a missing log id is 404, everything upstream surfaces as 500 with
// the categorized message in details.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, service.ErrInvalidFeedback):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "AI işlem hatası",
			"details": err.Error(),
		})
	}
}

func (s *Server) handleQuery(c *gin.Context) {
	var req service.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	resp, err := s.svc.Query(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// chatRequest accepts question as an alias for prompt.
type chatRequest struct {
	Question string `json:"question"`
	service.QueryRequest
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.Prompt == "" {
		req.Prompt = req.Question
	}

	resp, err := s.svc.Chat(c.Request.Context(), req.QueryRequest)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	history, err := s.svc.History(c.Request.Context(), limit, page)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

type feedbackRequest struct {
	LogID    string `json:"logId"`
	Feedback string `json:"feedback"`
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LogID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "logId and feedback are required"})
		return
	}

	if err := s.svc.Feedback(c.Request.Context(), req.LogID, req.Feedback); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type markTrainingRequest struct {
	LogID string `json:"logId"`
}

func (s *Server) handleMarkTraining(c *gin.Context) {
	var req markTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LogID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "logId is required"})
		return
	}

	if err := s.svc.MarkTraining(c.Request.Context(), req.LogID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleTrainingExamples(c *gin.Context) {
	examples, err := s.svc.TrainingExamples(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, examples)
}

func (s *Server) handlePopulateTrainingExamples(c *gin.Context) {
	result := s.svc.PopulateTrainingExamples(c.Request.Context())
	c.JSON(populateStatus(result), result)
}

func (s *Server) handlePopulateVectors(c *gin.Context) {
	result := s.svc.PopulateVectors(c.Request.Context())
	c.JSON(populateStatus(result), result)
}

// populateStatus returns 200 when anything was loaded, 502 when nothing was.
func populateStatus(result *service.PopulateResult) int {
	if result.Added == 0 && len(result.Errors) > 0 {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func (s *Server) handleUploadEmployees(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	records, err := upload.ParseEmployees(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result := s.svc.UploadEmployees(c.Request.Context(), records)
	c.JSON(populateStatus(result), gin.H{
		"success":   result.Added > 0,
		"employees": len(records),
		"added":     result.Added,
		"failed":    result.Failed,
		"errors":    result.Errors,
	})
}

func (s *Server) handleListVectors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	points := s.svc.ListVectors(c.Request.Context(), limit)
	c.JSON(http.StatusOK, gin.H{"count": len(points), "points": points})
}

func (s *Server) handleVectorStatus(c *gin.Context) {
	info := s.svc.VectorStatus(c.Request.Context())
	if info == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "vector store unreachable"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleClearVectors(c *gin.Context) {
	if !s.svc.ClearVectors(c.Request.Context()) {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "vector store rejected the delete"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleHealth(c *gin.Context) {
	health := s.svc.CheckHealth(c.Request.Context())

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Metrics().Snapshot())
}
