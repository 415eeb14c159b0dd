package service

import (
	"context"
	"fmt"
	"time"

	"github.com/argenova/mesai-ai/internal/models"
	"github.com/argenova/mesai-ai/internal/vector"
)

// PopulateResult reports the outcome of a bulk vector load.
type PopulateResult struct {
	Added  int      `json:"added"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// PopulateTrainingExamples embeds the curated corpus and stores every example
// in the vector collection tagged as a training example. Per-item failures are
// collected; the load continues past them.
func (s *Service) PopulateTrainingExamples(ctx context.Context) *PopulateResult {
	result := &PopulateResult{}
	if !s.vectors.EnsureCollection(ctx) {
		result.Errors = append(result.Errors, "vector collection unavailable")
		return result
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, ex := range s.static.All() {
		vec, err := s.embedder.Embed(ctx, ex.Prompt)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("example %d: %v", i, err))
			continue
		}

		id := fmt.Sprintf("training_example:%d", i)
		ok := s.vectors.Upsert(ctx, id, vec, vector.Payload{
			"prompt":    ex.Prompt,
			"response":  ex.Response,
			"category":  s.category,
			"type":      models.PayloadTypeTrainingExample,
			"timestamp": now,
		})
		if !ok {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("example %d: upsert rejected", i))
			continue
		}
		result.Added++
	}

	s.logger.Info("training examples populated", "added", result.Added, "failed", result.Failed)
	return result
}

// sampleNames seed the generated employee records.
var sampleNames = []string{
	"Ali", "Veli", "Ayşe", "Mehmet", "Zeynep", "Ahmet",
	"Fatma", "Kemal", "Elif", "Burak", "Can", "Deniz",
	"Ece", "Fırat", "Gizem", "Hakan", "İrem", "Jale",
}

var sampleDateRanges = []string{
	"2024-07-01/2024-07-07",
	"2024-07-08/2024-07-14",
	"2024-07-15/2024-07-21",
	"2024-07-22/2024-07-28",
	"2024-07-29/2024-08-04",
	"2024-08-05/2024-08-11",
}

var sampleWeekdays = []string{"pazartesi", "sali", "carsamba", "persembe", "cuma"}

// GenerateSampleEmployees builds deterministic demo employee records. Totals
// land in the 30-50 hour band and daily hours in the 6-9 band, with the last
// weekday absorbing the remainder.
func GenerateSampleEmployees() []models.EmployeeRecord {
	records := make([]models.EmployeeRecord, 0, len(sampleNames))
	for i, name := range sampleNames {
		total := 30 + (i*2)%20

		daily := make(map[string]int, len(sampleWeekdays))
		remaining := total
		for j, day := range sampleWeekdays[:len(sampleWeekdays)-1] {
			hours := 6 + (i+j)%4
			daily[day] = hours
			remaining -= hours
		}
		if remaining <= 0 {
			remaining = 6
		}
		daily[sampleWeekdays[len(sampleWeekdays)-1]] = remaining

		records = append(records, models.EmployeeRecord{
			Name:       name,
			TotalHours: []int{total},
			DateRanges: []string{sampleDateRanges[i%len(sampleDateRanges)]},
			DailyHours: []map[string]int{daily},
		})
	}
	return records
}

// PopulateVectors loads the generated demo employee set into the vector
// collection.
func (s *Service) PopulateVectors(ctx context.Context) *PopulateResult {
	result := &PopulateResult{}
	if !s.vectors.EnsureCollection(ctx) {
		result.Errors = append(result.Errors, "vector collection unavailable")
		return result
	}

	for i, rec := range GenerateSampleEmployees() {
		if !s.indexEmployee(ctx, fmt.Sprintf("sample:%d", i), rec, result) {
			continue
		}
		result.Added++
	}

	s.logger.Info("sample vectors populated", "added", result.Added, "failed", result.Failed)
	return result
}

// UploadEmployees replaces the employee vectors with the uploaded records.
// The collection is cleared first so stale rows from a previous upload do not
// linger next to the new ones.
func (s *Service) UploadEmployees(ctx context.Context, records []models.EmployeeRecord) *PopulateResult {
	result := &PopulateResult{}
	if !s.vectors.EnsureCollection(ctx) {
		result.Errors = append(result.Errors, "vector collection unavailable")
		return result
	}
	if !s.vectors.Clear(ctx) {
		result.Errors = append(result.Errors, "could not clear previous employee vectors")
		return result
	}

	for i, rec := range records {
		if !s.indexEmployee(ctx, fmt.Sprintf("employee:%d", i), rec, result) {
			continue
		}
		result.Added++
	}

	s.logger.Info("employee upload indexed", "added", result.Added, "failed", result.Failed)
	return result
}

// indexEmployee embeds one employee identity and stores it. Failures are
// recorded on result and reported as false.
func (s *Service) indexEmployee(ctx context.Context, id string, rec models.EmployeeRecord, result *PopulateResult) bool {
	vec, err := s.embedder.Embed(ctx, rec.IdentityText())
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rec.Name, err))
		return false
	}

	ok := s.vectors.Upsert(ctx, id, vec, vector.Payload{
		"isim":          rec.Name,
		"toplam_mesai":  rec.TotalHours,
		"tarih_araligi": rec.DateRanges,
		"gunluk_mesai":  rec.DailyHours,
		"type":          models.PayloadTypeEmployee,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
	if !ok {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: upsert rejected", rec.Name))
		return false
	}
	return true
}

// ListVectors returns up to limit stored points without their vectors.
func (s *Service) ListVectors(ctx context.Context, limit int) []vector.Point {
	if limit <= 0 {
		limit = 100
	}
	points := s.vectors.ScrollAll(ctx, limit)
	if points == nil {
		return []vector.Point{}
	}
	return points
}

// ClearVectors removes every point from the vector collection.
func (s *Service) ClearVectors(ctx context.Context) bool {
	return s.vectors.Clear(ctx)
}

// VectorStatus returns the raw collection info, or nil when the vector store
// is unreachable.
func (s *Service) VectorStatus(ctx context.Context) map[string]any {
	return s.vectors.Info(ctx)
}
