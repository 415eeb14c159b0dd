package models

import "fmt"

// Example is a prompt/response pair used as retrieval context.
// It is either extracted from a logged exchange, read back from a vector
// payload, or taken from the curated training corpus.
type Example struct {
	Prompt   string `json:"prompt" yaml:"prompt"`
	Response string `json:"response" yaml:"response"`
}

// Payload types stored alongside vectors.
const (
	PayloadTypeExchange        = "exchange"
	PayloadTypeTrainingExample = "training_example"
	PayloadTypeEmployee        = "employee"
)

// EmployeeRecord is a grouped per-employee set of weekly work-hour rows
// parsed from an uploaded spreadsheet.
type EmployeeRecord struct {
	Name       string           `json:"isim"`
	TotalHours []int            `json:"toplam_mesai"`
	DateRanges []string         `json:"tarih_araligi"`
	DailyHours []map[string]int `json:"gunluk_mesai"`
}

// IdentityText returns the text embedded to index this employee.
func (e EmployeeRecord) IdentityText() string {
	s := e.Name
	for i, r := range e.DateRanges {
		s += " " + r
		if i < len(e.TotalHours) {
			s += fmt.Sprintf(" %d saat", e.TotalHours[i])
		}
	}
	return s
}
