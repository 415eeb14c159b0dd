// Package upload parses employee work-hour spreadsheets.
package upload

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/argenova/mesai-ai/internal/models"
	"github.com/xuri/excelize/v2"
)

// requiredColumns are the headers an uploaded sheet must carry.
var requiredColumns = []string{"isim", "toplam_mesai", "tarih_araligi", "gunluk_mesai"}

// ParseEmployees reads the first sheet of an xlsx workbook and groups rows by
// normalized employee name, preserving first-seen order. Each employee ends
// up with parallel slices of weekly totals, date ranges and daily-hour maps.
func ParseEmployees(r io.Reader) ([]models.EmployeeRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]*models.EmployeeRecord)
	var order []string

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		name := strings.ToLower(strings.TrimSpace(cell(row, cols["isim"])))
		totalRaw := strings.TrimSpace(cell(row, cols["toplam_mesai"]))
		dateRaw := strings.TrimSpace(cell(row, cols["tarih_araligi"]))
		if name == "" || totalRaw == "" || dateRaw == "" {
			return nil, fmt.Errorf("row %d: missing name, total hours or date range", rowNum)
		}

		total, err := parseHours(totalRaw)
		if err != nil {
			return nil, fmt.Errorf("row %d: total hours %q: %w", rowNum, totalRaw, err)
		}

		rec, ok := grouped[name]
		if !ok {
			rec = &models.EmployeeRecord{Name: name}
			grouped[name] = rec
			order = append(order, name)
		}
		rec.TotalHours = append(rec.TotalHours, total)
		rec.DateRanges = append(rec.DateRanges, NormalizeDateRange(dateRaw))
		rec.DailyHours = append(rec.DailyHours, parseDailyHours(cell(row, cols["gunluk_mesai"])))
	}

	out := make([]models.EmployeeRecord, 0, len(order))
	for _, name := range order {
		out = append(out, *grouped[name])
	}
	return out, nil
}

// headerIndex maps required column names to their positions.
func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseHours(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// NormalizeDateRange standardizes "start/end" ranges to YYYY-MM-DD on both
// sides, accepting DD-MM-YYYY and DD.MM.YYYY inputs. Unrecognized values are
// returned unchanged.
func NormalizeDateRange(raw string) string {
	parts := strings.Split(strings.ReplaceAll(raw, ".", "-"), "/")
	if len(parts) != 2 {
		return raw
	}
	return normalizeDate(parts[0]) + "/" + normalizeDate(parts[1])
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// parseDailyHours reads the per-day map cell. Sheets exported from older
// tooling carry Python-style dict literals with single quotes, so those are
// rewritten to JSON before parsing. Unparseable cells become an empty map.
func parseDailyHours(s string) map[string]int {
	s = strings.TrimSpace(s)
	if s == "" {
		return map[string]int{}
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &raw); err != nil {
		return map[string]int{}
	}

	out := make(map[string]int, len(raw))
	for day, hours := range raw {
		out[day] = int(hours)
	}
	return out
}
