package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into the first sheet and returns the xlsx bytes.
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []any{"isim", "toplam_mesai", "tarih_araligi", "gunluk_mesai"}

func TestParseEmployeesGroupsByName(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		header,
		{"Ali", "42", "2024-07-01/2024-07-07", `{"pazartesi": 8, "sali": 9}`},
		{"Ayşe", "38", "2024-07-01/2024-07-07", `{"pazartesi": 8}`},
		{"ali", "40", "2024-07-08/2024-07-14", `{"cuma": 7}`},
	})

	records, err := ParseEmployees(buf)
	require.NoError(t, err)
	require.Len(t, records, 2, "rows with the same name collapse into one record")

	ali := records[0]
	assert.Equal(t, "ali", ali.Name)
	assert.Equal(t, []int{42, 40}, ali.TotalHours)
	assert.Equal(t, []string{"2024-07-01/2024-07-07", "2024-07-08/2024-07-14"}, ali.DateRanges)
	require.Len(t, ali.DailyHours, 2)
	assert.Equal(t, 8, ali.DailyHours[0]["pazartesi"])
	assert.Equal(t, 7, ali.DailyHours[1]["cuma"])

	assert.Equal(t, "ayşe", records[1].Name)
}

func TestParseEmployeesMissingColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"isim", "toplam_mesai", "tarih_araligi"},
		{"Ali", "42", "2024-07-01/2024-07-07"},
	})

	_, err := ParseEmployees(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gunluk_mesai")
}

func TestParseEmployeesMissingRequiredCell(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		header,
		{"Ali", "42", "2024-07-01/2024-07-07", "{}"},
		{"", "38", "2024-07-01/2024-07-07", "{}"},
	})

	_, err := ParseEmployees(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseEmployeesPythonDictCell(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		header,
		{"Ali", "42", "2024-07-01/2024-07-07", `{'pazartesi': 8, 'sali': 9.0}`},
	})

	records, err := ParseEmployees(buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 8, records[0].DailyHours[0]["pazartesi"])
	assert.Equal(t, 9, records[0].DailyHours[0]["sali"])
}

func TestParseEmployeesUnparseableDailyHours(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		header,
		{"Ali", "42", "2024-07-01/2024-07-07", "çarşamba sekiz saat"},
	})

	records, err := ParseEmployees(buf)
	require.NoError(t, err)
	assert.Empty(t, records[0].DailyHours[0], "unparseable cell degrades to an empty map")
}

func TestParseEmployeesNoDataRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{header})

	_, err := ParseEmployees(buf)
	assert.Error(t, err)
}

func TestNormalizeDateRange(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-07-01/2024-07-07", "2024-07-01/2024-07-07"},
		{"01-07-2024/07-07-2024", "2024-07-01/2024-07-07"},
		{"01.07.2024/07.07.2024", "2024-07-01/2024-07-07"},
		{"temmuz ilk hafta", "temmuz ilk hafta"},
		{"2024-07-01", "2024-07-01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDateRange(tt.in), tt.in)
	}
}
