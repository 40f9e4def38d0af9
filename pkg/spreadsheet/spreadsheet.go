// Package spreadsheet inspects uploaded Excel workbooks before they are
// forwarded for import.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnreadable = errors.New("spreadsheet: workbook cannot be read")
	ErrEmpty      = errors.New("spreadsheet: workbook has no data rows")
)

// MissingColumnsError lists required header columns absent from a workbook.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "spreadsheet: missing columns: " + strings.Join(e.Columns, ", ")
}

// Report describes the first sheet of an inspected workbook.
type Report struct {
	Sheet   string
	Headers []string
	Rows    int
}

// Inspect reads the first sheet of the workbook in r and checks that it has a
// header row containing every required column and at least one data row.
// Header names are compared case-insensitively, with spaces and dashes
// treated as underscores.
func Inspect(r io.Reader, required []string) (*Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	report := &Report{Sheet: sheet}
	header := -1
	for i, row := range rows {
		if !blank(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, ErrEmpty
	}

	present := make(map[string]bool)
	for _, cell := range rows[header] {
		name := strings.TrimSpace(cell)
		report.Headers = append(report.Headers, name)
		present[normalize(name)] = true
	}

	var missing []string
	for _, col := range required {
		if !present[normalize(col)] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return report, &MissingColumnsError{Columns: missing}
	}

	for _, row := range rows[header+1:] {
		if !blank(row) {
			report.Rows++
		}
	}
	if report.Rows == 0 {
		return report, ErrEmpty
	}
	return report, nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
