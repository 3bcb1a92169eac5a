// Package sheet reads rename targets from spreadsheet columns.
package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoWorksheet is returned for workbooks without any worksheet.
	ErrNoWorksheet = errors.New("workbook has no worksheet")

	// ErrInvalidColumn is returned for malformed column letters.
	ErrInvalidColumn = errors.New("invalid column letter")

	// ErrInvalidStartRow is returned for start rows below 1.
	ErrInvalidStartRow = errors.New("start row must be 1 or greater")
)

// ColumnIndex converts a column letter (A, B, ..., Z, AA, ...) to a 0-based
// index.
func ColumnIndex(column string) (int, error) {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidColumn)
	}

	for _, r := range column {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumn, column)
		}
	}

	n, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidColumn, column, err)
	}

	return n - 1, nil
}

// ReadColumn returns the non-blank cell values of one column from the first
// worksheet, starting at the 1-indexed startRow. Values keep worksheet order;
// blank cells and rows shorter than the column are skipped. Numeric cells
// come back in their formatted string form.
func ReadColumn(path string, startRow int, column string) ([]string, error) {
	if startRow < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStartRow, startRow)
	}

	col, err := ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only workbook.

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoWorksheet, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}

	var values []string

	for i := startRow - 1; i < len(rows); i++ {
		if col >= len(rows[i]) {
			continue
		}

		v := strings.TrimSpace(rows[i][col])
		if v == "" {
			continue
		}

		values = append(values, v)
	}

	return values, nil
}
