// Package excel reads spreadsheet files into record views for the CLI.
// The HTTP API speaks CSV only; this adapter exists for local workflows
// where the data already lives in a workbook.
package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goprofile/domain/record"
)

// Reader loads the first sheet of an xlsx workbook
type Reader struct {
	filePath string
}

// NewReader creates a reader for the given workbook path
func NewReader(filePath string) *Reader {
	return &Reader{filePath: filePath}
}

// Read loads the workbook's first sheet into a record view. The first row
// is the header; empty cells become null, numeric-looking cells become
// numbers.
func (r *Reader) Read() (*record.View, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	header := rows[0]
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	data := make([][]record.Cell, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make([]record.Cell, len(columns))
		for i := range columns {
			// GetRows trims trailing empty cells, so rows can be short
			if i < len(raw) {
				row[i] = coerce(raw[i])
			} else {
				row[i] = record.Null()
			}
		}
		data = append(data, row)
	}

	return record.New(columns, data)
}

func coerce(field string) record.Cell {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return record.Null()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return record.Number(v)
		}
	}
	return record.String(trimmed)
}
