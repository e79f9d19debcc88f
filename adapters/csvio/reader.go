// Package csvio parses delimited text into record views. The profiling
// engine never sees raw text; this adapter is the boundary where strings
// become typed cells.
package csvio

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"goprofile/domain/profile"
	"goprofile/domain/record"
	"goprofile/internal/errors"
)

// Reader parses CSV text into record views
type Reader struct{}

// NewReader creates a CSV reader
func NewReader() *Reader {
	return &Reader{}
}

// Parse converts CSV text into a record view. The first row is the header.
// Delimiter-level problems (bad delimiter, unreadable header) are fatal;
// malformed data rows are skipped and counted in the returned error count.
// Empty fields become null cells; fields that parse as finite floats
// become numeric cells.
func (r *Reader) Parse(input string, opts profile.Options) (*record.View, int, error) {
	delimiter, err := delimiterRune(opts.Delimiter)
	if err != nil {
		return nil, 0, err
	}

	cr := csv.NewReader(strings.NewReader(input))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1 // row-length errors are handled per row
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, errors.ParseError("could not read CSV header", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var (
		rows      [][]record.Cell
		rowErrors int
	)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors++
			continue
		}
		if len(fields) != len(columns) {
			// encoding/csv skips blank lines on its own; anything else
			// with the wrong width is a malformed row
			rowErrors++
			continue
		}
		row := make([]record.Cell, len(fields))
		for i, field := range fields {
			row[i] = coerce(field)
		}
		rows = append(rows, row)
	}

	view, err := record.New(columns, rows)
	if err != nil {
		return nil, rowErrors, errors.ParseError("invalid CSV structure", err)
	}
	return view, rowErrors, nil
}

// coerce maps a raw field to its cell variant
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

// delimiterRune validates the delimiter option: exactly one rune, and not
// a character csv cannot delimit on
func delimiterRune(delimiter string) (rune, error) {
	if delimiter == "" {
		return ',', nil
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, errors.ValidationError("delimiter must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, errors.ValidationError("invalid delimiter character")
	}
	return r, nil
}
