// Package testkit generates synthetic tabular fixtures for tests: CSV text
// and record views with controllable size, missingness, and correlation.
package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"goprofile/domain/record"
)

// GeneratorConfig controls the shape of a synthetic dataset
type GeneratorConfig struct {
	Rows        int
	MissingRate float64 // probability a generated cell is empty
	Seed        int64
	Categories  []string // values for the categorical column
}

// DefaultGeneratorConfig keeps fixtures small and deterministic
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Rows:        200,
		MissingRate: 0.05,
		Seed:        42,
		Categories:  []string{"north", "south", "east", "west"},
	}
}

// Generator produces synthetic datasets with a numeric pair of known
// correlation, an independent numeric column, and a categorical column
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator with the given config
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// CSV renders the dataset as comma-delimited text with a header row.
// Columns: id, value (numeric), double (2*value, perfectly correlated),
// noise (independent numeric), region (categorical).
func (g *Generator) CSV() string {
	var b strings.Builder
	b.WriteString("id,value,double,noise,region\n")
	for i := 0; i < g.config.Rows; i++ {
		value := g.rng.Float64() * 100
		fields := []string{
			strconv.Itoa(i + 1),
			g.maybeMissing(formatFloat(value)),
			g.maybeMissing(formatFloat(value * 2)),
			g.maybeMissing(formatFloat(g.rng.NormFloat64() * 10)),
			g.maybeMissing(g.config.Categories[g.rng.Intn(len(g.config.Categories))]),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// Records renders the dataset in the shape the compare endpoint accepts
func (g *Generator) Records() []map[string]record.Cell {
	records := make([]map[string]record.Cell, 0, g.config.Rows)
	for i := 0; i < g.config.Rows; i++ {
		value := g.rng.Float64() * 100
		records = append(records, map[string]record.Cell{
			"id":     record.Number(float64(i + 1)),
			"value":  record.Number(value),
			"double": record.Number(value * 2),
			"noise":  record.Number(g.rng.NormFloat64() * 10),
			"region": record.String(g.config.Categories[g.rng.Intn(len(g.config.Categories))]),
		})
	}
	return records
}

func (g *Generator) maybeMissing(field string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return field
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// MustView builds a record view from column names and rows, panicking on
// malformed fixtures
func MustView(columns []string, rows [][]record.Cell) *record.View {
	view, err := record.New(columns, rows)
	if err != nil {
		panic(fmt.Sprintf("testkit: bad fixture: %v", err))
	}
	return view
}

// NumericColumn builds a single-column view from float values; NaN markers
// are not supported, use NumericColumnWithNulls for gaps
func NumericColumn(name string, values []float64) *record.View {
	rows := make([][]record.Cell, len(values))
	for i, v := range values {
		rows[i] = []record.Cell{record.Number(v)}
	}
	return MustView([]string{name}, rows)
}

// CSVFromRows joins a header and pre-rendered rows into CSV text
func CSVFromRows(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}
