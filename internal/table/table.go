// Package table provides a small header-indexed view over CSV files, enough
// for the read-only aggregations the logistics tools perform.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrEmpty is returned when a CSV input has no header row.
var ErrEmpty = errors.New("table: empty csv")

// Table is an immutable set of rows sharing one header.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// Load reads the CSV file at path. A missing file yields an error matching
// os.ErrNotExist.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// Parse reads a CSV document whose first record is the header.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		header[i] = col

		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		rows = append(rows, rec)
	}

	return &Table{header: header, index: index, rows: rows}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// Columns returns the header.
func (t *Table) Columns() []string { return append([]string{}, t.header...) }

// Has reports whether every col is a column of t.
func (t *Table) Has(cols ...string) bool {
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			return false
		}
	}

	return true
}

// Row returns row i.
func (t *Table) Row(i int) Row { return Row{t: t, values: t.rows[i]} }

// Rows returns all rows in file order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}

	return out
}

func (t *Table) derive(rows [][]string) *Table {
	return &Table{header: t.header, index: t.index, rows: rows}
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	rows := make([][]string, 0, len(t.rows))

	for _, r := range t.rows {
		if keep(Row{t: t, values: r}) {
			rows = append(rows, r)
		}
	}

	return t.derive(rows)
}

// Where keeps the rows whose col equals one of values.
func (t *Table) Where(col string, values ...string) *Table {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	return t.Filter(func(r Row) bool { return r.Has(col) && set[r.String(col)] })
}

// Head returns at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n >= len(t.rows) {
		return t
	}

	if n < 0 {
		n = 0
	}

	return t.derive(t.rows[:n])
}

// SortBy returns the rows ordered by the numeric value of col, descending
// when desc is set. Rows without a number sort last; ties keep file order.
func (t *Table) SortBy(col string, desc bool) *Table {
	rows := append([][]string{}, t.rows...)

	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := Row{t: t, values: rows[i]}.Float(col)
		b, bok := Row{t: t, values: rows[j]}.Float(col)

		switch {
		case !aok || !bok:
			return aok && !bok
		case desc:
			return a > b
		default:
			return a < b
		}
	})

	return t.derive(rows)
}

// Count is one entry of a value count.
type Count struct {
	Value string
	N     int
}

// CountBy counts the distinct values of col, ordered by count descending
// then by first appearance. Empty cells are skipped.
func (t *Table) CountBy(col string) []Count {
	var (
		order  []string
		counts = map[string]int{}
	)

	for _, r := range t.Rows() {
		v := r.String(col)
		if v == "" {
			continue
		}

		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}

		counts[v]++
	}

	out := make([]Count, 0, len(order))
	for _, v := range order {
		out = append(out, Count{Value: v, N: counts[v]})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].N > out[j].N })

	return out
}

// Unique returns the distinct non-empty values of col in order of first appearance.
func (t *Table) Unique(col string) []string {
	var out []string

	seen := map[string]bool{}
	for _, r := range t.Rows() {
		v := r.String(col)
		if v == "" || seen[v] {
			continue
		}

		seen[v] = true
		out = append(out, v)
	}

	return out
}

// Floats returns the parseable numeric values of col.
func (t *Table) Floats(col string) []float64 {
	out := make([]float64, 0, len(t.rows))

	for _, r := range t.Rows() {
		if v, ok := r.Float(col); ok {
			out = append(out, v)
		}
	}

	return out
}

// Sum adds the numeric values of col. Non-numeric cells are skipped.
func (t *Table) Sum(col string) float64 {
	var s float64
	for _, v := range t.Floats(col) {
		s += v
	}

	return s
}

// Mean averages the numeric values of col. ok is false when there are none.
func (t *Table) Mean(col string) (mean float64, ok bool) {
	vals := t.Floats(col)
	if len(vals) == 0 {
		return 0, false
	}

	return t.Sum(col) / float64(len(vals)), true
}

// Std returns the sample standard deviation of col. ok is false with fewer
// than two values.
func (t *Table) Std(col string) (std float64, ok bool) {
	vals := t.Floats(col)
	if len(vals) < 2 {
		return 0, false
	}

	mean, _ := t.Mean(col)

	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}

	return math.Sqrt(ss / float64(len(vals)-1)), true
}

// Min returns the lexically smallest non-empty value of col.
func (t *Table) Min(col string) string {
	return t.extreme(col, func(a, b string) bool { return a < b })
}

// Max returns the lexically largest non-empty value of col.
func (t *Table) Max(col string) string {
	return t.extreme(col, func(a, b string) bool { return a > b })
}

func (t *Table) extreme(col string, better func(a, b string) bool) string {
	var out string

	for _, v := range t.Unique(col) {
		if out == "" || better(v, out) {
			out = v
		}
	}

	return out
}

// Row is a single record bound to its table header.
type Row struct {
	t      *Table
	values []string
}

// Has reports whether col exists in the header.
func (r Row) Has(col string) bool {
	_, ok := r.t.index[col]
	return ok
}

// String returns the trimmed cell of col, or "" when the column or cell is absent.
func (r Row) String(col string) string {
	i, ok := r.t.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}

	return strings.TrimSpace(r.values[i])
}

// StringOr returns the cell of col or def when it is empty.
func (r Row) StringOr(col, def string) string {
	if v := r.String(col); v != "" {
		return v
	}

	return def
}

// Float parses the cell of col as a number.
func (r Row) Float(col string) (float64, bool) {
	v := r.String(col)
	if v == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}

	return f, true
}

// FloatOr returns the numeric cell of col or def.
func (r Row) FloatOr(col string, def float64) float64 {
	if f, ok := r.Float(col); ok {
		return f
	}

	return def
}

// Int parses the cell of col as an integer. Values like "12.0" are accepted.
func (r Row) Int(col string) (int64, bool) {
	f, ok := r.Float(col)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}

	return int64(f), true
}

// Bool reports whether the cell of col holds a truthy value
// (true, yes, y, 1; case-insensitive).
func (r Row) Bool(col string) bool {
	switch strings.ToLower(r.String(col)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// Map returns the row as column -> cell.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.t.header))
	for _, col := range r.t.header {
		m[col] = r.String(col)
	}

	return m
}
