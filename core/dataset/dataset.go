package dataset

import (
	"fmt"
)

// Schema is the ordered list of column names shared by every row of a dataset.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema creates a schema from an ordered list of column names.
// Column names must be non-empty and unique.
func NewSchema(columns []string) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema requires at least one column")
	}
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}
	return &Schema{columns: append([]string(nil), columns...), index: index}, nil
}

// Columns returns the column names in declaration order.
func (s *Schema) Columns() []string {
	return s.columns
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Index returns the position of a column, or false if it is not declared.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Has reports whether the column is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Dataset is an immutable table: a schema plus rows of positional string
// values. Nulls arrive from upstream sources as empty strings (or the literal
// text "null"); how they compare is the engine's concern, not the dataset's.
type Dataset struct {
	schema *Schema
	rows   [][]string
}

// New creates a dataset. Every row must carry exactly one value per schema
// column; short or oversized rows are rejected here rather than silently
// padded or truncated.
func New(schema *Schema, rows [][]string) (*Dataset, error) {
	if schema == nil {
		return nil, fmt.Errorf("dataset requires a schema")
	}
	for i, row := range rows {
		if len(row) != schema.Len() {
			return nil, fmt.Errorf("row %d has %d values, schema has %d columns", i, len(row), schema.Len())
		}
	}
	return &Dataset{schema: schema, rows: rows}, nil
}

// Schema returns the dataset's schema.
func (d *Dataset) Schema() *Schema {
	return d.schema
}

// Headers returns the column names in declaration order.
func (d *Dataset) Headers() []string {
	return d.schema.Columns()
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// At returns the value at a row and column position. Bounds are the caller's
// responsibility, same as slice indexing.
func (d *Dataset) At(row, col int) string {
	return d.rows[row][col]
}

// Value looks a value up by column name. The second return is false when the
// column is not part of this dataset's schema.
func (d *Dataset) Value(row int, column string) (string, bool) {
	i, ok := d.schema.Index(column)
	if !ok {
		return "", false
	}
	return d.rows[row][i], true
}

// RowMap returns one row as a column-name-keyed map copy.
func (d *Dataset) RowMap(row int) map[string]string {
	m := make(map[string]string, d.schema.Len())
	for i, name := range d.schema.Columns() {
		m[name] = d.rows[row][i]
	}
	return m
}
