package table

import "fmt"

// ColumnSpec describes one position of a row. Field is the JSON key; Column
// is the database column written by inserts and is empty for read layouts.
type ColumnSpec struct {
	Ordinal int
	Field   string
	Column  string
	Kind    Kind
	NotNull bool
}

// Schema is an ordered list of column specs
type Schema []ColumnSpec

// Len returns the number of columns
func (s Schema) Len() int {
	return len(s)
}

// Index returns the position of field, or -1
func (s Schema) Index(field string) int {
	for i, c := range s {
		if c.Field == field {
			return i
		}
	}

	return -1
}

// Fields returns the JSON keys in order
func (s Schema) Fields() []string {
	fields := make([]string, len(s))
	for i, c := range s {
		fields[i] = c.Field
	}

	return fields
}

// Row is an ordered list of cells aligned with a Schema
type Row []Value

// Table is a decoded result set
type Table struct {
	Schema Schema
	Rows   []Row
}

// New returns an empty table for schema
func New(schema Schema) *Table {
	return &Table{Schema: schema}
}

// Append adds a row. The row must have exactly one cell per column.
func (t *Table) Append(row Row) error {
	if len(row) != len(t.Schema) {
		return fmt.Errorf("row has %d cells, schema has %d columns", len(row), len(t.Schema))
	}

	t.Rows = append(t.Rows, row)

	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Cell returns the value at row r, column c, or Null when out of range
func (t *Table) Cell(r, c int) Value {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return Null()
	}

	return t.Rows[r][c]
}
