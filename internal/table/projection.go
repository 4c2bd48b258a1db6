package table

import "fmt"

// Shape selects how a Table is turned into JSON
type Shape int

const (
	// ShapeTable renders every row as an object
	ShapeTable Shape = iota
	// ShapeObject renders the first row as an object
	ShapeObject
	// ShapeColumn renders one column across all rows as a bare array
	ShapeColumn
)

// Projection is a Shape plus, for ShapeColumn, the column ordinal
type Projection struct {
	Shape  Shape
	Column int
}

func AsTable() Projection { return Projection{Shape: ShapeTable} }
func AsObject() Projection { return Projection{Shape: ShapeObject} }
func AsColumn(n int) Projection { return Projection{Shape: ShapeColumn, Column: n} }

func (p Projection) String() string {
	switch p.Shape {
	case ShapeTable:
		return "table"
	case ShapeObject:
		return "object"
	case ShapeColumn:
		return fmt.Sprintf("column(%d)", p.Column)
	default:
		return "unknown"
	}
}

// Project renders t. Table yields []any of map[string]any, Object yields
// map[string]any (nil when t is empty), Column yields []any.
func (t *Table) Project(p Projection) any {
	switch p.Shape {
	case ShapeObject:
		if t.Empty() {
			return nil
		}

		return t.rowObject(t.Rows[0])
	case ShapeColumn:
		values := make([]any, 0, len(t.Rows))
		for _, row := range t.Rows {
			if p.Column < 0 || p.Column >= len(row) {
				values = append(values, nil)
				continue
			}

			values = append(values, row[p.Column].Interface())
		}

		return values
	default:
		objects := make([]any, 0, len(t.Rows))
		for _, row := range t.Rows {
			objects = append(objects, t.rowObject(row))
		}

		return objects
	}
}

// Object renders the first row as a map; nil when t is empty
func (t *Table) Object() map[string]any {
	if t.Empty() {
		return nil
	}

	return t.rowObject(t.Rows[0])
}

func (t *Table) rowObject(row Row) map[string]any {
	obj := make(map[string]any, len(t.Schema))
	for i, col := range t.Schema {
		if i < len(row) {
			obj[col.Field] = row[i].Interface()
		}
	}

	return obj
}
