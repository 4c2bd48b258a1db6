// Package assembler executes descriptors against the suppliers database,
// decodes the rows into tables and assembles them into JSON envelopes.
package assembler

import (
	"context"
	"database/sql"

	"github.com/kyleking/supplier-api/internal/errors"
	"github.com/kyleking/supplier-api/internal/logging"
	"github.com/kyleking/supplier-api/internal/query"
	"github.com/kyleking/supplier-api/internal/schema"
	"github.com/kyleking/supplier-api/internal/table"
)

// Querier issues read queries. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Run executes the single query for d and decodes its rows with the
// descriptor's schema.
func Run(ctx context.Context, q Querier, d query.Descriptor) (*table.Table, error) {
	layout := schema.Read(d.Kind())
	if layout.Len() == 0 {
		return nil, errors.Newf(errors.ErrTypeNotImplemented, "no schema for %s", d.Kind())
	}

	text, args, err := statement(d)
	if err != nil {
		return nil, err
	}

	return fetch(ctx, q, d.Kind().String(), layout, text, args...)
}

// fetch runs text and decodes every row against layout. name identifies the
// query in errors and logs.
func fetch(ctx context.Context, q Querier, name string, layout table.Schema, text string, args ...any) (*table.Table, error) {
	rows, err := q.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeQuery, "failed to execute %s", name)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeQuery, "failed to read columns of %s", name)
	}

	if len(columns) != layout.Len() {
		logging.FromContext(ctx).WithFields(map[string]any{
			"query":   name,
			"columns": columns,
			"schema":  layout.Fields(),
		}).Error("Column count does not match schema")

		return nil, errors.Newf(errors.ErrTypeQuery,
			"%s returned %d columns %v but its schema has %d fields %v",
			name, len(columns), columns, layout.Len(), layout.Fields())
	}

	result := table.New(layout)
	raw := make([]any, len(columns))
	dest := make([]any, len(columns))

	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, errors.ErrTypeQuery, "failed to scan %s row", name)
		}

		row := make(table.Row, len(layout))
		for i, col := range layout {
			row[i] = decode(ctx, name, col, raw[i])
		}

		if err := result.Append(row); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeQuery, "failed to decode row")
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeQuery, "failed to iterate %s rows", name)
	}

	return result, nil
}

// decode converts one raw cell. A NULL in a not-null column and a value that
// cannot be coerced both become Null; the cell is never dropped.
func decode(ctx context.Context, name string, col table.ColumnSpec, raw any) table.Value {
	if raw == nil {
		if col.NotNull {
			logging.FromContext(ctx).WithFields(map[string]any{
				"query": name,
				"field": col.Field,
			}).Warn("NULL in not-null column")
		}

		return table.Null()
	}

	v, ok := table.Coerce(raw, col.Kind)
	if !ok {
		logging.FromContext(ctx).WithFields(map[string]any{
			"query": name,
			"field": col.Field,
			"kind":  col.Kind.String(),
			"value": raw,
		}).Warn("Could not coerce column value")
	}

	return v
}
