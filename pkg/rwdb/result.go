package rwdb

import (
	"fmt"

	"github.com/gmodb/rwdb/pkg/driver"
)

// Row is one result row. Column order is the order returned by the driver.
type Row struct {
	columns []string
	values  []interface{}
}

// NewRow builds a row from parallel column and value slices.
func NewRow(columns []string, values []interface{}) Row {
	return Row{columns: columns, values: values}
}

func (r Row) Len() int {
	return len(r.values)
}

func (r Row) IsEmpty() bool {
	return len(r.values) == 0
}

func (r Row) Columns() []string {
	return r.columns
}

func (r Row) Values() []interface{} {
	return r.values
}

// Value returns the i-th value, or nil if i is out of range.
func (r Row) Value(i int) interface{} {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Get returns the value of the named column. When a name is repeated the last one wins.
func (r Row) Get(column string) (interface{}, bool) {
	for i := len(r.columns) - 1; i >= 0; i-- {
		if r.columns[i] == column {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.columns))
	for i, col := range r.columns {
		m[col] = r.values[i]
	}
	return m
}

func newRows(result *driver.Result) []Row {
	if result == nil || len(result.Columns) == 0 {
		return []Row{}
	}
	rows := make([]Row, 0, len(result.Rows))
	for _, values := range result.Rows {
		normalized := make([]interface{}, len(values))
		for i, v := range values {
			normalized[i] = normalizeValue(v)
		}
		rows = append(rows, NewRow(result.Columns, normalized))
	}
	return rows
}

// normalizeValue turns raw column bytes into strings, as text protocol clients do.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func firstValue(rows []Row) interface{} {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Value(0)
}

func firstColumn(rows []Row) []interface{} {
	col := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		col = append(col, row.Value(0))
	}
	return col
}

// KeyValues keys every row by its first column rendered as a string.
// The value is the second column for two column rows, the whole Row for wider rows
// and the key column itself for single column rows. Later rows overwrite earlier ones.
func KeyValues(rows []Row) map[string]interface{} {
	m := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		key := keyString(row.Value(0))
		switch {
		case row.Len() > 2:
			m[key] = row
		case row.Len() == 2:
			m[key] = row.Value(1)
		default:
			m[key] = row.Value(0)
		}
	}
	return m
}

func keyString(v interface{}) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	case []byte:
		return string(k)
	default:
		return fmt.Sprint(k)
	}
}
