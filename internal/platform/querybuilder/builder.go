// Package querybuilder renders the small set of postgres statements the
// repositories need, with positional $n placeholders.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

type Condition interface {
	render(w *writer)
}

type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

type eq struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eq{column: column, value: value}
}

func (c eq) render(w *writer) {
	w.sql.WriteString(c.column)
	w.sql.WriteString(" = ")
	w.bind(c.value)
}

type either struct {
	conditions []Condition
}

// Or joins conditions with OR inside parentheses.
func Or(conditions ...Condition) Condition {
	return either{conditions: conditions}
}

func (c either) render(w *writer) {
	if len(c.conditions) == 0 {
		w.sql.WriteString("1=0")
		return
	}
	w.sql.WriteString("(")
	for i, cond := range c.conditions {
		if i > 0 {
			w.sql.WriteString(" OR ")
		}
		cond.render(w)
	}
	w.sql.WriteString(")")
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	w := &writer{}
	w.sql.WriteString("SELECT ")
	w.sql.WriteString(strings.Join(b.columns, ", "))
	w.sql.WriteString(" FROM ")
	w.sql.WriteString(b.table)

	for i, cond := range b.where {
		if i == 0 {
			w.sql.WriteString(" WHERE ")
		} else {
			w.sql.WriteString(" AND ")
		}
		cond.render(w)
	}
	if len(b.orderBy) > 0 {
		w.sql.WriteString(" ORDER BY ")
		w.sql.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sql.WriteString(" LIMIT ")
		w.sql.WriteString(strconv.Itoa(b.limit))
	}

	return w.sql.String(), w.args, nil
}

// Insert renders a single-row INSERT for the given columns and values.
func Insert(table string, columns []string, values []any, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(columns) != len(values) {
		return "", nil, fmt.Errorf("insert has %d values, expected %d", len(values), len(columns))
	}

	w := &writer{}
	w.sql.WriteString("INSERT INTO ")
	w.sql.WriteString(table)
	w.sql.WriteString(" (")
	w.sql.WriteString(strings.Join(columns, ", "))
	w.sql.WriteString(") VALUES (")
	for i, v := range values {
		if i > 0 {
			w.sql.WriteString(", ")
		}
		w.bind(v)
	}
	w.sql.WriteString(")")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		w.sql.WriteString(" ")
		w.sql.WriteString(suffix)
	}

	return w.sql.String(), w.args, nil
}
