package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNoTable = errors.New("table is required")

// args accumulates positional arguments and hands out $n placeholders.
type args struct {
	values []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Condition renders one WHERE predicate.
type Condition func(sb *strings.Builder, a *args)

func Eq(column string, value any) Condition {
	return compare(column, "=", value)
}

func Gte(column string, value any) Condition {
	return compare(column, ">=", value)
}

func Lte(column string, value any) Condition {
	return compare(column, "<=", value)
}

func compare(column, op string, value any) Condition {
	return func(sb *strings.Builder, a *args) {
		sb.WriteString(column + " " + op + " " + a.add(value))
	}
}

// In renders "column IN (...)". An empty list matches nothing.
func In[T any](column string, values []T) Condition {
	return func(sb *strings.Builder, a *args) {
		if len(values) == 0 {
			sb.WriteString("FALSE")
			return
		}
		sb.WriteString(column + " IN (")
		for i, v := range values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.add(v))
		}
		sb.WriteString(")")
	}
}

func IsNull(column string) Condition {
	return func(sb *strings.Builder, _ *args) {
		sb.WriteString(column + " IS NULL")
	}
}

func writeWhere(sb *strings.Builder, a *args, conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		c(sb, a)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errNoTable
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select from %s: columns are required", b.table)
	}

	var sb strings.Builder
	var a args
	sb.WriteString("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	writeWhere(&sb, &a, b.where)
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	return sb.String(), a.values, nil
}

type InsertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	conflict  []string
	updates   []string
	returning []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

// OnConflict turns the insert into an upsert that overwrites updates with
// the excluded row. With no updates the conflicting row is left alone.
func (b *InsertBuilder) OnConflict(target []string, updates ...string) *InsertBuilder {
	b.conflict = target
	b.updates = updates
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = columns
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errNoTable
	}
	if len(b.columns) == 0 || len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert into %s: columns and values are required", b.table)
	}

	var sb strings.Builder
	var a args
	sb.WriteString("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert into %s: row %d has %d values for %d columns", b.table, i, len(row), len(b.columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		placeholders := make([]string, len(row))
		for j, v := range row {
			placeholders[j] = a.add(v)
		}
		sb.WriteString("(" + strings.Join(placeholders, ", ") + ")")
	}

	if len(b.conflict) > 0 {
		sb.WriteString(" ON CONFLICT (" + strings.Join(b.conflict, ", ") + ")")
		if len(b.updates) == 0 {
			sb.WriteString(" DO NOTHING")
		} else {
			sets := make([]string, len(b.updates))
			for i, col := range b.updates {
				sets[i] = col + " = EXCLUDED." + col
			}
			sb.WriteString(" DO UPDATE SET " + strings.Join(sets, ", "))
		}
	}
	if len(b.returning) > 0 {
		sb.WriteString(" RETURNING " + strings.Join(b.returning, ", "))
	}
	return sb.String(), a.values, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

// ToSQL refuses to build an unconditional delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errNoTable
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete from %s: at least one condition is required", b.table)
	}

	var sb strings.Builder
	var a args
	sb.WriteString("DELETE FROM " + b.table)
	writeWhere(&sb, &a, b.where)
	return sb.String(), a.values, nil
}
