// Package sqlb is a small fluent query builder over database/sql. Chained
// calls accumulate an immutable description of the statement; nothing touches
// the database until a terminal method (FetchOne, FetchAll, Insert, Update,
// Delete, Count) renders and executes it. It is a translation layer only, no
// planning or dialect abstraction beyond ? placeholders.
package sqlb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoRows is returned by FetchOne when the query matched nothing.
var ErrNoRows = errors.New("sqlb: no rows in result set")

// Executor is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner is the per-row scan target handed to fetch callbacks.
type Scanner interface {
	Scan(dest ...any) error
}

// Row holds column values for Insert and Update. Columns render in sorted
// order so generated SQL is deterministic.
type Row map[string]any

type cond struct {
	expr string
	args []any
}

type order struct {
	column string
	desc   bool
}

// Builder describes a pending statement against one table. The zero value is
// not usable; start with Table. Every chaining method returns a copy, so
// builders can be shared and forked safely.
type Builder struct {
	table   string
	columns []string
	conds   []cond
	orders  []order
	limit   int
}

// Table starts a builder for the named table.
func Table(name string) Builder {
	return Builder{table: name}
}

func (b Builder) clone() Builder {
	c := b
	c.columns = append([]string(nil), b.columns...)
	c.conds = append([]cond(nil), b.conds...)
	c.orders = append([]order(nil), b.orders...)
	return c
}

// Select sets the projected columns. Defaults to * when never called.
func (b Builder) Select(columns ...string) Builder {
	c := b.clone()
	c.columns = append([]string(nil), columns...)
	return c
}

func (b Builder) where(expr string, args ...any) Builder {
	c := b.clone()
	c.conds = append(c.conds, cond{expr: expr, args: args})
	return c
}

// Eq adds an equality condition. A nil value renders as IS NULL.
func (b Builder) Eq(column string, value any) Builder {
	if value == nil {
		return b.where(column + " IS NULL")
	}
	return b.where(column+" = ?", value)
}

// Eqs adds an equality condition per entry, in sorted column order.
func (b Builder) Eqs(values Row) Builder {
	c := b
	for _, column := range sortedColumns(values) {
		c = c.Eq(column, values[column])
	}
	return c
}

func (b Builder) Gt(column string, value any) Builder {
	return b.where(column+" > ?", value)
}

func (b Builder) Gte(column string, value any) Builder {
	return b.where(column+" >= ?", value)
}

func (b Builder) Lt(column string, value any) Builder {
	return b.where(column+" < ?", value)
}

func (b Builder) Lte(column string, value any) Builder {
	return b.where(column+" <= ?", value)
}

func (b Builder) Like(column, pattern string) Builder {
	return b.where(column+" LIKE ?", pattern)
}

// In adds a membership condition. An empty value list renders a condition
// that matches no rows, mirroring SQL's empty IN semantics.
func (b Builder) In(column string, values ...any) Builder {
	if len(values) == 0 {
		return b.where("1 = 0")
	}
	placeholders := strings.Repeat("?, ", len(values))
	placeholders = placeholders[:len(placeholders)-2]
	return b.where(column+" IN ("+placeholders+")", values...)
}

// OrderBy appends an ordering term.
func (b Builder) OrderBy(column string, desc bool) Builder {
	c := b.clone()
	c.orders = append(c.orders, order{column: column, desc: desc})
	return c
}

// Limit caps the result set. Zero means no limit.
func (b Builder) Limit(n int) Builder {
	c := b.clone()
	c.limit = n
	return c
}

func (b Builder) selectSQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(b.columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	args := b.writeWhere(&sb)

	if len(b.orders) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, o := range b.orders {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(o.column)
			if o.desc {
				sb.WriteString(" DESC")
			}
		}
	}

	if b.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", b.limit)
	}

	return sb.String(), args
}

func (b Builder) writeWhere(sb *strings.Builder) []any {
	if len(b.conds) == 0 {
		return nil
	}
	var args []any
	sb.WriteString(" WHERE ")
	for i, c := range b.conds {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c.expr)
		args = append(args, c.args...)
	}
	return args
}

// FetchAll runs the select and invokes scan once per row.
func (b Builder) FetchAll(ctx context.Context, ex Executor, scan func(Scanner) error) error {
	query, args := b.selectSQL()

	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// FetchOne runs the select expecting exactly one row. No row yields
// ErrNoRows; extra rows beyond the first are ignored via LIMIT 1.
func (b Builder) FetchOne(ctx context.Context, ex Executor, scan func(Scanner) error) error {
	found, err := b.FetchMaybe(ctx, ex, scan)
	if err != nil {
		return err
	}
	if !found {
		return ErrNoRows
	}
	return nil
}

// FetchMaybe runs the select and reports whether a row was found. A missing
// row is not an error.
func (b Builder) FetchMaybe(ctx context.Context, ex Executor, scan func(Scanner) error) (bool, error) {
	query, args := b.Limit(1).selectSQL()

	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	if err := scan(rows); err != nil {
		return false, err
	}
	return true, rows.Err()
}

// Count runs SELECT COUNT(*) with the accumulated conditions.
func (b Builder) Count(ctx context.Context, ex Executor) (int64, error) {
	var count int64
	err := b.Select("COUNT(*)").FetchOne(ctx, ex, func(s Scanner) error {
		return s.Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Insert writes a single row.
func (b Builder) Insert(ctx context.Context, ex Executor, values Row) error {
	if len(values) == 0 {
		return errors.New("sqlb: insert requires at least one column")
	}

	columns := sortedColumns(values)
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		args = append(args, values[column])
	}

	placeholders := strings.Repeat("?, ", len(columns))
	placeholders = placeholders[:len(placeholders)-2]

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		b.table,
		strings.Join(columns, ", "),
		placeholders,
	)

	_, err := ex.ExecContext(ctx, query, args...)
	return err
}

// Update applies the set values to every matching row and reports how many
// rows changed.
func (b Builder) Update(ctx context.Context, ex Executor, set Row) (int64, error) {
	if len(set) == 0 {
		return 0, errors.New("sqlb: update requires at least one column")
	}

	columns := sortedColumns(set)
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")

	args := make([]any, 0, len(columns))
	for i, column := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(column)
		sb.WriteString(" = ?")
		args = append(args, set[column])
	}

	args = append(args, b.writeWhere(&sb)...)

	res, err := ex.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes every matching row and reports how many went away.
func (b Builder) Delete(ctx context.Context, ex Executor) (int64, error) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table)

	args := b.writeWhere(&sb)

	res, err := ex.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func sortedColumns(values Row) []string {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
