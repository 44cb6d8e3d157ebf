package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Vidtube/internal/core/feeds"
)

// totalScanner scans a row whose last column is a COUNT(*) OVER () total,
// letting the per-entity scan functions stay unaware of it
type totalScanner struct {
	rows  *sql.Rows
	total *int
}

func (s totalScanner) Scan(dest ...any) error {
	return s.rows.Scan(append(dest, s.total)...)
}

// requireRow turns a write that matched nothing into notFound
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// listPlan runs a compiled feed plan against one table and hands each row to
// scan. It returns the number of rows matching the plan filters.
func listPlan(ctx context.Context, db *sql.DB, table, fields string, cols columnMap, plan *feeds.Plan, scan func(rowScanner) error) (int, error) {
	c, err := compilePlan(plan, cols, "id")
	if err != nil {
		return 0, err
	}
	limit, args := c.page(plan)

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER () FROM %s %s %s %s`, fields, table, c.where, c.orderBy, limit)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	total, seen := 0, 0
	for rows.Next() {
		if err := scan(totalScanner{rows: rows, total: &total}); err != nil {
			return 0, err
		}
		seen++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if seen == 0 && plan.Offset() > 0 {
		if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, table, c.where), c.args...).Scan(&total); err != nil {
			return 0, err
		}
	}
	return total, nil
}
