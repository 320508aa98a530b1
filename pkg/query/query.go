// Package query provides the Postgres-backed read-only query collaborator
// used by query steps.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// Postgres driver.
	_ "github.com/lib/pq"
)

const (
	queryTimeout = 10 * time.Second
	maxRows      = 100
)

var ErrNotReadOnly = errors.New("only SELECT/WITH statements allowed")

type Querier struct {
	db *sql.DB
}

func NewQuerier(databaseURL string) (*Querier, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Querier{db: db}, nil
}

func (q *Querier) Close() error {
	return q.db.Close()
}

func (q *Querier) Ping(ctx context.Context) error {
	return q.db.PingContext(ctx)
}

// ExecuteReadOnlyQuery runs one SELECT or WITH statement inside a read-only
// transaction and returns at most 100 rows. The statement guard here is a
// second line of defence; query steps reject non-read statements before
// reaching the collaborator.
func (q *Querier) ExecuteReadOnlyQuery(ctx context.Context, sqlText string) ([]map[string]any, error) {
	if !IsReadOnly(sqlText) {
		return nil, ErrNotReadOnly
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := q.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return results, nil
}

// IsReadOnly reports whether the statement starts with SELECT or WITH.
func IsReadOnly(sqlText string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sqlText))

	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH")
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		if len(results) >= maxRows {
			break
		}

		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(columns))

		for i, column := range columns {
			value := values[i]
			if b, ok := value.([]byte); ok {
				value = string(b)
			}

			row[column] = value
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return results, nil
}
