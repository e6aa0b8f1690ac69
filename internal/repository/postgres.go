package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	queryScanKeys = `SELECT key FROM qdb_statistics WHERE left(key, length($1)) = $1 ORDER BY key LIMIT $2`
	queryInteger  = `SELECT int_value FROM qdb_statistics WHERE key = $1`
	queryText     = `SELECT text_value FROM qdb_statistics WHERE key = $1`
)

// PostgresStore читает статистики из таблицы qdb_statistics.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func (p *PostgresStore) ScanKeys(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, queryScanKeys, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	return keys, nil
}

func (p *PostgresStore) Integer(ctx context.Context, key string) (int64, error) {
	var v sql.NullInt64
	if err := p.db.QueryRowContext(ctx, queryInteger, key).Scan(&v); err != nil {
		return 0, p.wrapErr(key, err)
	}
	if !v.Valid {
		return 0, fmt.Errorf("%w: %s", ErrWrongKind, key)
	}
	return v.Int64, nil
}

func (p *PostgresStore) Text(ctx context.Context, key string) (string, error) {
	var v sql.NullString
	if err := p.db.QueryRowContext(ctx, queryText, key).Scan(&v); err != nil {
		return "", p.wrapErr(key, err)
	}
	if !v.Valid {
		return "", fmt.Errorf("%w: %s", ErrWrongKind, key)
	}
	return v.String, nil
}

func (p *PostgresStore) wrapErr(key string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return fmt.Errorf("failed to read %s: %w", key, err)
}
