package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RoGogDBD/qdb-cloudwatch/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Open открывает соединение с PostgreSQL через драйвер pgx и проверяет его доступность.
//
// ctx    — контекст для ограничения времени подключения.
// dsn    — строка подключения.
// logger — логгер.
//
// Временные ошибки подключения повторяются через config.RetryWithBackoff.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	var conn *sql.DB
	err := config.RetryWithBackoff(ctx, func() error {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return err
		}
		conn = db
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db after retries: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(10 * time.Minute)

	logger.Info("connected to PostgreSQL")
	return conn, nil
}
