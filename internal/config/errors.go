package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// retryIntervals определяет интервалы ожидания между попытками повторения операции.
var retryIntervals = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

// RetryWithBackoff выполняет функцию op с повторными попытками и увеличивающейся задержкой между ними.
//
// Если функция op возвращает ошибку, которая считается временной (retriable),
// происходит повторная попытка выполнения с увеличивающимся интервалом ожидания.
// Если все попытки исчерпаны или контекст завершён, возвращается последняя ошибка.
//
// ctx — контекст для управления временем жизни попыток.
// op  — функция, которую требуется выполнить с повторными попытками.
//
// Используется только при подключении к хранилищу статистик; отправка метрик не повторяется.
func RetryWithBackoff(ctx context.Context, op func() error) error {
	var lastErr error
	for i, wait := range retryIntervals {
		if err := op(); err != nil {
			if isRetriableError(err) {
				lastErr = err
				zap.L().Warn("retriable error",
					zap.Error(err),
					zap.Int("attempt", i+1),
					zap.Int("attempts", len(retryIntervals)),
					zap.Duration("wait", wait),
				)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
					continue
				}
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("operation failed after retries: %w", lastErr)
}

// isRetriableError определяет, является ли ошибка временной (retriable) для PostgreSQL.
//
// Возвращает true для ошибок установления соединения и кодов SQLSTATE класса "08".
func isRetriableError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
	}
	return false
}
