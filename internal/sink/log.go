package sink

import (
	"context"
	"fmt"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"go.uber.org/zap"
)

// Log пишет записи в лог вместо отправки; используется для пробных запусков.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Submit(_ context.Context, namespace string, records []models.Record) error {
	if len(records) > MaxRecords {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(records), MaxRecords)
	}
	for _, r := range records {
		fields := []zap.Field{
			zap.String("namespace", namespace),
			zap.String("name", r.Name),
			zap.Float64("value", r.Value),
			zap.String("unit", r.Unit),
		}
		for _, d := range r.Dimensions {
			fields = append(fields, zap.String("dim."+d.Name, d.Value))
		}
		l.logger.Info("metric", fields...)
	}
	return nil
}
