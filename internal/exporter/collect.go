package exporter

import (
	"context"
	"errors"
	"fmt"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/repository"
)

// ErrNotNumeric возвращается при попытке собрать строковую статистику как число.
var ErrNotNumeric = errors.New("statistic is not numeric")

// CollectionError — ошибка чтения значения одной статистики.
type CollectionError struct {
	Key string
	Err error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("failed to collect %s: %v", e.Key, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Collector читает значения классифицированных статистик из хранилища.
type Collector struct {
	store repository.Store
}

func NewCollector(store repository.Store) *Collector {
	return &Collector{store: store}
}

// Collect читает значение числовой статистики и применяет преобразование из реестра.
//
// Counter и Gauge читаются как целые числа. Для String возвращается ErrNotNumeric:
// строковые статистики никогда не попадают в отправку.
func (c *Collector) Collect(ctx context.Context, cl Classified) (models.CollectedMetric, error) {
	switch cl.Kind {
	case models.Counter, models.Gauge:
		raw, err := c.store.Integer(ctx, cl.Key)
		if err != nil {
			return models.CollectedMetric{}, &CollectionError{Key: cl.Key, Err: err}
		}
		return models.CollectedMetric{
			Name:  cl.Name,
			Kind:  cl.Kind,
			Unit:  cl.Unit,
			Value: cl.Apply(float64(raw)),
		}, nil
	case models.String:
		return models.CollectedMetric{}, &CollectionError{Key: cl.Key, Err: ErrNotNumeric}
	default:
		return models.CollectedMetric{}, &CollectionError{Key: cl.Key, Err: fmt.Errorf("unknown metric kind %d", cl.Kind)}
	}
}

// Describe читает строковую статистику для диагностики.
func (c *Collector) Describe(ctx context.Context, cl Classified) (string, error) {
	if cl.Kind != models.String {
		return "", &CollectionError{Key: cl.Key, Err: fmt.Errorf("%s statistic has no text value", cl.Kind)}
	}
	v, err := c.store.Text(ctx, cl.Key)
	if err != nil {
		return "", &CollectionError{Key: cl.Key, Err: err}
	}
	return v, nil
}
