// Package exporter реализует один проход выгрузки статистик узла:
// обнаружение ключей, классификация по реестру, чтение значений,
// разбиение на пакеты и отправка в API метрик.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/repository"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Sink отправляет пакет записей в API метрик.
//
// Реализация не обязана принимать больше MaxBatchSize записей за вызов.
type Sink interface {
	Submit(ctx context.Context, namespace string, records []models.Record) error
}

// Options — параметры одного прохода.
//
// Поля:
//   - Namespace: пространство имён метрик в API назначения
//   - NodeID: идентификатор узла
//   - StatisticsNamespace: префикс ключей статистик (по умолчанию StatisticsNamespace)
//   - KeyLimit: граница числа обнаруживаемых ключей (по умолчанию DefaultKeyLimit)
//   - Dimensions: измерения, добавляемые к каждой записи
//   - SkipUnreadable: пропускать нечитаемые статистики вместо прерывания прохода
//   - LogDiagnostics: читать строковые статистики и писать их в debug-лог
type Options struct {
	Namespace           string
	NodeID              string
	StatisticsNamespace string
	KeyLimit            int
	Dimensions          []models.Dimension
	SkipUnreadable      bool
	LogDiagnostics      bool
}

// BatchResult — результат отправки одного пакета.
type BatchResult struct {
	Index   int
	Metrics []string
	Err     error
}

// Report — итог прохода.
type Report struct {
	Discovered int
	Unknown    int
	Strings    int
	Skipped    int
	Collected  int
	Results    []BatchResult
}

// Failed возвращает число пакетов, отправка которых завершилась ошибкой.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Err объединяет ошибки всех неудачных пакетов; nil, если все пакеты отправлены.
func (r *Report) Err() error {
	var err error
	for _, res := range r.Results {
		if res.Err != nil {
			err = multierr.Append(err, fmt.Errorf("batch %d: %w", res.Index, res.Err))
		}
	}
	return err
}

// Exporter выполняет проход обнаружение -> классификация -> чтение -> пакеты -> отправка.
type Exporter struct {
	store      repository.Store
	sink       Sink
	observer   models.SubmissionObserver
	opts       Options
	logger     *zap.Logger
	classifier *Classifier
	collector  *Collector
}

// New создаёт Exporter.
//
// store  — хранилище статистик.
// sink   — получатель пакетов.
// opts   — параметры прохода.
// logger — логгер; если nil, используется zap.NewNop().
func New(store repository.Store, sink Sink, opts Options, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StatisticsNamespace == "" {
		opts.StatisticsNamespace = StatisticsNamespace
	}
	if opts.KeyLimit <= 0 {
		opts.KeyLimit = DefaultKeyLimit
	}
	return &Exporter{
		store:      store,
		sink:       sink,
		opts:       opts,
		logger:     logger,
		classifier: NewClassifier(opts.StatisticsNamespace, opts.NodeID, logger),
		collector:  NewCollector(store),
	}
}

// SetObserver задаёт наблюдателя, получающего событие о каждом отправленном пакете.
func (e *Exporter) SetObserver(observer models.SubmissionObserver) {
	e.observer = observer
}

// Run выполняет один проход.
//
// Ошибка обнаружения ключей и (без SkipUnreadable) ошибка чтения значения прерывают проход.
// Ошибка отправки пакета не мешает отправке остальных; все результаты попадают в Report,
// а возвращаемая ошибка объединяет ошибки всех неудачных пакетов.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	keys, err := e.Discover(ctx)
	if err != nil {
		return report, err
	}
	report.Discovered = len(keys)

	metrics, err := e.collect(ctx, keys, report)
	if err != nil {
		return report, err
	}
	report.Collected = len(metrics)

	batches := Assemble(metrics, e.opts.Dimensions)
	report.Results = e.Submit(ctx, batches)

	e.logger.Info("export finished",
		zap.Int("discovered", report.Discovered),
		zap.Int("collected", report.Collected),
		zap.Int("unknown", report.Unknown),
		zap.Int("skipped", report.Skipped),
		zap.Int("batches", len(report.Results)),
		zap.Int("failed", report.Failed()),
	)
	return report, report.Err()
}

// Discover возвращает ключи статистик узла в порядке хранилища.
func (e *Exporter) Discover(ctx context.Context) ([]string, error) {
	prefix := DiscoveryPrefix(e.opts.StatisticsNamespace, e.opts.NodeID)
	keys, err := e.store.ScanKeys(ctx, prefix, e.opts.KeyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to discover statistics for %s: %w", prefix, err)
	}
	e.logger.Debug("statistics discovered", zap.String("prefix", prefix), zap.Int("count", len(keys)))
	return keys, nil
}

func (e *Exporter) collect(ctx context.Context, keys []string, report *Report) ([]models.CollectedMetric, error) {
	metrics := make([]models.CollectedMetric, 0, len(keys))
	for _, key := range keys {
		cl, ok := e.classifier.Classify(key)
		if !ok {
			report.Unknown++
			continue
		}

		if !cl.Kind.Numeric() {
			report.Strings++
			if e.opts.LogDiagnostics {
				e.describe(ctx, cl)
			}
			continue
		}

		m, err := e.collector.Collect(ctx, cl)
		if err != nil {
			var collErr *CollectionError
			if e.opts.SkipUnreadable && errors.As(err, &collErr) {
				report.Skipped++
				e.logger.Warn("skipping unreadable statistic", zap.String("key", key), zap.Error(err))
				continue
			}
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

func (e *Exporter) describe(ctx context.Context, cl Classified) {
	v, err := e.collector.Describe(ctx, cl)
	if err != nil {
		e.logger.Debug("failed to read diagnostic statistic", zap.String("name", cl.Name), zap.Error(err))
		return
	}
	e.logger.Debug("diagnostic statistic", zap.String("name", cl.Name), zap.String("value", v))
}

// Submit отправляет каждый пакет ровно одним вызовом Sink и возвращает результат по каждому.
func (e *Exporter) Submit(ctx context.Context, batches []models.SubmissionBatch) []BatchResult {
	results := make([]BatchResult, 0, len(batches))
	for i, batch := range batches {
		res := BatchResult{Index: i, Metrics: batch.Names()}
		res.Err = e.sink.Submit(ctx, e.opts.Namespace, batch.Records)
		if res.Err != nil {
			e.logger.Error("failed to submit batch",
				zap.Int("batch", i),
				zap.Int("size", len(batch.Records)),
				zap.Error(res.Err),
			)
		} else {
			e.logger.Info("batch submitted", zap.Int("batch", i), zap.Int("size", len(batch.Records)))
		}
		e.notify(res)
		results = append(results, res)
	}
	return results
}

func (e *Exporter) notify(res BatchResult) {
	if e.observer == nil {
		return
	}
	event := models.SubmissionEvent{
		Timestamp: time.Now().Unix(),
		Namespace: e.opts.Namespace,
		NodeID:    e.opts.NodeID,
		Batch:     res.Index,
		Metrics:   res.Metrics,
	}
	if res.Err != nil {
		event.Error = res.Err.Error()
	}
	if err := e.observer.OnSubmission(event); err != nil {
		e.logger.Warn("submission observer failed", zap.Int("batch", res.Index), zap.Error(err))
	}
}
