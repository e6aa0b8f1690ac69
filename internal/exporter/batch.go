package exporter

import models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"

// MaxBatchSize — жёсткое ограничение API назначения на число записей в одном вызове.
const MaxBatchSize = 20

// Assemble превращает собранные метрики в записи и делит их на пакеты не более MaxBatchSize.
//
// metrics    — метрики в порядке обнаружения.
// dimensions — измерения, добавляемые к каждой записи.
//
// Порядок сохраняется; пустой вход даёт ноль пакетов.
func Assemble(metrics []models.CollectedMetric, dimensions []models.Dimension) []models.SubmissionBatch {
	if len(metrics) == 0 {
		return nil
	}

	var dims []models.Dimension
	if len(dimensions) > 0 {
		dims = append(make([]models.Dimension, 0, len(dimensions)), dimensions...)
	}

	batches := make([]models.SubmissionBatch, 0, (len(metrics)+MaxBatchSize-1)/MaxBatchSize)
	for start := 0; start < len(metrics); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(metrics))
		records := make([]models.Record, 0, end-start)
		for _, m := range metrics[start:end] {
			records = append(records, models.Record{
				Name:       m.Name,
				Value:      m.Value,
				Unit:       m.Unit,
				Dimensions: dims,
			})
		}
		batches = append(batches, models.SubmissionBatch{Records: records})
	}
	return batches
}
