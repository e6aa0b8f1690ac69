// Package registry содержит статический реестр статистик узла QuasarDB.
//
// Каждая запись сопоставляет имя статистики (без префикса узла) с её типом,
// единицей измерения и, при необходимости, преобразованием значения.
// Расширение покрытия — это добавление записей; семантика Lookup не меняется.
package registry

import (
	"sort"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
)

// NanosToMicros переводит наносекунды в микросекунды.
func NanosToMicros(v float64) float64 {
	return v / 1000
}

func counter(unit string) models.Descriptor {
	return models.Descriptor{Kind: models.Counter, Unit: unit}
}

func gauge(unit string) models.Descriptor {
	return models.Descriptor{Kind: models.Gauge, Unit: unit}
}

var (
	text         = models.Descriptor{Kind: models.String}
	nanosCounter = models.Descriptor{Kind: models.Counter, Unit: models.UnitMicroseconds, Transform: NanosToMicros}
)

var table = map[string]models.Descriptor{
	"cpu.idle":                                                   nanosCounter,
	"cpu.system":                                                 nanosCounter,
	"cpu.user":                                                   nanosCounter,
	"disk.bytes_free":                                            gauge(models.UnitBytes),
	"disk.bytes_total":                                           gauge(models.UnitBytes),
	"disk.path":                                                  text,
	"engine_build_date":                                          text,
	"engine_version":                                             text,
	"hardware_concurrency":                                       gauge(models.UnitCount),
	"memory.bytes_resident_size":                                 gauge(models.UnitBytes),
	"memory.physmem.bytes_total":                                 gauge(models.UnitBytes),
	"memory.physmem.bytes_used":                                  gauge(models.UnitBytes),
	"memory.resident_count":                                      gauge(models.UnitCount),
	"memory.vm.bytes_total":                                      gauge(models.UnitBytes),
	"memory.vm.bytes_used":                                       gauge(models.UnitBytes),
	"network.current_users_count":                                gauge(models.UnitCount),
	"network.sessions.available_count":                           gauge(models.UnitCount),
	"network.sessions.max_count":                                 gauge(models.UnitCount),
	"network.sessions.unavailable_count":                         gauge(models.UnitCount),
	"node_id":                                                    text,
	"operating_system":                                           text,
	"partitions_count":                                           gauge(models.UnitCount),
	"perf.blob.update.content_writing.total_ns":                  nanosCounter,
	"perf.blob.update.deserialization.total_ns":                  nanosCounter,
	"perf.blob.update.entry_trimming.total_ns":                   nanosCounter,
	"perf.blob.update.entry_writing.total_ns":                    nanosCounter,
	"perf.blob.update.processing.total_ns":                       nanosCounter,
	"perf.common.get.content_reading.total_ns":                   nanosCounter,
	"perf.common.get.deserialization.total_ns":                   nanosCounter,
	"perf.common.get.processing.total_ns":                        nanosCounter,
	"perf.common.get_by_affix.affix_search.total_ns":             nanosCounter,
	"perf.common.get_by_affix.deserialization.total_ns":          nanosCounter,
	"perf.common.get_by_affix.processing.total_ns":               nanosCounter,
	"perf.common.get_metadata.deserialization.total_ns":          nanosCounter,
	"perf.common.get_metadata.processing.total_ns":               nanosCounter,
	"perf.common.get_range.deserialization.total_ns":             nanosCounter,
	"perf.common.get_range.processing.total_ns":                  nanosCounter,
	"perf.common.get_versions.content_reading.total_ns":          nanosCounter,
	"perf.common.get_versions.deserialization.total_ns":          nanosCounter,
	"perf.common.get_versions.processing.total_ns":               nanosCounter,
	"perf.common.set_transaction_state.content_reading.total_ns": nanosCounter,
	"perf.common.set_transaction_state.deserialization.total_ns": nanosCounter,
	"perf.common.set_transaction_state.entry_trimming.total_ns":  nanosCounter,
	"perf.common.set_transaction_state.entry_writing.total_ns":   nanosCounter,
	"perf.common.set_transaction_state.processing.total_ns":      nanosCounter,
	"perf.control.status.deserialization.total_ns":               nanosCounter,
	"perf.control.status.processing.total_ns":                    nanosCounter,
	"perf.control.system.deserialization.total_ns":               nanosCounter,
	"perf.control.system.processing.total_ns":                    nanosCounter,
	"perf.integer.update.content_writing.total_ns":               nanosCounter,
	"perf.integer.update.deserialization.total_ns":               nanosCounter,
	"perf.integer.update.entry_trimming.total_ns":                nanosCounter,
	"perf.integer.update.entry_writing.total_ns":                 nanosCounter,
	"perf.integer.update.processing.total_ns":                    nanosCounter,
	"perf.placeholder.put.deserialization.total_ns":              nanosCounter,
	"perf.placeholder.put.entry_writing.total_ns":                nanosCounter,
	"perf.placeholder.put.processing.total_ns":                   nanosCounter,
	"perf.tag.leaf_insert.deserialization.total_ns":              nanosCounter,
	"perf.tag.leaf_insert.entry_writing.total_ns":                nanosCounter,
	"perf.tag.leaf_insert.processing.total_ns":                   nanosCounter,
	"perf.ts.aggregate_table.affix_search.total_ns":              nanosCounter,
	"perf.ts.aggregate_table.content_reading.total_ns":           nanosCounter,
	"perf.ts.aggregate_table.deserialization.total_ns":           nanosCounter,
	"perf.ts.aggregate_table.directory_reading.total_ns":         nanosCounter,
	"perf.ts.aggregate_table.processing.total_ns":                nanosCounter,
	"perf.ts.aggregate_table.serialization.total_ns":             nanosCounter,
	"perf.ts.blob_insert.content_reading.total_ns":               nanosCounter,
	"perf.ts.blob_insert.content_writing.total_ns":               nanosCounter,
	"perf.ts.blob_insert.deserialization.total_ns":               nanosCounter,
	"perf.ts.blob_insert.directory_writing.total_ns":             nanosCounter,
	"perf.ts.blob_insert.entry_trimming.total_ns":                nanosCounter,
	"perf.ts.blob_insert.entry_writing.total_ns":                 nanosCounter,
	"perf.ts.blob_insert.processing.total_ns":                    nanosCounter,
	"perf.ts.blob_insert.ts_bucket_updating.total_ns":            nanosCounter,
	"perf.ts.create_root.content_writing.total_ns":               nanosCounter,
	"perf.ts.create_root.deserialization.total_ns":               nanosCounter,
	"perf.ts.create_root.entry_writing.total_ns":                 nanosCounter,
	"perf.ts.create_root.processing.total_ns":                    nanosCounter,
	"perf.ts.double_aggregate.affix_search.total_ns":             nanosCounter,
	"perf.ts.double_aggregate.content_reading.total_ns":          nanosCounter,
	"perf.ts.double_aggregate.deserialization.total_ns":          nanosCounter,
	"perf.ts.double_aggregate.directory_reading.total_ns":        nanosCounter,
	"perf.ts.double_aggregate.processing.total_ns":               nanosCounter,
	"perf.ts.double_aggregate.serialization.total_ns":            nanosCounter,
	"perf.ts.get_column_info.content_reading.total_ns":           nanosCounter,
	"perf.ts.get_column_info.deserialization.total_ns":           nanosCounter,
	"perf.ts.get_column_info.processing.total_ns":                nanosCounter,
	"perf.ts.get_columns.content_reading.total_ns":               nanosCounter,
	"perf.ts.get_columns.deserialization.total_ns":               nanosCounter,
	"perf.ts.get_columns.processing.total_ns":                    nanosCounter,
	"perf.ts.get_range.affix_search.total_ns":                    nanosCounter,
	"perf.ts.get_range.content_reading.total_ns":                 nanosCounter,
	"perf.ts.get_range.deserialization.total_ns":                 nanosCounter,
	"perf.ts.get_range.directory_reading.total_ns":               nanosCounter,
	"perf.ts.get_range.processing.total_ns":                      nanosCounter,
	"perf.ts.get_range.serialization.total_ns":                   nanosCounter,
	"perf.ts.int64_aggregate.affix_search.total_ns":              nanosCounter,
	"perf.ts.int64_aggregate.content_reading.total_ns":           nanosCounter,
	"perf.ts.int64_aggregate.deserialization.total_ns":           nanosCounter,
	"perf.ts.int64_aggregate.directory_reading.total_ns":         nanosCounter,
	"perf.ts.int64_aggregate.processing.total_ns":                nanosCounter,
	"perf.ts.int64_aggregate.serialization.total_ns":             nanosCounter,
	"perf.ts.table_insert.content_reading.total_ns":              nanosCounter,
	"perf.ts.table_insert.content_writing.total_ns":              nanosCounter,
	"perf.ts.table_insert.deserialization.total_ns":              nanosCounter,
	"perf.ts.table_insert.directory_writing.total_ns":            nanosCounter,
	"perf.ts.table_insert.entry_trimming.total_ns":               nanosCounter,
	"perf.ts.table_insert.entry_writing.total_ns":                nanosCounter,
	"perf.ts.table_insert.processing.total_ns":                   nanosCounter,
	"persistence.bytes_capacity":                                 gauge(models.UnitBytes),
	"persistence.bytes_read":                                     counter(models.UnitBytes),
	"persistence.bytes_utilized":                                 gauge(models.UnitBytes),
	"persistence.bytes_written":                                  counter(models.UnitBytes),
	"persistence.entries_count":                                  gauge(models.UnitCount),
	"requests.bytes_out":                                         counter(models.UnitBytes),
	"requests.errors_count":                                      counter(models.UnitCount),
	"requests.successes_count":                                   counter(models.UnitCount),
	"requests.total_count":                                       counter(models.UnitCount),
	// Исходная единица "None" трактуется как отсутствие единицы.
	"startup": counter(""),
}

// Lookup возвращает описание статистики по имени без префикса узла.
//
// Отсутствие записи не является ошибкой: статистика просто не отслеживается.
func Lookup(name string) (models.Descriptor, bool) {
	d, ok := table[name]
	return d, ok
}

// Names возвращает отсортированный список всех имён реестра.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len возвращает количество записей в реестре.
func Len() int {
	return len(table)
}
