package models

// MetricKind — тип статистики узла.
type MetricKind int

const (
	// Counter — монотонно растущий счётчик, читается как целое число.
	Counter MetricKind = iota + 1
	// Gauge — мгновенное значение, читается как целое число.
	Gauge
	// String — строковая диагностика; никогда не отправляется в API метрик.
	String
)

// String возвращает имя типа метрики.
func (k MetricKind) String() string {
	switch k {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Numeric сообщает, читается ли метрика как число и попадает ли она в отправку.
func (k MetricKind) Numeric() bool {
	return k == Counter || k == Gauge
}

// Единицы измерения в терминах API назначения.
const (
	UnitBytes        = "Bytes"
	UnitCount        = "Count"
	UnitMicroseconds = "Microseconds"
)

// Transform — детерминированное преобразование сырого значения перед отправкой.
type Transform func(float64) float64

// Descriptor описывает статистику в реестре.
//
// Поля:
//   - Kind: тип метрики
//   - Unit: единица измерения; пустая строка означает отсутствие единицы
//   - Transform: преобразование значения (может быть nil)
type Descriptor struct {
	Kind      MetricKind
	Unit      string
	Transform Transform
}

// Apply применяет Transform к значению, если он задан.
func (d Descriptor) Apply(v float64) float64 {
	if d.Transform == nil {
		return v
	}
	return d.Transform(v)
}

// CollectedMetric — собранное значение одной статистики.
type CollectedMetric struct {
	Name  string
	Kind  MetricKind
	Unit  string
	Value float64
}

// Dimension — пара имя/значение, добавляемая к каждой записи.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record — запись в формате API назначения.
type Record struct {
	Name       string      `json:"name"`
	Value      float64     `json:"value"`
	Unit       string      `json:"unit,omitempty"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
}

// SubmissionBatch — набор записей, отправляемый одним вызовом API.
type SubmissionBatch struct {
	Records []Record
}

// Names возвращает имена метрик пакета в исходном порядке.
func (b SubmissionBatch) Names() []string {
	names := make([]string, 0, len(b.Records))
	for _, r := range b.Records {
		names = append(names, r.Name)
	}
	return names
}
