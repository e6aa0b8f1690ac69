package models

// SubmissionEvent представляет результат отправки одного пакета.
type SubmissionEvent struct {
	Timestamp int64    `json:"ts"`
	Namespace string   `json:"namespace"`
	NodeID    string   `json:"node_id"`
	Batch     int      `json:"batch"`
	Metrics   []string `json:"metrics"`
	Error     string   `json:"error,omitempty"`
}

// SubmissionObserver получает события об отправке пакетов.
type SubmissionObserver interface {
	OnSubmission(event SubmissionEvent) error
}
