package repository

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// FileReportObserver дописывает события отправки пакетов в файл (одна JSON-строка на событие).
//
// Поля:
//   - filePath: путь к файлу отчёта
//   - mu: мьютекс для синхронизации доступа к файлу
type FileReportObserver struct {
	filePath string
	mu       sync.Mutex
}

// NewFileReportObserver создает новый экземпляр FileReportObserver.
//
// filePath — путь к файлу отчёта. Родительский каталог создаётся при необходимости.
func NewFileReportObserver(filePath string) (*FileReportObserver, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileReportObserver{filePath: filePath}, nil
}

// OnSubmission записывает событие в файл.
//
// Возвращает ошибку при неудаче записи.
func (f *FileReportObserver) OnSubmission(event models.SubmissionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal report event: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report event: %w", err)
	}

	return nil
}

// HTTPReportObserver отправляет события на удалённый сервер.
//
// Поля:
//   - url: адрес удалённого сервера
//   - client: resty-клиент для отправки запросов
type HTTPReportObserver struct {
	url    string
	client *resty.Client
}

// NewHTTPReportObserver создает новый экземпляр HTTPReportObserver.
//
// url — адрес удалённого сервера.
func NewHTTPReportObserver(url string) *HTTPReportObserver {
	return &HTTPReportObserver{
		url:    url,
		client: resty.New().SetTimeout(5 * time.Second),
	}
}

// OnSubmission отправляет событие POST-запросом в формате JSON.
//
// Возвращает ошибку при неудаче отправки или ответе, отличном от 200/201.
func (h *HTTPReportObserver) OnSubmission(event models.SubmissionEvent) error {
	resp, err := h.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(h.url)
	if err != nil {
		return fmt.Errorf("failed to send report event: %w", err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("report server returned status %d", resp.StatusCode())
	}

	return nil
}

// ReportManager управляет списком наблюдателей и уведомляет их о результатах отправки.
//
// Поля:
//   - observers: список наблюдателей
//   - logger: логгер для ошибок наблюдателей
//   - mu: RW-мьютекс для синхронизации доступа к списку наблюдателей
type ReportManager struct {
	observers []models.SubmissionObserver
	logger    *zap.Logger
	mu        sync.RWMutex
}

// NewReportManager создает новый экземпляр ReportManager.
//
// logger — логгер; если nil, используется zap.NewNop().
func NewReportManager(logger *zap.Logger) *ReportManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportManager{
		observers: make([]models.SubmissionObserver, 0),
		logger:    logger,
	}
}

// Attach добавляет наблюдателя к списку.
func (a *ReportManager) Attach(observer models.SubmissionObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, observer)
}

// Detach удаляет наблюдателя из списка.
func (a *ReportManager) Detach(observer models.SubmissionObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, obs := range a.observers {
		if obs == observer {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			break
		}
	}
}

// OnSubmission уведомляет всех подключённых наблюдателей о событии.
//
// Ошибки наблюдателей только логируются и не прерывают выгрузку.
func (a *ReportManager) OnSubmission(event models.SubmissionEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, observer := range a.observers {
		if err := observer.OnSubmission(event); err != nil {
			a.logger.Warn("report observer failed", zap.Int("batch", event.Batch), zap.Error(err))
		}
	}
	return nil
}

// HasObservers проверяет, есть ли подключённые наблюдатели.
func (a *ReportManager) HasObservers() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.observers) > 0
}
