package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrKeyNotFound возвращается, если статистика с указанным ключом отсутствует.
	ErrKeyNotFound = errors.New("statistic key not found")
	// ErrWrongKind возвращается, если значение хранится в другом виде (число/строка).
	ErrWrongKind = errors.New("statistic has a different value kind")
)

// Store определяет интерфейс чтения статистик узла.
//
// Позволяет находить ключи по префиксу и читать значения целого или строкового вида.
type Store interface {
	// ScanKeys возвращает не более limit ключей с префиксом prefix в лексикографическом порядке.
	ScanKeys(ctx context.Context, prefix string, limit int) ([]string, error)
	// Integer возвращает целочисленное значение статистики.
	Integer(ctx context.Context, key string) (int64, error)
	// Text возвращает строковое значение статистики.
	Text(ctx context.Context, key string) (string, error)
}

// MemStore реализует интерфейс Store на основе памяти.
//
// Использует map для хранения целых и строковых значений, защищённых мьютексом.
type MemStore struct {
	integers map[string]int64  // Целочисленные статистики
	texts    map[string]string // Строковые статистики
	mu       sync.RWMutex      // Мьютекс для конкурентного доступа
}

// NewMemStore создаёт и возвращает новый пустой MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		integers: make(map[string]int64),
		texts:    make(map[string]string),
	}
}

// SetInteger сохраняет целочисленное значение статистики.
//
// key — полный ключ статистики.
// value — значение.
func (s *MemStore) SetInteger(key string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.texts, key)
	s.integers[key] = value
}

// SetText сохраняет строковое значение статистики.
//
// key — полный ключ статистики.
// value — значение.
func (s *MemStore) SetText(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.integers, key)
	s.texts[key] = value
}

// ScanKeys возвращает не более limit ключей с префиксом prefix.
func (s *MemStore) ScanKeys(_ context.Context, prefix string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.integers {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for k := range s.texts {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if limit >= 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys, nil
}

// Integer возвращает целочисленное значение статистики.
func (s *MemStore) Integer(_ context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.integers[key]; ok {
		return v, nil
	}
	if _, ok := s.texts[key]; ok {
		return 0, ErrWrongKind
	}
	return 0, ErrKeyNotFound
}

// Text возвращает строковое значение статистики.
func (s *MemStore) Text(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.texts[key]; ok {
		return v, nil
	}
	if _, ok := s.integers[key]; ok {
		return "", ErrWrongKind
	}
	return "", ErrKeyNotFound
}
