package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// SnapshotEntry — одна статистика в файле снимка.
//
// Должно быть задано ровно одно из полей Integer или Text.
type SnapshotEntry struct {
	Key     string  `json:"key"`
	Integer *int64  `json:"integer,omitempty"`
	Text    *string `json:"text,omitempty"`
}

// LoadSnapshot читает JSON-снимок статистик из файла и возвращает MemStore.
//
// filePath — путь к файлу снимка.
func LoadSnapshot(filePath string) (*MemStore, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadSnapshot(f)
}

// ReadSnapshot разбирает JSON-снимок статистик из r.
func ReadSnapshot(r io.Reader) (*MemStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var entries []SnapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	store := NewMemStore()
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("snapshot entry %d: empty key", i)
		}
		switch {
		case e.Integer != nil && e.Text == nil:
			store.SetInteger(e.Key, *e.Integer)
		case e.Text != nil && e.Integer == nil:
			store.SetText(e.Key, *e.Text)
		default:
			return nil, fmt.Errorf("snapshot entry %q: exactly one of integer or text must be set", e.Key)
		}
	}
	return store, nil
}

// SaveSnapshot записывает содержимое MemStore в файл в формате снимка.
func SaveSnapshot(store *MemStore, filePath string) error {
	store.mu.RLock()
	entries := make([]SnapshotEntry, 0, len(store.integers)+len(store.texts))
	for k, v := range store.integers {
		v := v
		entries = append(entries, SnapshotEntry{Key: k, Integer: &v})
	}
	for k, v := range store.texts {
		v := v
		entries = append(entries, SnapshotEntry{Key: k, Text: &v})
	}
	store.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
