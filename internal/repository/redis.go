package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// scanBatch — подсказка COUNT для команды SCAN.
const scanBatch = 100

type redisClient interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// RedisStore читает статистики, опубликованные в Redis.
//
// Целочисленные статистики хранятся как десятичные строки.
type RedisStore struct {
	rdb redisClient
}

// NewRedisStore подключается к Redis по URI вида redis://host:port/db.
func NewRedisStore(uri string) (*RedisStore, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid redis uri: %w", err)
	}
	return &RedisStore{rdb: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// ScanKeys обходит пространство ключей командой SCAN MATCH prefix*.
func (s *RedisStore) ScanKeys(ctx context.Context, prefix string, limit int) ([]string, error) {
	match := escapeGlob(prefix) + "*"
	seen := make(map[string]struct{})

	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		for _, k := range keys {
			seen[k] = struct{}{}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if limit >= 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys, nil
}

func (s *RedisStore) Integer(ctx context.Context, key string) (int64, error) {
	raw, err := s.get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrWrongKind, key)
	}
	return v, nil
}

func (s *RedisStore) Text(ctx context.Context, key string) (string, error) {
	return s.get(ctx, key)
}

func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

// escapeGlob экранирует спецсимволы шаблона SCAN MATCH.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
