package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvInt возвращает значение переменной окружения как int.
//
// key — имя переменной окружения.
//
// Если переменная не задана или пуста, возвращает 0 и nil.
// Если значение не может быть преобразовано в int, возвращает ошибку.
func EnvInt(key string) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

// EnvBool возвращает значение переменной окружения как bool.
//
// Второе значение сообщает, была ли переменная задана.
// Допустимы значения, понимаемые strconv.ParseBool.
func EnvBool(key string) (bool, bool, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, true, nil
}

// EnvString возвращает значение переменной окружения как строку.
//
// key — имя переменной окружения.
//
// Если переменная не задана или пуста, возвращает пустую строку.
func EnvString(key string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return ""
}
