// Package main — точка входа экспортёра статистик узла QuasarDB.
//
// Один запуск выполняет один проход: обнаружение статистик узла, чтение значений
// и отправку пакетов в API метрик. Периодичность обеспечивает внешний планировщик.
//
// Коды завершения: 0 — успех, 1 — ошибка прохода, 2 — ошибка конфигурации.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
