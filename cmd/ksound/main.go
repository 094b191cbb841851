package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazadus/ksound/internal/config"
)

// Application хранит зависимости, общие для всех команд
type Application struct {
	Config *config.Config
}

func main() {
	// Загружаем конфигурацию: поврежденный файл не мешает запуску
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Ошибка чтения конфигурации, используются настройки по умолчанию: %v\n", err)
	}

	// Контекст с отменой по сигналам прерывания
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &Application{Config: cfg}

	rootCmd := app.createRootCommand(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
