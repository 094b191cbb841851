package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFromFile(t *testing.T) {
	// Создаем временный файл конфигурации
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	content := `default_volume = 65
library_dir = "/tmp/music"
aws_bucket_name = "test-bucket"
aws_region = "us-east-1"

[keys]
favorite = "F"
quit = "x"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	// Загружаем конфигурацию
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if cfg.DefaultVolume != 65 {
		t.Errorf("Ожидался DefaultVolume: 65, получено: %d", cfg.DefaultVolume)
	}
	if cfg.LibraryDir != "/tmp/music" {
		t.Errorf("Ожидался LibraryDir: /tmp/music, получено: %s", cfg.LibraryDir)
	}
	if cfg.AwsBucketName != "test-bucket" {
		t.Errorf("Ожидался AwsBucketName: test-bucket, получено: %s", cfg.AwsBucketName)
	}

	// Переопределенные клавиши
	if cfg.Keys.Favorite != "F" {
		t.Errorf("Ожидалась клавиша избранного: F, получено: %s", cfg.Keys.Favorite)
	}
	if cfg.Keys.Quit != "x" {
		t.Errorf("Ожидалась клавиша выхода: x, получено: %s", cfg.Keys.Quit)
	}

	// Непереопределенные клавиши остаются по умолчанию
	if cfg.Keys.Next != "right" {
		t.Errorf("Ожидалась клавиша next по умолчанию: right, получено: %s", cfg.Keys.Next)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	// Отсутствующий файл не является ошибкой: должны вернуться значения по умолчанию
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.toml"))
	if err != nil {
		t.Fatalf("Неожиданная ошибка для отсутствующего файла: %v", err)
	}

	def := Default()
	if cfg.DefaultVolume != def.DefaultVolume {
		t.Errorf("Ожидался DefaultVolume по умолчанию: %d, получено: %d", def.DefaultVolume, cfg.DefaultVolume)
	}
	if cfg.Keys.PlayPause != " " {
		t.Errorf("Ожидалась клавиша паузы по умолчанию (пробел), получено: %q", cfg.Keys.PlayPause)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	// Создаем временный файл с некорректным TOML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid_config.toml")

	invalidTOML := `default_volume = [unclosed array
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	// Некорректный файл: ошибка возвращается, но конфигурация откатывается к значениям по умолчанию
	cfg, err := Load(configPath)
	if err == nil {
		t.Error("Ожидалась ошибка при загрузке некорректного TOML")
	}
	if !strings.Contains(err.Error(), "разбора") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}

	def := Default()
	if cfg.DefaultVolume != def.DefaultVolume {
		t.Errorf("Ожидался откат к DefaultVolume по умолчанию: %d, получено: %d", def.DefaultVolume, cfg.DefaultVolume)
	}
}

func TestLoadConfigClampsVolume(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("default_volume = 150\n"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if cfg.DefaultVolume != 100 {
		t.Errorf("Ожидалось ограничение громкости до 100, получено: %d", cfg.DefaultVolume)
	}
}

func TestLoadConfigWithTilde(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("library_dir = \"~/music\"\n"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, "music")
	if cfg.LibraryDir != expected {
		t.Errorf("Ожидался LibraryDir с раскрытой тильдой: %s, получено: %s", expected, cfg.LibraryDir)
	}
}
