// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/hazadus/ksound/internal/utils"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.config/ksound/config.toml"

// Keys содержит привязки клавиш, переопределяемые в конфигурации
type Keys struct {
	PlayPause  string `toml:"play_pause"`
	Next       string `toml:"next"`
	Prev       string `toml:"prev"`
	VolumeUp   string `toml:"volume_up"`
	VolumeDown string `toml:"volume_down"`
	Favorite   string `toml:"favorite"`
	Skip       string `toml:"skip"`
	Delete     string `toml:"delete"`
	EditTags   string `toml:"edit_tags"`
	Browse     string `toml:"browse"`
	Quit       string `toml:"quit"`
}

// Config структура для хранения конфигурации приложения
type Config struct {
	DefaultVolume int    `toml:"default_volume"` // Громкость при запуске, 0–100
	LibraryDir    string `toml:"library_dir"`    // Каталог библиотеки для команд fetch/list
	Keys          Keys   `toml:"keys"`

	// Настройки S3 для команды upload
	AwsBucketName string `toml:"aws_bucket_name"`
	AwsAccessKey  string `toml:"aws_access_key"`
	AwsSecretKey  string `toml:"aws_secret_key"`
	AwsRegion     string `toml:"aws_region"`
	AwsEndpoint   string `toml:"aws_endpoint"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		DefaultVolume: 80,
		LibraryDir:    ".",
		Keys: Keys{
			PlayPause:  " ",
			Next:       "right",
			Prev:       "left",
			VolumeUp:   "+",
			VolumeDown: "-",
			Favorite:   "f",
			Skip:       "s",
			Delete:     "d",
			EditTags:   "e",
			Browse:     "b",
			Quit:       "q",
		},
	}
}

// Load загружает конфигурацию из указанного файла.
// Отсутствующий файл не считается ошибкой: возвращаются значения по умолчанию.
// При некорректном файле также возвращаются значения по умолчанию вместе с
// ошибкой, чтобы вызывающий код мог предупредить пользователя и продолжить.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	path, err := utils.ExpandTilde(filePath)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	loaded := Default()
	if err := toml.Unmarshal(data, loaded); err != nil {
		return cfg, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if loaded.DefaultVolume < 0 {
		loaded.DefaultVolume = 0
	}
	if loaded.DefaultVolume > 100 {
		loaded.DefaultVolume = 100
	}

	// Раскрываем тильду в пути библиотеки
	if loaded.LibraryDir != "" {
		if dir, err := utils.ExpandTilde(loaded.LibraryDir); err == nil {
			loaded.LibraryDir = dir
		}
	}

	return loaded, nil
}
