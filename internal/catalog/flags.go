package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FlagsFileName имя файла-сайдкара с флагами треков в каталоге с музыкой
const FlagsFileName = ".ksound.yml"

// flagEntry хранит сохраняемые флаги одного трека
type flagEntry struct {
	Favorite bool `yaml:"favorite,omitempty"`
	Skip     bool `yaml:"skip,omitempty"`
}

// flagsFile формат файла-сайдкара: флаги по имени файла трека
type flagsFile struct {
	Tracks map[string]flagEntry `yaml:"tracks"`
}

// LoadFlags загружает флаги избранного и пропуска из файла-сайдкара
// и применяет их к трекам каталога. Отсутствующий файл не является ошибкой.
func (c *Catalog) LoadFlags() error {
	if c.dir == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(c.dir, FlagsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("ошибка чтения файла флагов: %w", err)
	}

	var file flagsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("ошибка разбора файла флагов: %w", err)
	}

	for i := range c.tracks {
		entry, ok := file.Tracks[filepath.Base(c.tracks[i].Path)]
		if !ok {
			continue
		}
		c.tracks[i].Favorite = entry.Favorite
		c.tracks[i].Skip = entry.Skip
	}
	return nil
}

// SaveFlags сохраняет флаги избранного и пропуска в файл-сайдкар.
// Записываются только треки хотя бы с одним установленным флагом.
func (c *Catalog) SaveFlags() error {
	if c.dir == "" {
		return nil
	}

	file := flagsFile{Tracks: make(map[string]flagEntry)}
	for _, track := range c.tracks {
		if !track.Favorite && !track.Skip {
			continue
		}
		file.Tracks[filepath.Base(track.Path)] = flagEntry{
			Favorite: track.Favorite,
			Skip:     track.Skip,
		}
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("ошибка сериализации флагов: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, FlagsFileName), data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла флагов: %w", err)
	}
	return nil
}
