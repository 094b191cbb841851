package metadata

import (
	"fmt"

	id3v2 "github.com/bogem/id3v2/v2"
)

// WriteTags записывает метаданные в ID3v2 теги MP3 файла.
// Пустые поля не затирают существующие значения.
func WriteTags(filePath string, meta TrackMetadata) error {
	tags, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("ошибка открытия тегов: %w", err)
	}
	defer tags.Close()

	if meta.Artist != "" {
		tags.SetArtist(meta.Artist)
	}
	if meta.Title != "" {
		tags.SetTitle(meta.Title)
	}
	if meta.Album != "" {
		tags.SetAlbum(meta.Album)
	}
	if meta.Year != "" {
		tags.SetYear(meta.Year)
	}

	if err := tags.Save(); err != nil {
		return fmt.Errorf("ошибка сохранения тегов: %w", err)
	}
	return nil
}
