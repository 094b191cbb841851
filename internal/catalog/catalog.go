// Package catalog содержит логику управления списком треков и курсором воспроизведения
package catalog

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazadus/ksound/internal/metadata"
)

// Track описывает один аудио файл в каталоге
type Track struct {
	Path     string
	Artist   string
	Title    string
	Album    string
	Year     string
	Size     int64
	Favorite bool
	Skip     bool
}

// IsRemote возвращает true, если трек задан URL, а не локальным путем
func (t Track) IsRemote() bool {
	return strings.HasPrefix(t.Path, "http://") || strings.HasPrefix(t.Path, "https://")
}

// DisplayName возвращает строку для отображения трека в интерфейсе
func (t Track) DisplayName() string {
	if t.Artist != "" && t.Title != "" {
		return fmt.Sprintf("%s - %s", t.Artist, t.Title)
	}
	if t.Title != "" {
		return t.Title
	}
	return filepath.Base(t.Path)
}

// Catalog хранит упорядоченный список треков и курсор текущего трека.
// Инвариант: курсор всегда указывает на существующий трек, либо каталог пуст.
type Catalog struct {
	dir    string // Каталог для файла флагов
	tracks []Track
	cursor int
}

// New создает каталог из готового списка треков
func New(dir string, tracks []Track) *Catalog {
	return &Catalog{
		dir:    dir,
		tracks: tracks,
	}
}

// Scan обходит каталог рекурсивно и собирает все MP3 файлы
func Scan(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения каталога: %w", err)
	}

	extractor := metadata.NewExtractor()

	// Одиночный MP3 файл тоже допустим в качестве аргумента
	if !info.IsDir() {
		if !isMP3(dir) {
			return nil, fmt.Errorf("файл не является MP3: %s", dir)
		}
		track := newLocalTrack(dir, extractor)
		return New(filepath.Dir(dir), []Track{track}), nil
	}

	var tracks []Track
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMP3(path) {
			return nil
		}
		tracks = append(tracks, newLocalTrack(path, extractor))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования каталога: %w", err)
	}

	catalog := New(dir, tracks)
	catalog.LoadFlags()
	return catalog, nil
}

// LoadPlaylist загружает каталог из файла плейлиста: по одному пути
// или http(s) URL на строку, пустые строки игнорируются
func LoadPlaylist(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия плейлиста: %w", err)
	}
	defer file.Close()

	extractor := metadata.NewExtractor()
	var tracks []Track

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			tracks = append(tracks, Track{
				Path:  line,
				Title: remoteTitle(line),
			})
			continue
		}
		tracks = append(tracks, newLocalTrack(line, extractor))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения плейлиста: %w", err)
	}

	catalog := New(filepath.Dir(path), tracks)
	catalog.LoadFlags()
	return catalog, nil
}

// Len возвращает количество треков в каталоге
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Cursor возвращает текущую позицию курсора
func (c *Catalog) Cursor() int {
	return c.cursor
}

// Tracks возвращает копию списка треков
func (c *Catalog) Tracks() []Track {
	tracks := make([]Track, len(c.tracks))
	copy(tracks, c.tracks)
	return tracks
}

// Current возвращает трек под курсором
func (c *Catalog) Current() (Track, bool) {
	if len(c.tracks) == 0 {
		return Track{}, false
	}
	return c.tracks[c.cursor], true
}

// Next перемещает курсор на следующий трек с учетом флагов skip.
// Если все треки помечены skip, курсор все равно двигается дальше,
// чтобы пользователю всегда было что слушать.
func (c *Catalog) Next() (Track, bool) {
	return c.advance(1)
}

// Previous перемещает курсор на предыдущий трек с учетом флагов skip
func (c *Catalog) Previous() (Track, bool) {
	return c.advance(-1)
}

func (c *Catalog) advance(step int) (Track, bool) {
	n := len(c.tracks)
	if n == 0 {
		return Track{}, false
	}

	for i := 1; i <= n; i++ {
		idx := ((c.cursor+step*i)%n + n) % n
		if !c.tracks[idx].Skip {
			c.cursor = idx
			return c.tracks[idx], true
		}
	}

	// Все треки помечены skip: двигаемся без учета флагов
	c.cursor = ((c.cursor+step)%n + n) % n
	return c.tracks[c.cursor], true
}

// JumpTo устанавливает курсор на трек с указанным индексом
func (c *Catalog) JumpTo(index int) (Track, bool) {
	if index < 0 || index >= len(c.tracks) {
		return Track{}, false
	}
	c.cursor = index
	return c.tracks[c.cursor], true
}

// ToggleFavorite переключает флаг избранного у текущего трека
// и возвращает новое значение
func (c *Catalog) ToggleFavorite() bool {
	if len(c.tracks) == 0 {
		return false
	}
	c.tracks[c.cursor].Favorite = !c.tracks[c.cursor].Favorite
	return c.tracks[c.cursor].Favorite
}

// ToggleSkip переключает флаг пропуска у текущего трека
// и возвращает новое значение
func (c *Catalog) ToggleSkip() bool {
	if len(c.tracks) == 0 {
		return false
	}
	c.tracks[c.cursor].Skip = !c.tracks[c.cursor].Skip
	return c.tracks[c.cursor].Skip
}

// SetMetadata обновляет метаданные трека с указанным индексом
func (c *Catalog) SetMetadata(index int, meta metadata.TrackMetadata) {
	if index < 0 || index >= len(c.tracks) {
		return
	}
	c.tracks[index].Artist = meta.Artist
	c.tracks[index].Title = meta.Title
	c.tracks[index].Album = meta.Album
	c.tracks[index].Year = meta.Year
}

// RemoveCurrent удаляет файл текущего трека с диска и убирает его из каталога.
// При ошибке удаления каталог остается без изменений.
// После удаления курсор указывает на трек, следовавший за удаленным.
func (c *Catalog) RemoveCurrent() error {
	if len(c.tracks) == 0 {
		return fmt.Errorf("каталог пуст")
	}

	track := c.tracks[c.cursor]
	if !track.IsRemote() {
		if err := os.Remove(track.Path); err != nil {
			return fmt.Errorf("ошибка удаления файла: %w", err)
		}
	}

	c.tracks = append(c.tracks[:c.cursor], c.tracks[c.cursor+1:]...)
	if c.cursor >= len(c.tracks) {
		c.cursor = 0
	}
	return nil
}

// Shuffle перемешивает каталог. При weighted избранные треки получают
// больший вес и чаще оказываются ближе к началу списка.
func (c *Catalog) Shuffle(weighted bool) {
	if len(c.tracks) < 2 {
		return
	}

	if !weighted {
		rand.Shuffle(len(c.tracks), func(i, j int) {
			c.tracks[i], c.tracks[j] = c.tracks[j], c.tracks[i]
		})
		c.cursor = 0
		return
	}

	// Взвешенная выборка без возвращения: избранные с весом 3, остальные 1
	const favoriteWeight = 3
	remaining := make([]Track, len(c.tracks))
	copy(remaining, c.tracks)

	shuffled := make([]Track, 0, len(remaining))
	for len(remaining) > 0 {
		total := 0
		for _, t := range remaining {
			if t.Favorite {
				total += favoriteWeight
			} else {
				total++
			}
		}

		pick := rand.IntN(total)
		for i, t := range remaining {
			weight := 1
			if t.Favorite {
				weight = favoriteWeight
			}
			if pick < weight {
				shuffled = append(shuffled, t)
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
			pick -= weight
		}
	}

	c.tracks = shuffled
	c.cursor = 0
}

func newLocalTrack(path string, extractor *metadata.Extractor) Track {
	track := Track{Path: path}

	meta := extractor.ExtractFromFile(path)
	track.Artist = meta.Artist
	track.Title = meta.Title
	track.Album = meta.Album
	track.Year = meta.Year

	if stat, err := os.Stat(path); err == nil {
		track.Size = stat.Size()
	}
	return track
}

func isMP3(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// remoteTitle извлекает название трека из URL
func remoteTitle(url string) string {
	name := url
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "?"); idx != -1 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, ".mp3")
	if name == "" {
		return url
	}
	return name
}
