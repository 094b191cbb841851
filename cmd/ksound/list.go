package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [directory]",
		Short: "List mp3 files in a directory",
		Long:  `Display a table of mp3 files found in the directory with their tags and flags.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := app.Config.LibraryDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}
			return app.listTracks(expandPath(dir))
		},
	}
}

func (app *Application) listTracks(dir string) error {
	cat, err := catalog.Scan(dir)
	if err != nil {
		return fmt.Errorf("ошибка сканирования каталога: %w", err)
	}

	tracks := cat.Tracks()
	if len(tracks) == 0 {
		fmt.Println("📂 MP3 файлы не найдены.")
		return nil
	}

	fmt.Printf("📚 Найдено треков: %d\n\n", len(tracks))

	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-3s %-25s %-40s %-20s %-10s\n",
		"№", "", "Исполнитель", "Название", "Альбом", "Размер")
	fmt.Println(strings.Repeat("-", 108))

	for i, track := range tracks {
		var flags string
		if track.Favorite {
			flags += "★"
		}
		if track.Skip {
			flags += "⏭"
		}

		artist := utils.TruncateString(track.Artist, 23)
		title := utils.TruncateString(track.Title, 38)
		album := utils.TruncateString(track.Album, 18)

		fmt.Printf("%-4d %-3s %-25s %-40s %-20s %-10s\n",
			i+1, flags, artist, title, album, utils.FormatFileSize(track.Size))
	}

	fmt.Println()
	fmt.Println("💡 Запустите 'ksound' в этом каталоге для воспроизведения")
	return nil
}
