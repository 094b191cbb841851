package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/player"
	"github.com/hazadus/ksound/internal/session"
	"github.com/hazadus/ksound/internal/tui"
)

// createPlayCommand создает корневую команду воспроизведения каталога
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var playlistPath string
	var random bool

	cmd := &cobra.Command{
		Use:   "ksound [directory]",
		Short: "Play and triage mp3 files from a directory",
		Long: `Scan a directory for mp3 files and play them in an interactive
terminal player with single-key controls for skipping, favoriting
and deleting tracks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := app.Config.LibraryDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}
			return app.play(ctx, dir, playlistPath, random)
		},
	}

	cmd.Flags().StringVarP(&playlistPath, "playlist", "p", "", "play tracks listed in a playlist file instead of scanning a directory")
	cmd.Flags().BoolVarP(&random, "random", "r", false, "shuffle the playlist, favorites come up more often")

	return cmd
}

func (app *Application) play(ctx context.Context, dir, playlistPath string, random bool) error {
	// Собираем каталог треков
	var cat *catalog.Catalog
	var err error

	if playlistPath != "" {
		cat, err = catalog.LoadPlaylist(expandPath(playlistPath))
	} else {
		cat, err = catalog.Scan(expandPath(dir))
	}
	if err != nil {
		return fmt.Errorf("ошибка загрузки каталога: %w", err)
	}

	if cat.Len() == 0 {
		fmt.Println("📂 MP3 файлы не найдены, нечего воспроизводить.")
		return nil
	}

	if random {
		cat.Shuffle(true)
	}

	fmt.Printf("🎵 Найдено треков: %d\n", cat.Len())

	// Инициализируем движок воспроизведения, без аудиоустройства работать нельзя
	engine, err := player.NewPlayer(app.Config.DefaultVolume)
	if err != nil {
		return fmt.Errorf("ошибка инициализации аудио: %w", err)
	}
	defer engine.Close()

	// Запускаем координатор сессии
	coordinator := session.NewCoordinator(engine, cat)
	go coordinator.Run()

	// Сразу начинаем воспроизведение первого трека
	coordinator.Dispatch(session.CmdPlay)

	// Останавливаем сессию по сигналу прерывания
	go func() {
		select {
		case <-ctx.Done():
			coordinator.Dispatch(session.CmdQuit)
		case <-coordinator.Done():
		}
	}()

	// Запускаем интерфейс
	tuiApp := tui.NewApp(coordinator, app.Config.Keys)
	return tuiApp.Run()
}
