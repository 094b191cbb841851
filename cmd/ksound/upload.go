package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/s3"
	"github.com/hazadus/ksound/internal/uploader"
	"github.com/hazadus/ksound/internal/utils"
)

// createUploadCommand создает команду upload с привязкой к экземпляру приложения
func (app *Application) createUploadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [directory]",
		Short: "Upload favorite tracks to S3 storage",
		Long:  `Upload tracks marked as favorite to S3 storage with progress tracking.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := app.Config.LibraryDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}
			// Контекст с таймаутом для загрузки (30 минут на все файлы)
			uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()
			return app.uploadFavorites(uploadCtx, expandPath(dir))
		},
	}
}

// uploadFavorites выгружает избранные треки каталога в S3
func (app *Application) uploadFavorites(ctx context.Context, dir string) error {
	cat, err := catalog.Scan(dir)
	if err != nil {
		return fmt.Errorf("ошибка сканирования каталога: %w", err)
	}

	var favorites []catalog.Track
	for _, track := range cat.Tracks() {
		if track.Favorite && !track.IsRemote() {
			favorites = append(favorites, track)
		}
	}

	if len(favorites) == 0 {
		fmt.Println("★ Избранных треков нет, выгружать нечего.")
		return nil
	}

	// Создаем S3 uploader
	s3Config := &s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	}

	s3Uploader, err := s3.NewUploader(s3Config)
	if err != nil {
		return fmt.Errorf("ошибка создания S3 uploader: %w", err)
	}

	uploadService := uploader.NewService(s3Uploader)

	fmt.Printf("📤 Выгружаем избранные треки в S3:\n")
	fmt.Printf("   Треков: %d\n", len(favorites))
	fmt.Printf("   Бакет: %s\n", app.Config.AwsBucketName)
	fmt.Println()

	for i, track := range favorites {
		if err := app.uploadTrack(ctx, uploadService, track, i+1, len(favorites)); err != nil {
			return err
		}
	}

	fmt.Printf("\n✅ Все избранные треки выгружены!\n")
	return nil
}

// uploadTrack выгружает один трек с отображением прогресса
func (app *Application) uploadTrack(ctx context.Context, service *uploader.Service, track catalog.Track, num, total int) error {
	fmt.Printf("📦 [%d/%d] %s (%s)\n", num, total, track.DisplayName(), utils.FormatFileSize(track.Size))

	// Создаем канал для отслеживания прогресса
	progressChan := make(chan int64)

	// Запускаем горутину для отображения прогресса
	go func() {
		startTime := time.Now()

		for {
			select {
			case progress, ok := <-progressChan:
				if !ok {
					return // Канал закрыт
				}
				if progress > 0 && track.Size > 0 {
					elapsed := time.Since(startTime)
					percentage := float64(progress) / float64(track.Size) * 100

					// Вычисляем скорость загрузки
					speed := float64(progress) / elapsed.Seconds()

					fmt.Printf("\r📊 Прогресс: %.1f%% | Скорость: %s/s | Прошло: %s",
						percentage,
						utils.FormatFileSize(int64(speed)),
						utils.FormatDuration(elapsed))
				}
			case <-ctx.Done():
				fmt.Printf("\n🚫 Выгрузка отменена\n")
				return
			}
		}
	}()

	result, err := service.UploadTrack(ctx, track, func(bytesRead int64) {
		progressChan <- bytesRead
	})

	close(progressChan)

	if err != nil {
		return fmt.Errorf("ошибка выгрузки файла: %w", err)
	}

	if ctx.Err() != nil {
		return fmt.Errorf("операция отменена: %w", ctx.Err())
	}

	fmt.Printf("\n   URL: %s\n", result.URL)
	return nil
}
