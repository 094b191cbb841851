// Package uploader предоставляет функционал для выгрузки избранных треков в S3
package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazadus/ksound/internal/catalog"
	"github.com/hazadus/ksound/internal/metadata"
	"github.com/hazadus/ksound/internal/s3"
)

// Service управляет процессом выгрузки треков
type Service struct {
	s3Uploader        *s3.Uploader
	metadataExtractor *metadata.Extractor
}

// NewService создает новый сервис выгрузки
func NewService(s3Uploader *s3.Uploader) *Service {
	return &Service{
		s3Uploader:        s3Uploader,
		metadataExtractor: metadata.NewExtractor(),
	}
}

// UploadResult содержит результат выгрузки одного трека
type UploadResult struct {
	URL      string
	Metadata metadata.TrackMetadata
	FileInfo *metadata.FileInfo
}

// UploadTrack выгружает один трек в S3 с отслеживанием прогресса
func (s *Service) UploadTrack(ctx context.Context, track catalog.Track, progressCallback func(int64)) (*UploadResult, error) {
	if track.IsRemote() {
		return nil, fmt.Errorf("нельзя выгрузить удаленный трек: %s", track.Path)
	}

	if _, err := os.Stat(track.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("файл не найден: %s", track.Path)
	}

	fileInfo, err := s.metadataExtractor.FileInfo(track.Path)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	trackMetadata := s.metadataExtractor.ExtractFromFile(track.Path)

	file, err := os.Open(track.Path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	// Создаем reader с отслеживанием прогресса
	var reader io.Reader = file
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       fileInfo.Size,
			OnProgress: progressCallback,
		}
	}

	s3Key := getFileNameWithoutExt(track.Path) + ".mp3"

	url, err := s.s3Uploader.UploadFile(ctx, reader, s3Key)
	if err != nil {
		return nil, fmt.Errorf("ошибка выгрузки в S3: %w", err)
	}

	return &UploadResult{
		URL:      url,
		Metadata: trackMetadata,
		FileInfo: fileInfo,
	}, nil
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}

// getFileNameWithoutExt возвращает имя файла без расширения
func getFileNameWithoutExt(filePath string) string {
	fileName := filepath.Base(filePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
