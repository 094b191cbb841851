// Package streaming содержит буферизованный HTTP ридер для воспроизведения треков по URL
package streaming

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Reader представляет буферизованный поток для чтения аудио данных по HTTP
type Reader struct {
	reader *bufio.Reader
	resp   *http.Response
}

// NewReader открывает HTTP соединение и возвращает потоковый ридер.
// Общий таймаут клиента не задается: трек может играть дольше любого
// разумного таймаута, ограничиваются только фазы установки соединения.
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       5 * time.Minute,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Сжатие ломает потоковое декодирование, запрашиваем данные как есть
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("User-Agent", "ksound/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	return &Reader{
		reader: bufio.NewReaderSize(resp.Body, bufferSize),
		resp:   resp,
	}, nil
}

// Read реализует интерфейс io.Reader
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.reader.Read(p)
}

// Close закрывает соединение
func (r *Reader) Close() error {
	return r.resp.Body.Close()
}
