// internal/infrastructure/api/binance/client.go
package binance

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"crypto-trend-screener/pkg/logger"
)

// Client - HTTP клиент для публичных данных Binance
type Client struct {
	httpClient *http.Client
}

// NewClient создает клиента с заданным таймаутом запросов
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Get выполняет HTTP запрос и возвращает тело ответа
func (c *Client) Get(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", "CryptoTrendScreener/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// DownloadFile скачивает файл по URL в указанный путь.
// Недокачанный файл удаляется, чтобы не сойти за валидный архив.
func (c *Client) DownloadFile(url, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CryptoTrendScreener/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("binance returned status: %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close file: %w", err)
	}

	logger.Debug("💾 Скачан файл %s", filepath.Base(path))
	return nil
}
