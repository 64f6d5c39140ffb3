// internal/infrastructure/api/binance/vision.go
package binance

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"crypto-trend-screener/internal/core/domain/series"
	"crypto-trend-screener/pkg/logger"
)

// visionPath - путь дневных спотовых архивов свечей на Binance Vision
const visionPath = "/data/spot/daily/klines"

// klineColumns - число колонок дневного архива: время открытия, OHLCV,
// время закрытия, объем в котируемой валюте, число сделок, тейкерские
// объемы и служебное поле, которое игнорируется
const klineColumns = 12

// VisionFetcher загружает дневные архивы свечей с Binance Vision,
// зеркалируя скачанные ZIP файлы в локальный каталог
type VisionFetcher struct {
	client      *Client
	baseURL     string
	downloadDir string
}

// NewVisionFetcher создает загрузчик архивов
func NewVisionFetcher(client *Client, baseURL, downloadDir string) *VisionFetcher {
	return &VisionFetcher{
		client:      client,
		baseURL:     strings.TrimRight(baseURL, "/"),
		downloadDir: downloadDir,
	}
}

// ArchiveURL строит URL дневного архива свечей
func (f *VisionFetcher) ArchiveURL(symbol, iv string, day time.Time) string {
	symbol = strings.ToUpper(symbol)
	return fmt.Sprintf("%s%s/%s/%s/%s-%s-%s.zip",
		f.baseURL, visionPath, symbol, iv, symbol, iv, day.Format("2006-01-02"))
}

// archivePath - путь локального зеркала архива
func (f *VisionFetcher) archivePath(symbol, iv string, day time.Time) string {
	symbol = strings.ToUpper(symbol)
	name := fmt.Sprintf("%s-%s-%s.zip", symbol, iv, day.Format("2006-01-02"))
	return filepath.Join(f.downloadDir, symbol, iv, name)
}

// FetchDay возвращает свечи одного дня, скачивая архив при необходимости.
// Уже скачанный архив переиспользуется, если не задан force.
func (f *VisionFetcher) FetchDay(symbol, iv string, day time.Time, force bool) ([]series.Bar, error) {
	zipPath := f.archivePath(symbol, iv, day)

	if force || !fileExists(zipPath) {
		url := f.ArchiveURL(symbol, iv, day)
		logger.Info("📡 Скачивание архива %s", filepath.Base(zipPath))
		if err := f.client.DownloadFile(url, zipPath); err != nil {
			return nil, fmt.Errorf("VisionFetcher.FetchDay: %w", err)
		}
	} else {
		logger.Debug("💾 Используется локальный архив %s", zipPath)
	}

	bars, err := readArchive(zipPath)
	if err != nil {
		return nil, fmt.Errorf("VisionFetcher.FetchDay: %w", err)
	}

	return bars, nil
}

// FetchRange собирает свечи за диапазон дней [from, to] включительно.
// Дни без архива пропускаются с предупреждением; ошибка возвращается,
// только если не удалось получить ни одного дня. Результат отсортирован
// по времени открытия.
func (f *VisionFetcher) FetchRange(symbol, iv string, from, to time.Time, force bool) ([]series.Bar, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("VisionFetcher.FetchRange: пустой диапазон дат %s..%s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var all []series.Bar
	fetched, failed := 0, 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		bars, err := f.FetchDay(symbol, iv, day, force)
		if err != nil {
			failed++
			logger.Warn("⚠️ День %s пропущен: %v", day.Format("2006-01-02"), err)
			continue
		}
		all = append(all, bars...)
		fetched++
	}

	if fetched == 0 {
		return nil, fmt.Errorf("VisionFetcher.FetchRange: не удалось получить данные ни за один из %d дней", failed)
	}

	all = series.SortByOpenTime(all)
	logger.Info("✅ Загружено %d свечей за %d дней (%s %s)", len(all), fetched, strings.ToUpper(symbol), iv)

	return all, nil
}

// readArchive читает CSV свечей из дневного ZIP архива
func readArchive(zipPath string) ([]series.Bar, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	wantCSV := strings.TrimSuffix(filepath.Base(zipPath), ".zip") + ".csv"
	for _, file := range zr.File {
		if file.Name != wantCSV {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open csv in archive: %w", err)
		}
		defer rc.Close()

		return parseKlineCSV(rc)
	}

	return nil, fmt.Errorf("csv %q not found in archive", wantCSV)
}

// parseKlineCSV разбирает строки архива klines в свечи серии
func parseKlineCSV(r io.Reader) ([]series.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = klineColumns

	bars := make([]series.Bar, 0)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line++

		// Некоторые архивы начинаются со строки заголовка
		if line == 1 && !isNumeric(record[0]) {
			continue
		}

		bar, err := parseKlineRecord(record)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// parseKlineRecord разбирает одну строку архива
func parseKlineRecord(record []string) (series.Bar, error) {
	var bar series.Bar
	var err error

	if bar.OpenTime, err = parseTimestamp(record[0]); err != nil {
		return bar, fmt.Errorf("open time: %w", err)
	}
	if bar.Open, err = strconv.ParseFloat(record[1], 64); err != nil {
		return bar, fmt.Errorf("open: %w", err)
	}
	if bar.High, err = strconv.ParseFloat(record[2], 64); err != nil {
		return bar, fmt.Errorf("high: %w", err)
	}
	if bar.Low, err = strconv.ParseFloat(record[3], 64); err != nil {
		return bar, fmt.Errorf("low: %w", err)
	}
	if bar.Close, err = strconv.ParseFloat(record[4], 64); err != nil {
		return bar, fmt.Errorf("close: %w", err)
	}
	if bar.Volume, err = strconv.ParseFloat(record[5], 64); err != nil {
		return bar, fmt.Errorf("volume: %w", err)
	}
	if bar.CloseTime, err = parseTimestamp(record[6]); err != nil {
		return bar, fmt.Errorf("close time: %w", err)
	}
	if bar.QuoteVolume, err = strconv.ParseFloat(record[7], 64); err != nil {
		return bar, fmt.Errorf("quote volume: %w", err)
	}
	if bar.Trades, err = strconv.ParseInt(record[8], 10, 64); err != nil {
		return bar, fmt.Errorf("trades: %w", err)
	}
	if bar.TakerBuyVolume, err = strconv.ParseFloat(record[9], 64); err != nil {
		return bar, fmt.Errorf("taker buy volume: %w", err)
	}
	if bar.TakerBuyQuoteVol, err = strconv.ParseFloat(record[10], 64); err != nil {
		return bar, fmt.Errorf("taker buy quote volume: %w", err)
	}

	return bar, nil
}

// parseTimestamp разбирает метку времени архива. Старые архивы содержат
// миллисекунды, с 2025 года Binance Vision пишет микросекунды.
func parseTimestamp(value string) (time.Time, error) {
	ts, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	if ts > 1e14 {
		return time.UnixMicro(ts).UTC(), nil
	}
	return time.UnixMilli(ts).UTC(), nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
