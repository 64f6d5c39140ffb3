// internal/infrastructure/api/binance/vision_test.go
package binance

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCSV = "1709251200000,62440.01,62500.00,62400.00,62480.50,123.45,1709251499999,7712345.67,4567,61.72,3856789.01,0\n" +
	"1709251500000,62480.50,62550.00,62450.00,62520.25,98.76,1709251799999,6171234.56,3210,49.38,3085617.28,0\n"

// buildArchive собирает ZIP архив с одним CSV файлом
func buildArchive(t *testing.T, csvName, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(csvName)
	if err != nil {
		t.Fatalf("создание файла в архиве: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("запись csv: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("закрытие архива: %v", err)
	}

	return buf.Bytes()
}

func TestArchiveURL(t *testing.T) {
	f := NewVisionFetcher(NewClient(0), "https://data.binance.vision", t.TempDir())
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	want := "https://data.binance.vision/data/spot/daily/klines/BTCUSDT/5m/BTCUSDT-5m-2024-03-01.zip"
	if got := f.ArchiveURL("btcusdt", "5m", day); got != want {
		t.Errorf("URL = %q,\nожидалось %q", got, want)
	}
}

func TestParseKlineCSV(t *testing.T) {
	bars, err := parseKlineCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parseKlineCSV: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("разобрано %d свечей, ожидалось 2", len(bars))
	}

	b := bars[0]
	if !b.OpenTime.Equal(time.UnixMilli(1709251200000)) {
		t.Errorf("open_time = %v", b.OpenTime)
	}
	if b.Open != 62440.01 || b.High != 62500.00 || b.Low != 62400.00 || b.Close != 62480.50 {
		t.Errorf("цены разобраны неверно: %+v", b)
	}
	if b.Volume != 123.45 || b.QuoteVolume != 7712345.67 {
		t.Errorf("объемы разобраны неверно: %+v", b)
	}
	if b.Trades != 4567 {
		t.Errorf("trades = %d, ожидалось 4567", b.Trades)
	}
	if b.TakerBuyVolume != 61.72 || b.TakerBuyQuoteVol != 3856789.01 {
		t.Errorf("тейкерские объемы разобраны неверно: %+v", b)
	}
}

func TestParseKlineCSVHeaderRow(t *testing.T) {
	withHeader := "open_time,open,high,low,close,volume,close_time,quote_volume,count,taker_buy_volume,taker_buy_quote_volume,ignore\n" +
		sampleCSV

	bars, err := parseKlineCSV(strings.NewReader(withHeader))
	if err != nil {
		t.Fatalf("parseKlineCSV: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("строка заголовка должна пропускаться, разобрано %d свечей", len(bars))
	}
}

func TestParseKlineCSVMicroseconds(t *testing.T) {
	// Архивы 2025 года содержат метки времени в микросекундах
	row := "1756080000000000,100,101,99,100.5,10,1756080299999999,1005,42,5,502.5,0\n"

	bars, err := parseKlineCSV(strings.NewReader(row))
	if err != nil {
		t.Fatalf("parseKlineCSV: %v", err)
	}
	if !bars[0].OpenTime.Equal(time.UnixMicro(1756080000000000)) {
		t.Errorf("микросекундная метка разобрана неверно: %v", bars[0].OpenTime)
	}
}

func TestParseKlineCSVMalformed(t *testing.T) {
	row := "1709251200000,62440.01,62500.00,62400.00,62480.50,not-a-number,1709251499999,1,1,1,1,0\n"

	if _, err := parseKlineCSV(strings.NewReader(row)); err == nil || !strings.Contains(err.Error(), "volume") {
		t.Errorf("ожидалась ошибка разбора объема, получено %v", err)
	}
}

func TestFetchDayReusesLocalArchive(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(buildArchive(t, "BTCUSDT-5m-2024-03-01.csv", sampleCSV))
	}))
	defer srv.Close()

	dir := t.TempDir()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Кладем архив в локальное зеркало заранее
	zipPath := filepath.Join(dir, "BTCUSDT", "5m", "BTCUSDT-5m-2024-03-01.zip")
	if err := os.MkdirAll(filepath.Dir(zipPath), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(zipPath, buildArchive(t, "BTCUSDT-5m-2024-03-01.csv", sampleCSV), 0644); err != nil {
		t.Fatalf("запись архива: %v", err)
	}

	f := NewVisionFetcher(NewClient(0), srv.URL, dir)

	bars, err := f.FetchDay("BTCUSDT", "5m", day, false)
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("разобрано %d свечей из локального архива", len(bars))
	}
	if hits != 0 {
		t.Errorf("локальный архив есть, но сервер вызван %d раз", hits)
	}

	// force перекачивает архив даже при наличии локальной копии
	if _, err := f.FetchDay("BTCUSDT", "5m", day, true); err != nil {
		t.Fatalf("FetchDay force: %v", err)
	}
	if hits != 1 {
		t.Errorf("force должен скачивать заново, сервер вызван %d раз", hits)
	}
}

func TestFetchRangeSkipsMissingDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "BTCUSDT-5m-2024-03-01.zip") {
			w.Write(buildArchive(t, "BTCUSDT-5m-2024-03-01.csv", sampleCSV))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewVisionFetcher(NewClient(0), srv.URL, t.TempDir())
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	bars, err := f.FetchRange("BTCUSDT", "5m", from, to, false)
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("ожидались свечи единственного доступного дня, получено %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].OpenTime.Before(bars[i-1].OpenTime) {
			t.Fatal("свечи должны быть отсортированы по времени открытия")
		}
	}
}

func TestFetchRangeAllDaysMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	f := NewVisionFetcher(NewClient(0), srv.URL, t.TempDir())
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := f.FetchRange("BTCUSDT", "5m", from, from, false); err == nil {
		t.Error("ожидалась ошибка, когда недоступен ни один день")
	}
}

func TestFetchRangeEmptyRange(t *testing.T) {
	f := NewVisionFetcher(NewClient(0), "https://data.binance.vision", t.TempDir())
	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	if _, err := f.FetchRange("BTCUSDT", "5m", from, to, false); err == nil {
		t.Error("перевернутый диапазон дат должен давать ошибку")
	}
}

func TestReadArchiveMissingCSV(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "BTCUSDT-5m-2024-03-01.zip")
	if err := os.WriteFile(zipPath, buildArchive(t, "unexpected.csv", sampleCSV), 0644); err != nil {
		t.Fatalf("запись архива: %v", err)
	}

	if _, err := readArchive(zipPath); err == nil || !strings.Contains(err.Error(), "not found in archive") {
		t.Errorf("ожидалась ошибка про отсутствующий csv, получено %v", err)
	}
}
