// internal/core/domain/detectors/keycandle/detector_test.go
package keycandle

import (
	"errors"
	"math"
	"testing"

	"crypto-trend-screener/internal/core/domain/series"
)

// quietBar — обычная свеча с заданным объемом
func quietBar(volume float64) series.Bar {
	return series.Bar{Open: 100, High: 101, Low: 99, Close: 100.8, Volume: volume}
}

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.5, 3},
		{0.8, 4.2},
		{1, 5},
	}
	for _, c := range cases {
		if got := quantile(values, c.q); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("quantile(q=%v) = %v, ожидалось %v", c.q, got, c.want)
		}
	}

	if got := quantile([]float64{7}, 0.8); got != 7 {
		t.Errorf("quantile одного значения = %v, ожидалось 7", got)
	}
}

func TestDetectKeyCandle(t *testing.T) {
	cfg := Config{VolumeLookback: 10, VolumePercentile: 80, MaxBodyPercentage: 30}

	bars := make([]series.Bar, 0, 12)
	for i := 0; i < 10; i++ {
		bars = append(bars, quietBar(10))
	}
	// Высокий объем, малое тело: ключевая свеча
	bars = append(bars, series.Bar{Open: 100, High: 102, Low: 98, Close: 100.5, Volume: 100})
	// Высокий объем, но крупное тело: не ключевая
	bars = append(bars, series.Bar{Open: 98, High: 102, Low: 98, Close: 102, Volume: 100})

	marks, err := Detect(bars, cfg)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(marks) != len(bars) {
		t.Fatalf("len(marks) = %d", len(marks))
	}

	if !marks[10].IsKeyCandle {
		t.Errorf("бар 10: ожидалась ключевая свеча, получено %+v", marks[10])
	}
	if marks[10].BodyPercentage > 30 {
		t.Errorf("бар 10: body%% = %v", marks[10].BodyPercentage)
	}
	if marks[11].IsKeyCandle {
		t.Errorf("бар 11 с крупным телом не должен быть ключевым: %+v", marks[11])
	}
	if marks[11].BodyPercentage != 100 {
		t.Errorf("бар 11: body%% = %v, ожидалось 100", marks[11].BodyPercentage)
	}
}

func TestDetectWarmupWithoutThreshold(t *testing.T) {
	cfg := Config{VolumeLookback: 10, VolumePercentile: 80, MaxBodyPercentage: 30}

	bars := make([]series.Bar, 8)
	for i := range bars {
		bars[i] = quietBar(1000) // объем огромный, но истории нет
	}

	marks, err := Detect(bars, cfg)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	// min_periods = lookback/2 = 5: порог появляется с бара 5
	for i := 0; i < 5; i++ {
		if marks[i].HasThreshold || marks[i].IsKeyCandle {
			t.Errorf("бар %d без истории не должен иметь порога: %+v", i, marks[i])
		}
	}
	if !marks[5].HasThreshold {
		t.Errorf("бар 5: порог должен быть рассчитан, получено %+v", marks[5])
	}
}

func TestDetectOwnVolumeExcluded(t *testing.T) {
	cfg := Config{VolumeLookback: 10, VolumePercentile: 80, MaxBodyPercentage: 50}

	bars := make([]series.Bar, 0, 11)
	for i := 0; i < 10; i++ {
		bars = append(bars, quietBar(10))
	}
	// Всплеск объема: порог бара считается по предыдущим десяти барам
	bars = append(bars, series.Bar{Open: 100, High: 104, Low: 96, Close: 101, Volume: 1000})

	marks, err := Detect(bars, cfg)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if marks[10].VolumeThreshold != 10 {
		t.Errorf("порог = %v, ожидалось 10 (без собственного объема)", marks[10].VolumeThreshold)
	}
	if !marks[10].IsKeyCandle {
		t.Errorf("бар 10: ожидалась ключевая свеча, получено %+v", marks[10])
	}
}

func TestDetectZeroRangeCandle(t *testing.T) {
	cfg := Config{VolumeLookback: 4, VolumePercentile: 80, MaxBodyPercentage: 30}

	bars := []series.Bar{
		quietBar(10), quietBar(10), quietBar(10), quietBar(10),
		{Open: 100, High: 100, Low: 100, Close: 100, Volume: 500},
	}

	marks, err := Detect(bars, cfg)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	last := marks[len(marks)-1]
	if last.BodyPercentage != 100 {
		t.Errorf("свеча без диапазона: body%% = %v, ожидалось 100", last.BodyPercentage)
	}
	if last.IsKeyCandle {
		t.Error("свеча без диапазона не должна быть ключевой")
	}
}

func TestDetectInvalidConfig(t *testing.T) {
	cases := []struct {
		cfg  Config
		want error
	}{
		{Config{VolumeLookback: 1, VolumePercentile: 80, MaxBodyPercentage: 30}, ErrInvalidLookback},
		{Config{VolumeLookback: 50, VolumePercentile: 0, MaxBodyPercentage: 30}, ErrInvalidPercentile},
		{Config{VolumeLookback: 50, VolumePercentile: 120, MaxBodyPercentage: 30}, ErrInvalidPercentile},
		{Config{VolumeLookback: 50, VolumePercentile: 80, MaxBodyPercentage: 0}, ErrInvalidBodyLimit},
	}

	for _, c := range cases {
		if _, err := Detect(nil, c.cfg); !errors.Is(err, c.want) {
			t.Errorf("cfg %+v: ожидалась %v, получено %v", c.cfg, c.want, err)
		}
	}
}

func TestCount(t *testing.T) {
	marks := []Mark{{IsKeyCandle: true}, {}, {IsKeyCandle: true}, {}}
	if got := Count(marks); got != 2 {
		t.Errorf("Count = %d, ожидалось 2", got)
	}
}
