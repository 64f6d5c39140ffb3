// internal/core/domain/detectors/keycandle/detector.go
package keycandle

import (
	"math"
	"sort"

	"crypto-trend-screener/internal/core/domain/series"
)

// Mark — результат анализа одной свечи
type Mark struct {
	VolumeThreshold float64 `json:"volume_threshold"`
	HasThreshold    bool    `json:"has_threshold"`
	BodySize        float64 `json:"body_size"`
	CandleRange     float64 `json:"candle_range"`
	BodyPercentage  float64 `json:"body_percentage"`
	IsKeyCandle     bool    `json:"is_key_candle"`
}

// Detect находит ключевые свечи: аномально высокий объем при малом теле.
// Порог объема — скользящий перцентиль по окну, заканчивающемуся на
// предыдущем баре: собственный объем свечи не влияет на ее порог.
// Барам без достаточной истории порог не присваивается, и ключевыми
// они быть не могут.
func Detect(bars []series.Bar, cfg Config) ([]Mark, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	marks := make([]Mark, len(bars))
	volumes := series.Volumes(bars)

	minPeriods := cfg.VolumeLookback / 2
	if minPeriods < 1 {
		minPeriods = 1
	}

	for i, b := range bars {
		m := &marks[i]
		m.BodySize = b.Body()
		m.CandleRange = b.Range()

		if m.CandleRange > 0 {
			m.BodyPercentage = m.BodySize / m.CandleRange * 100
		} else {
			// Свеча без диапазона считается полностью телом
			m.BodyPercentage = 100
		}

		start := i - cfg.VolumeLookback
		if start < 0 {
			start = 0
		}
		window := volumes[start:i]
		if len(window) < minPeriods {
			continue
		}

		m.VolumeThreshold = quantile(window, cfg.VolumePercentile/100)
		m.HasThreshold = true
		m.IsKeyCandle = b.Volume >= m.VolumeThreshold &&
			m.BodyPercentage <= cfg.MaxBodyPercentage
	}

	return marks, nil
}

// quantile возвращает q-квантиль (0..1) с линейной интерполяцией
// между соседними порядковыми статистиками
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Count возвращает количество ключевых свечей в разметке
func Count(marks []Mark) int {
	n := 0
	for _, m := range marks {
		if m.IsKeyCandle {
			n++
		}
	}
	return n
}
