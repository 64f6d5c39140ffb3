// internal/core/domain/detectors/accumulation/detector.go
package accumulation

import (
	"math"

	"crypto-trend-screener/internal/core/domain/series"
)

// Mark — результат анализа одного бара
type Mark struct {
	InZone       bool    `json:"in_accumulation_zone"`
	QualityScore float64 `json:"zone_quality_score"`
	ATR          float64 `json:"atr"`
	HasATR       bool    `json:"has_atr"`
	VolumeMA     float64 `json:"volume_ma"`
	HasVolumeMA  bool    `json:"has_volume_ma"`
}

// zone — текущая открытая зона накопления
type zone struct {
	start   int
	high    float64
	low     float64
	volSum  float64
	periods int
}

// Detect находит зоны накопления: участки с повышенным объемом, где цена
// зажата в диапазоне не шире ATR*ATRMultiplier.
//
// Зона открывается баром с объемом выше VolumeThreshold-кратного среднего
// и поглощает последующие бары, пока ее высота не превысит предел. Зоны
// короче MinZonePeriods отбрасываются; принятые получают общую оценку
// качества на каждом баре.
func Detect(bars []series.Bar, cfg Config) ([]Mark, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	marks := make([]Mark, len(bars))
	fillATR(bars, cfg.ATRPeriod, marks)
	fillVolumeMA(bars, cfg.VolumeMAPeriod, marks)

	var current *zone
	for i, b := range bars {
		m := marks[i]
		if !m.HasATR || !m.HasVolumeMA {
			continue
		}

		volumeCondition := b.Volume > m.VolumeMA*cfg.VolumeThreshold

		if current == nil {
			if volumeCondition {
				current = &zone{start: i, high: b.High, low: b.Low, volSum: b.Volume, periods: 1}
			}
			continue
		}

		candHigh := math.Max(current.high, b.High)
		candLow := math.Min(current.low, b.Low)
		if candHigh-candLow <= m.ATR*cfg.ATRMultiplier {
			// Бар помещается в зону
			current.high = candHigh
			current.low = candLow
			current.volSum += b.Volume
			current.periods++
			continue
		}

		// Высота зоны превышена — зона закрывается на предыдущем баре
		closeZone(marks, current, i, cfg.MinZonePeriods)
		current = nil
		if volumeCondition {
			current = &zone{start: i, high: b.High, low: b.Low, volSum: b.Volume, periods: 1}
		}
	}

	if current != nil {
		closeZone(marks, current, len(bars), cfg.MinZonePeriods)
	}

	return marks, nil
}

// closeZone размечает принятую зону на барах [z.start, end)
func closeZone(marks []Mark, z *zone, end, minPeriods int) {
	if z.periods < minPeriods {
		return
	}

	score := zoneQuality(marks[z.start:end], z)
	for i := z.start; i < end; i++ {
		marks[i].InZone = true
		marks[i].QualityScore = score
	}
}

// zoneQuality — оценка качества зоны: сочетание концентрации объема,
// плотности диапазона относительно ATR и длительности, с потолком 2.0
func zoneQuality(zoneMarks []Mark, z *zone) float64 {
	if len(zoneMarks) == 0 || z.periods == 0 {
		return 0
	}

	var atrSum, volMASum float64
	var n int
	for _, m := range zoneMarks {
		if !m.HasATR || !m.HasVolumeMA {
			continue
		}
		atrSum += m.ATR
		volMASum += m.VolumeMA
		n++
	}
	if n == 0 {
		return 0
	}

	avgATR := atrSum / float64(n)
	avgVolMA := volMASum / float64(n)
	if avgATR == 0 || avgVolMA == 0 {
		return 0
	}

	volumeFactor := z.volSum / (avgVolMA * float64(z.periods))
	rangeVsATR := (z.high - z.low) / avgATR
	timeFactor := math.Min(1, float64(z.periods)/20)
	priceFactor := 1 / (rangeVsATR + 1e-6)

	score := volumeFactor*0.4 + priceFactor*0.4 + timeFactor*0.2
	return math.Min(2.0, score)
}

// fillATR заполняет ATR сглаживанием истинного диапазона (EWM, alpha=1/period).
// Значение определено начиная с бара period-1.
func fillATR(bars []series.Bar, period int, marks []Mark) {
	if len(bars) == 0 {
		return
	}

	alpha := 1 / float64(period)
	var ewm float64

	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prevClose := bars[i-1].Close
			tr = math.Max(tr, math.Max(
				math.Abs(b.High-prevClose),
				math.Abs(b.Low-prevClose),
			))
		}

		if i == 0 {
			ewm = tr
		} else {
			ewm = (1-alpha)*ewm + alpha*tr
		}

		if i >= period-1 {
			marks[i].ATR = ewm
			marks[i].HasATR = true
		}
	}
}

// fillVolumeMA заполняет скользящее среднее объема по окну, заканчивающемуся
// на предыдущем баре (объем текущего бара сравнивается со средним прошлых)
func fillVolumeMA(bars []series.Bar, period int, marks []Mark) {
	minPeriods := period / 2
	if minPeriods < 1 {
		minPeriods = 1
	}

	for i := range bars {
		start := i - period
		if start < 0 {
			start = 0
		}
		window := bars[start:i]
		if len(window) < minPeriods {
			continue
		}

		var sum float64
		for _, b := range window {
			sum += b.Volume
		}
		marks[i].VolumeMA = sum / float64(len(window))
		marks[i].HasVolumeMA = true
	}
}

// Count возвращает количество баров внутри зон накопления
func Count(marks []Mark) int {
	n := 0
	for _, m := range marks {
		if m.InZone {
			n++
		}
	}
	return n
}
