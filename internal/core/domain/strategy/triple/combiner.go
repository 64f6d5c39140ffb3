// internal/core/domain/strategy/triple/combiner.go
package triple

import (
	"errors"
	"fmt"
)

// ErrInvalidProximity — окно поиска совпадений задано некорректно
var ErrInvalidProximity = errors.New("proximity_lookback должен быть >= 1")

// CombinerConfig — параметры поиска тройных совпадений
type CombinerConfig struct {
	// ProximityLookback — сколько баров назад искать зону и тренд
	ProximityLookback int
}

// DefaultCombinerConfig — окно поиска по умолчанию
var DefaultCombinerConfig = CombinerConfig{
	ProximityLookback: 8,
}

// Validate проверяет параметры комбинатора
func (c CombinerConfig) Validate() error {
	if c.ProximityLookback < 1 {
		return fmt.Errorf("%w: получено %d", ErrInvalidProximity, c.ProximityLookback)
	}
	return nil
}

// Combine находит тройные совпадения: ключевая свеча, рядом с которой
// в окне поиска встречаются и зона накопления, и мини-тренд.
// Окно заканчивается на баре перед текущим — сама свеча не учитывается.
// Контекст берется из самых свежих вхождений зоны и тренда в окне.
// Вход не мутируется.
func Combine(rows []EnrichedBar, cfg CombinerConfig) ([]EnrichedBar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Combine: %w", err)
	}

	out := make([]EnrichedBar, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].Coincidence = defaultCoincidence
	}

	for i := range out {
		if !out[i].KeyCandle.IsKeyCandle {
			continue
		}

		start := i - cfg.ProximityLookback
		if start < 0 {
			start = 0
		}

		lastZone, lastTrend := -1, -1
		for j := start; j < i; j++ {
			if out[j].Zone.InZone {
				lastZone = j
			}
			if out[j].Trend.InTrend {
				lastTrend = j
			}
		}
		if lastZone < 0 || lastTrend < 0 {
			continue
		}

		out[i].Coincidence = Coincidence{
			IsTriple:       true,
			ZoneScore:      out[lastZone].Zone.QualityScore,
			TrendRSquared:  out[lastTrend].Trend.RSquared,
			TrendSlope:     out[lastTrend].Trend.Slope,
			TrendDirection: out[lastTrend].Trend.Direction,
		}
	}

	return out, nil
}

// CountTriples возвращает число тройных совпадений в серии
func CountTriples(rows []EnrichedBar) int {
	count := 0
	for i := range rows {
		if rows[i].Coincidence.IsTriple {
			count++
		}
	}
	return count
}

// Signals возвращает только бары с тройным совпадением
func Signals(rows []EnrichedBar) []EnrichedBar {
	signals := make([]EnrichedBar, 0)
	for i := range rows {
		if rows[i].Coincidence.IsTriple {
			signals = append(signals, rows[i])
		}
	}
	return signals
}
