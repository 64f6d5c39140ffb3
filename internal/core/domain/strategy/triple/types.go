// internal/core/domain/strategy/triple/types.go
package triple

import (
	"crypto-trend-screener/internal/core/domain/detectors/accumulation"
	"crypto-trend-screener/internal/core/domain/detectors/keycandle"
	"crypto-trend-screener/internal/core/domain/detectors/trend"
	"crypto-trend-screener/internal/core/domain/series"
)

// EnrichedBar — бар серии со всеми слоями разметки: три детектора,
// контекст тройного совпадения и балльная оценка
type EnrichedBar struct {
	series.Bar
	KeyCandle   keycandle.Mark    `json:"key_candle"`
	Zone        accumulation.Mark `json:"accumulation"`
	Trend       trend.Annotation  `json:"trend"`
	Coincidence Coincidence       `json:"coincidence"`
	Score       ScoreBreakdown    `json:"score"`
}

// Coincidence — контекст тройного совпадения: оценка ближайшей зоны
// и метрики ближайшего тренда из окна поиска
type Coincidence struct {
	IsTriple       bool            `json:"is_triple_coincidence"`
	ZoneScore      float64         `json:"coincident_zone_score"`
	TrendRSquared  float64         `json:"coincident_trend_r2"`
	TrendSlope     float64         `json:"coincident_trend_slope"`
	TrendDirection trend.Direction `json:"coincident_trend_direction"`
}

// ScoreBreakdown — покомпонентная балльная оценка сигнала
type ScoreBreakdown struct {
	Scored        bool    `json:"scored"`
	CandleScore   float64 `json:"candle_score"`
	ZoneScore     float64 `json:"zone_score"`
	TrendScore    float64 `json:"trend_score"`
	BaseScore     float64 `json:"base_score"`
	AdvancedScore float64 `json:"advanced_score"`
	FinalScore    float64 `json:"final_score"`
}

// defaultCoincidence — значения для баров без совпадения
var defaultCoincidence = Coincidence{
	IsTriple:       false,
	ZoneScore:      0.0,
	TrendRSquared:  0.0,
	TrendSlope:     0.0,
	TrendDirection: trend.DirectionNone,
}
