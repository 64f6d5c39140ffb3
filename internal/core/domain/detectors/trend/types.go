// internal/core/domain/detectors/trend/types.go
package trend

import (
	"crypto-trend-screener/internal/core/domain/series"
)

// Direction — направление мини-тренда
type Direction string

const (
	DirectionNone    Direction = "none"    // бар вне принятых сегментов
	DirectionFlat    Direction = "flat"    // нулевой наклон или вырожденный сегмент
	DirectionBullish Direction = "bullish" // положительный наклон
	DirectionBearish Direction = "bearish" // отрицательный наклон
)

// Annotation — пять полей разметки, добавляемых к каждому бару
type Annotation struct {
	InTrend   bool      `json:"is_in_trend"`
	TrendID   int       `json:"trend_id"`
	RSquared  float64   `json:"trend_r2"`
	Slope     float64   `json:"trend_slope"`
	Direction Direction `json:"trend_direction"`
}

// AnnotatedBar — бар исходной серии вместе с разметкой тренда
type AnnotatedBar struct {
	series.Bar
	Annotation
}

// Fit — результат линейной регрессии по закрытиям сегмента
type Fit struct {
	Slope     float64   `json:"slope"`
	RSquared  float64   `json:"r_squared"`
	Direction Direction `json:"direction"`
}

// defaultAnnotation — значения для баров вне трендов
var defaultAnnotation = Annotation{
	InTrend:   false,
	TrendID:   0,
	RSquared:  0.0,
	Slope:     0.0,
	Direction: DirectionNone,
}
