// internal/infrastructure/persistence/postgres/models/signal.go
package models

import (
	"time"

	"crypto-trend-screener/internal/core/domain/strategy/triple"

	"github.com/google/uuid"
)

// TripleSignal — тройное совпадение, сохранённое в БД: ключевая свеча
// вместе с контекстом зоны накопления и мини-тренда и балльной оценкой.
// Пара (symbol, timeframe, candle_index) уникальна: повторный прогон
// того же диапазона обновляет существующую запись.
type TripleSignal struct {
	ID          string    `db:"id"           json:"id"`
	Symbol      string    `db:"symbol"       json:"symbol"`
	Timeframe   string    `db:"timeframe"    json:"timeframe"`
	CandleIndex int       `db:"candle_index" json:"candle_index"`
	OpenTime    time.Time `db:"open_time"    json:"open_time"`

	// Свеча-сигнал
	Open           float64 `db:"open"            json:"open"`
	High           float64 `db:"high"            json:"high"`
	Low            float64 `db:"low"             json:"low"`
	Close          float64 `db:"close"           json:"close"`
	Volume         float64 `db:"volume"          json:"volume"`
	BodyPercentage float64 `db:"body_percentage" json:"body_percentage"`

	// Контекст совпадения из окна поиска
	ZoneQualityScore float64 `db:"zone_quality_score" json:"zone_quality_score"`
	TrendDirection   string  `db:"trend_direction"    json:"trend_direction"`
	TrendSlope       float64 `db:"trend_slope"        json:"trend_slope"`
	TrendRSquared    float64 `db:"trend_r_squared"    json:"trend_r_squared"`

	// Покомпонентная оценка
	CandleScore   float64 `db:"candle_score"   json:"candle_score"`
	ZoneScore     float64 `db:"zone_score"     json:"zone_score"`
	TrendScore    float64 `db:"trend_score"    json:"trend_score"`
	BaseScore     float64 `db:"base_score"     json:"base_score"`
	AdvancedScore float64 `db:"advanced_score" json:"advanced_score"`
	FinalScore    float64 `db:"final_score"    json:"final_score"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewTripleSignal собирает модель сигнала из размеченного бара
func NewTripleSignal(symbol, timeframe string, candleIndex int, row triple.EnrichedBar) *TripleSignal {
	return &TripleSignal{
		ID:          uuid.New().String(),
		Symbol:      symbol,
		Timeframe:   timeframe,
		CandleIndex: candleIndex,
		OpenTime:    row.OpenTime,

		Open:           row.Open,
		High:           row.High,
		Low:            row.Low,
		Close:          row.Close,
		Volume:         row.Volume,
		BodyPercentage: row.KeyCandle.BodyPercentage,

		ZoneQualityScore: row.Coincidence.ZoneScore,
		TrendDirection:   string(row.Coincidence.TrendDirection),
		TrendSlope:       row.Coincidence.TrendSlope,
		TrendRSquared:    row.Coincidence.TrendRSquared,

		CandleScore:   row.Score.CandleScore,
		ZoneScore:     row.Score.ZoneScore,
		TrendScore:    row.Score.TrendScore,
		BaseScore:     row.Score.BaseScore,
		AdvancedScore: row.Score.AdvancedScore,
		FinalScore:    row.Score.FinalScore,

		CreatedAt: time.Now().UTC(),
	}
}
