// internal/infrastructure/export/row.go
package export

import (
	"time"

	"crypto-trend-screener/internal/core/domain/strategy/triple"
)

// Row — плоская строка результата для выгрузки (CSV/JSON/Parquet).
// Пакет export не зависит от формата хранения: одна и та же строка
// пишется любым из сейверов.
type Row struct {
	Datetime   string `json:"datetime" parquet:"datetime"`
	OpenTimeMs int64  `json:"open_time_ms" parquet:"open_time_ms"`

	Open   float64 `json:"open" parquet:"open"`
	High   float64 `json:"high" parquet:"high"`
	Low    float64 `json:"low" parquet:"low"`
	Close  float64 `json:"close" parquet:"close"`
	Volume float64 `json:"volume" parquet:"volume"`

	VolumeThreshold float64 `json:"volume_threshold" parquet:"volume_threshold"`
	BodyPercentage  float64 `json:"body_percentage" parquet:"body_percentage"`
	IsKeyCandle     bool    `json:"is_key_candle" parquet:"is_key_candle"`

	InAccumulationZone bool    `json:"in_accumulation_zone" parquet:"in_accumulation_zone"`
	ZoneQualityScore   float64 `json:"zone_quality_score" parquet:"zone_quality_score"`
	ATR                float64 `json:"atr" parquet:"atr"`
	VolumeMA           float64 `json:"volume_ma" parquet:"volume_ma"`

	IsInTrend      bool    `json:"is_in_trend" parquet:"is_in_trend"`
	TrendID        int     `json:"trend_id" parquet:"trend_id"`
	TrendR2        float64 `json:"trend_r2" parquet:"trend_r2"`
	TrendSlope     float64 `json:"trend_slope" parquet:"trend_slope"`
	TrendDirection string  `json:"trend_direction" parquet:"trend_direction"`

	IsTriple                 bool    `json:"is_triple_coincidence" parquet:"is_triple_coincidence"`
	CoincidentZoneScore      float64 `json:"coincident_zone_score" parquet:"coincident_zone_score"`
	CoincidentTrendR2        float64 `json:"coincident_trend_r2" parquet:"coincident_trend_r2"`
	CoincidentTrendSlope     float64 `json:"coincident_trend_slope" parquet:"coincident_trend_slope"`
	CoincidentTrendDirection string  `json:"coincident_trend_direction" parquet:"coincident_trend_direction"`

	CandleScore   float64 `json:"candle_score" parquet:"candle_score"`
	ZoneScore     float64 `json:"zone_score" parquet:"zone_score"`
	TrendScore    float64 `json:"trend_score" parquet:"trend_score"`
	BaseScore     float64 `json:"base_score" parquet:"base_score"`
	AdvancedScore float64 `json:"advanced_score" parquet:"advanced_score"`
	FinalScore    float64 `json:"final_score" parquet:"final_score"`
}

// FromEnrichedBar разворачивает размеченный бар в плоскую строку выгрузки
func FromEnrichedBar(row triple.EnrichedBar) Row {
	return Row{
		Datetime:   row.OpenTime.UTC().Format(time.RFC3339),
		OpenTimeMs: row.OpenTime.UnixMilli(),

		Open:   row.Open,
		High:   row.High,
		Low:    row.Low,
		Close:  row.Close,
		Volume: row.Volume,

		VolumeThreshold: row.KeyCandle.VolumeThreshold,
		BodyPercentage:  row.KeyCandle.BodyPercentage,
		IsKeyCandle:     row.KeyCandle.IsKeyCandle,

		InAccumulationZone: row.Zone.InZone,
		ZoneQualityScore:   row.Zone.QualityScore,
		ATR:                row.Zone.ATR,
		VolumeMA:           row.Zone.VolumeMA,

		IsInTrend:      row.Trend.InTrend,
		TrendID:        row.Trend.TrendID,
		TrendR2:        row.Trend.RSquared,
		TrendSlope:     row.Trend.Slope,
		TrendDirection: string(row.Trend.Direction),

		IsTriple:                 row.Coincidence.IsTriple,
		CoincidentZoneScore:      row.Coincidence.ZoneScore,
		CoincidentTrendR2:        row.Coincidence.TrendRSquared,
		CoincidentTrendSlope:     row.Coincidence.TrendSlope,
		CoincidentTrendDirection: string(row.Coincidence.TrendDirection),

		CandleScore:   row.Score.CandleScore,
		ZoneScore:     row.Score.ZoneScore,
		TrendScore:    row.Score.TrendScore,
		BaseScore:     row.Score.BaseScore,
		AdvancedScore: row.Score.AdvancedScore,
		FinalScore:    row.Score.FinalScore,
	}
}

// FromEnrichedBars конвертирует всю серию размеченных баров
func FromEnrichedBars(rows []triple.EnrichedBar) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = FromEnrichedBar(row)
	}
	return out
}
