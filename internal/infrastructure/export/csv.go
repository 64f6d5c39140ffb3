// internal/infrastructure/export/csv.go
package export

import (
	"encoding/csv"
	"os"
	"strconv"
)

// csvHeader — порядок колонок в CSV-выгрузке
var csvHeader = []string{
	"datetime", "open_time_ms",
	"open", "high", "low", "close", "volume",
	"volume_threshold", "body_percentage", "is_key_candle",
	"in_accumulation_zone", "zone_quality_score", "atr", "volume_ma",
	"is_in_trend", "trend_id", "trend_r2", "trend_slope", "trend_direction",
	"is_triple_coincidence", "coincident_zone_score", "coincident_trend_r2",
	"coincident_trend_slope", "coincident_trend_direction",
	"candle_score", "zone_score", "trend_score", "base_score", "advanced_score", "final_score",
}

// CSVSaver пишет результаты в CSV с заголовком
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Datetime,
			strconv.FormatInt(row.OpenTimeMs, 10),
			floatStr(row.Open),
			floatStr(row.High),
			floatStr(row.Low),
			floatStr(row.Close),
			floatStr(row.Volume),
			floatStr(row.VolumeThreshold),
			floatStr(row.BodyPercentage),
			strconv.FormatBool(row.IsKeyCandle),
			strconv.FormatBool(row.InAccumulationZone),
			floatStr(row.ZoneQualityScore),
			floatStr(row.ATR),
			floatStr(row.VolumeMA),
			strconv.FormatBool(row.IsInTrend),
			strconv.Itoa(row.TrendID),
			floatStr(row.TrendR2),
			floatStr(row.TrendSlope),
			row.TrendDirection,
			strconv.FormatBool(row.IsTriple),
			floatStr(row.CoincidentZoneScore),
			floatStr(row.CoincidentTrendR2),
			floatStr(row.CoincidentTrendSlope),
			row.CoincidentTrendDirection,
			floatStr(row.CandleScore),
			floatStr(row.ZoneScore),
			floatStr(row.TrendScore),
			floatStr(row.BaseScore),
			floatStr(row.AdvancedScore),
			floatStr(row.FinalScore),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
