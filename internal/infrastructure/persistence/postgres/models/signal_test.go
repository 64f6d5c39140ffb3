// internal/infrastructure/persistence/postgres/models/signal_test.go
package models

import (
	"testing"
	"time"

	"crypto-trend-screener/internal/core/domain/detectors/keycandle"
	"crypto-trend-screener/internal/core/domain/detectors/trend"
	"crypto-trend-screener/internal/core/domain/series"
	"crypto-trend-screener/internal/core/domain/strategy/triple"

	"github.com/google/uuid"
)

func TestNewTripleSignal(t *testing.T) {
	row := triple.EnrichedBar{
		Bar: series.Bar{
			OpenTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Open:     100,
			High:     101,
			Low:      99,
			Close:    100.4,
			Volume:   250,
		},
		KeyCandle: keycandle.Mark{
			BodyPercentage: 20,
			IsKeyCandle:    true,
		},
		Coincidence: triple.Coincidence{
			IsTriple:       true,
			ZoneScore:      0.72,
			TrendRSquared:  0.88,
			TrendSlope:     0.31,
			TrendDirection: trend.DirectionBullish,
		},
		Score: triple.ScoreBreakdown{
			Scored:        true,
			CandleScore:   0.9,
			ZoneScore:     0.675,
			TrendScore:    1.2,
			BaseScore:     0.92625,
			AdvancedScore: 0.5,
			FinalScore:    0.798375,
		},
	}

	s := NewTripleSignal("BTCUSDT", "5m", 42, row)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("id %q не является валидным uuid: %v", s.ID, err)
	}
	if s.Symbol != "BTCUSDT" || s.Timeframe != "5m" || s.CandleIndex != 42 {
		t.Errorf("ключ сигнала собран неверно: %s %s %d", s.Symbol, s.Timeframe, s.CandleIndex)
	}
	if !s.OpenTime.Equal(row.OpenTime) {
		t.Errorf("open_time = %v", s.OpenTime)
	}
	if s.Close != 100.4 || s.Volume != 250 || s.BodyPercentage != 20 {
		t.Errorf("поля свечи перенесены неверно: %+v", s)
	}
	if s.ZoneQualityScore != 0.72 || s.TrendRSquared != 0.88 || s.TrendSlope != 0.31 {
		t.Errorf("контекст совпадения перенесен неверно: %+v", s)
	}
	if s.TrendDirection != "bullish" {
		t.Errorf("trend_direction = %q", s.TrendDirection)
	}
	if s.FinalScore != 0.798375 || s.BaseScore != 0.92625 {
		t.Errorf("оценки перенесены неверно: %+v", s)
	}
	if s.CreatedAt.IsZero() {
		t.Error("created_at не установлен")
	}

	// Каждый вызов генерирует новый id
	if s2 := NewTripleSignal("BTCUSDT", "5m", 42, row); s2.ID == s.ID {
		t.Error("повторный вызов вернул тот же id")
	}
}
