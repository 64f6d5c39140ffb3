// internal/core/domain/strategy/triple/scorer_test.go
package triple

import (
	"math"
	"testing"

	"crypto-trend-screener/internal/core/domain/detectors/trend"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		value, minVal, maxVal, want float64
	}{
		{5, 0, 10, 0.5},
		{0, 0, 10, 0.0},
		{10, 0, 10, 1.0},
		{-3, 0, 10, 0.0},  // ниже диапазона — прижимается к 0
		{15, 0, 10, 1.0},  // выше диапазона — прижимается к 1
		{7, 7, 7, 0.5},    // вырожденный диапазон — нейтральное значение
		{0.65, 0.45, 0.85, 0.5},
	}

	for _, c := range cases {
		if got := normalize(c.value, c.minVal, c.maxVal); !almostEqual(got, c.want) {
			t.Errorf("normalize(%v, %v, %v) = %v, ожидалось %v", c.value, c.minVal, c.maxVal, got, c.want)
		}
	}
}

func TestScoreCandleMorphology(t *testing.T) {
	// Объем вдвое выше порога дает волюметрический максимум 0.6,
	// дальше оценку различает только морфология тела
	cases := []struct {
		bodyPerc, want float64
	}{
		{30, 1.00}, // оптимальное тело 15-40%
		{15, 1.00},
		{40, 1.00},
		{50, 0.92}, // крупное тело 40-60%
		{10, 0.84}, // мелкое тело 5-15%
		{3, 0.72},  // почти доджи
		{80, 0.72},
	}

	for _, c := range cases {
		var row EnrichedBar
		row.Volume = 200
		row.KeyCandle.VolumeThreshold = 100
		row.KeyCandle.BodyPercentage = c.bodyPerc

		if got := scoreCandle(row); !almostEqual(got, c.want) {
			t.Errorf("scoreCandle(body%%=%v) = %v, ожидалось %v", c.bodyPerc, got, c.want)
		}
	}
}

func TestScoreCandleVolume(t *testing.T) {
	var row EnrichedBar
	row.KeyCandle.VolumeThreshold = 100
	row.KeyCandle.BodyPercentage = 30

	// Объем ровно на пороге — нижняя граница волюметрической шкалы
	row.Volume = 100
	if got := scoreCandle(row); !almostEqual(got, 0.6*0.0+0.4*1.0) {
		t.Errorf("объем на пороге: %v, ожидалось 0.4", got)
	}

	// Полпути до двойного порога — середина шкалы
	row.Volume = 150
	if got := scoreCandle(row); !almostEqual(got, 0.6*0.5+0.4*1.0) {
		t.Errorf("объем на середине шкалы: %v, ожидалось 0.7", got)
	}

	// Тройной порог прижимается к максимуму
	row.Volume = 300
	if got := scoreCandle(row); !almostEqual(got, 1.0) {
		t.Errorf("объем втрое выше порога: %v, ожидалось 1.0", got)
	}
}

func TestScoreZone(t *testing.T) {
	cases := []struct{ quality, want float64 }{
		{0.45, 0.0},
		{0.65, 0.5},
		{0.85, 1.0},
		{1.50, 1.0},
		{0.10, 0.0},
	}

	for _, c := range cases {
		if got := scoreZone(c.quality); !almostEqual(got, c.want) {
			t.Errorf("scoreZone(%v) = %v, ожидалось %v", c.quality, got, c.want)
		}
	}
}

func TestScoreTrend(t *testing.T) {
	cases := []struct {
		name      string
		r2, slope float64
		direction trend.Direction
		want      float64
	}{
		{"сильный бычий", 0.8, 0.5, trend.DirectionBullish, 1.3 * 1.15 * 1.0},
		{"крутой наклон прижат", 0.8, 2.0, trend.DirectionBullish, 1.3 * 1.15 * 1.0},
		{"средний медвежий", 0.5, 0.25, trend.DirectionBearish, 1.0 * 0.9 * 0.5},
		{"слабый боковой", 0.3, 0.5, trend.DirectionFlat, 0.9 * 0.9 * 1.0},
		{"нулевой наклон", 0.8, 0.0, trend.DirectionBullish, 0.0},
	}

	for _, c := range cases {
		if got := scoreTrend(c.r2, c.direction, c.slope); !almostEqual(got, c.want) {
			t.Errorf("%s: scoreTrend = %v, ожидалось %v", c.name, got, c.want)
		}
	}
}

func TestScoreFullBreakdown(t *testing.T) {
	var row EnrichedBar
	row.Volume = 100
	row.KeyCandle.VolumeThreshold = 50
	row.KeyCandle.BodyPercentage = 20
	row.Coincidence = Coincidence{
		IsTriple:       true,
		ZoneScore:      0.85,
		TrendRSquared:  0.8,
		TrendSlope:     0.5,
		TrendDirection: trend.DirectionBullish,
	}

	out := Score([]EnrichedBar{row})
	s := out[0].Score

	if !s.Scored {
		t.Fatal("совпадение должно получить оценку")
	}
	if !almostEqual(s.CandleScore, 1.0) {
		t.Errorf("candle_score = %v, ожидалось 1.0", s.CandleScore)
	}
	if !almostEqual(s.ZoneScore, 1.0) {
		t.Errorf("zone_score = %v, ожидалось 1.0", s.ZoneScore)
	}
	wantTrend := 1.3 * 1.15
	if !almostEqual(s.TrendScore, wantTrend) {
		t.Errorf("trend_score = %v, ожидалось %v", s.TrendScore, wantTrend)
	}

	wantBase := 1.0*0.30 + 1.0*0.35 + wantTrend*0.35
	if !almostEqual(s.BaseScore, wantBase) {
		t.Errorf("base_score = %v, ожидалось %v", s.BaseScore, wantBase)
	}

	// R² 0.8 > 0.75 дает бонус надежности, бычий тренд с объемом
	// выше 80 — максимальный потенциал доходности
	wantAdvanced := 0.15*0.5 + 0.85*0.5
	if !almostEqual(s.AdvancedScore, wantAdvanced) {
		t.Errorf("advanced_score = %v, ожидалось %v", s.AdvancedScore, wantAdvanced)
	}
	if !almostEqual(s.FinalScore, wantBase*0.7+wantAdvanced*0.3) {
		t.Errorf("final_score = %v, ожидалось %v", s.FinalScore, wantBase*0.7+wantAdvanced*0.3)
	}
}

func TestScoreProfitPotential(t *testing.T) {
	base := func(direction trend.Direction, volume float64) EnrichedBar {
		var row EnrichedBar
		row.Volume = volume
		row.KeyCandle.VolumeThreshold = volume
		row.Coincidence = Coincidence{
			IsTriple:       true,
			TrendRSquared:  0.5, // без бонуса надежности
			TrendDirection: direction,
		}
		return row
	}

	cases := []struct {
		name string
		row  EnrichedBar
		want float64
	}{
		{"медвежий базовый", base(trend.DirectionBearish, 100), 0.6 * 0.5},
		{"бычий малый объем", base(trend.DirectionBullish, 40), 0.6 * 0.5},
		{"бычий средний объем", base(trend.DirectionBullish, 60), 0.75 * 0.5},
		{"бычий высокий объем", base(trend.DirectionBullish, 90), 0.85 * 0.5},
	}

	for _, c := range cases {
		out := Score([]EnrichedBar{c.row})
		if got := out[0].Score.AdvancedScore; !almostEqual(got, c.want) {
			t.Errorf("%s: advanced_score = %v, ожидалось %v", c.name, got, c.want)
		}
	}
}

func TestScoreSkipsNonTriples(t *testing.T) {
	rows := []EnrichedBar{makeRow(false, true, true), makeRow(true, false, false)}

	out := Score(rows)
	for i, r := range out {
		if r.Score.Scored || r.Score.FinalScore != 0 {
			t.Errorf("бар %d без совпадения получил оценку %+v", i, r.Score)
		}
	}
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	var row EnrichedBar
	row.Volume = 100
	row.KeyCandle.VolumeThreshold = 50
	row.Coincidence.IsTriple = true
	rows := []EnrichedBar{row}

	Score(rows)
	if rows[0].Score.Scored {
		t.Error("Score изменил входную серию")
	}
}
