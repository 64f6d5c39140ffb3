// internal/core/domain/strategy/triple/scorer.go
package triple

import (
	"math"

	"crypto-trend-screener/internal/core/domain/detectors/trend"
)

// Веса компонентов базовой оценки и итогового смешивания
const (
	candleWeight   = 0.30
	zoneWeight     = 0.35
	trendWeight    = 0.35
	baseWeight     = 0.70
	advancedWeight = 0.30
)

// normalize приводит значение к диапазону [0, 1] относительно границ.
// При совпадающих границах возвращает нейтральные 0.5.
func normalize(value, minVal, maxVal float64) float64 {
	if maxVal == minVal {
		return 0.5
	}
	return math.Max(0.0, math.Min(1.0, (value-minVal)/(maxVal-minVal)))
}

// scoreCandle оценивает ключевую свечу: 60% объем, 40% морфология.
// Волюметрическая шкала растет от порога до двойного порога.
func scoreCandle(row EnrichedBar) float64 {
	volScore := normalize(row.Volume, row.KeyCandle.VolumeThreshold, row.KeyCandle.VolumeThreshold*2)

	bodyPerc := row.KeyCandle.BodyPercentage
	var morphScore float64
	switch {
	case bodyPerc >= 15 && bodyPerc <= 40: // оптимальное тело
		morphScore = 1.0
	case bodyPerc > 40 && bodyPerc <= 60:
		morphScore = 0.8
	case bodyPerc > 5 && bodyPerc < 15:
		morphScore = 0.6
	default:
		morphScore = 0.3
	}

	return volScore*0.6 + morphScore*0.4
}

// scoreZone нормализует качество зоны в рабочем диапазоне [0.45, 0.85]
func scoreZone(quality float64) float64 {
	return normalize(quality, 0.45, 0.85)
}

// scoreTrend оценивает тренд: премия за высокий R², штраф за низкий,
// направленный фактор и нормализованный наклон. Потолок 1.5.
func scoreTrend(r2 float64, direction trend.Direction, slope float64) float64 {
	r2Score := 0.9
	switch {
	case r2 >= 0.6:
		r2Score = 1.3
	case r2 >= 0.45:
		r2Score = 1.0
	}

	directionFactor := 0.90
	if direction == trend.DirectionBullish {
		directionFactor = 1.15
	}

	slopeFactor := normalize(math.Abs(slope), 0, 0.5)

	return math.Min(1.5, r2Score*directionFactor*slopeFactor)
}

// Score проставляет балльную оценку каждому тройному совпадению.
// Базовая оценка — взвешенная сумма компонентов, продвинутая — бонус
// надежности за R² > 0.75 плюс потенциал доходности по направлению и
// объему. Итог: 70% базовой + 30% продвинутой. Вход не мутируется.
func Score(rows []EnrichedBar) []EnrichedBar {
	out := make([]EnrichedBar, len(rows))
	copy(out, rows)

	for i := range out {
		if !out[i].Coincidence.IsTriple {
			out[i].Score = ScoreBreakdown{}
			continue
		}

		c := out[i].Coincidence
		candleScore := scoreCandle(out[i])
		zoneScore := scoreZone(c.ZoneScore)
		trendScore := scoreTrend(c.TrendRSquared, c.TrendDirection, c.TrendSlope)
		baseScore := candleScore*candleWeight + zoneScore*zoneWeight + trendScore*trendWeight

		reliabilityBonus := 0.0
		if c.TrendRSquared > 0.75 {
			reliabilityBonus = 0.15
		}

		profitPotential := 0.6
		if c.TrendDirection == trend.DirectionBullish {
			switch {
			case out[i].Volume > 80:
				profitPotential = 0.85
			case out[i].Volume > 50:
				profitPotential = 0.75
			}
		}

		advancedScore := reliabilityBonus*0.5 + profitPotential*0.5

		out[i].Score = ScoreBreakdown{
			Scored:        true,
			CandleScore:   candleScore,
			ZoneScore:     zoneScore,
			TrendScore:    trendScore,
			BaseScore:     baseScore,
			AdvancedScore: advancedScore,
			FinalScore:    baseScore*baseWeight + advancedScore*advancedWeight,
		}
	}

	return out
}
