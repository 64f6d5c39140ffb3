// internal/core/domain/detectors/trend/regression.go
package trend

import (
	"math"
)

// FitSegment строит линейную регрессию методом наименьших квадратов по
// закрытиям сегмента. Ось x — локальный индекс бара 0..n-1, поэтому
// наклон не зависит от позиции сегмента в серии.
//
// Вырожденные сегменты (меньше двух баров или все закрытия одинаковы)
// получают наклон 0, r² 0 и направление flat.
func FitSegment(closes []float64) Fit {
	n := len(closes)
	if n < 2 || allEqual(closes) {
		return Fit{Slope: 0, RSquared: 0, Direction: DirectionFlat}
	}

	fn := float64(n)
	xMean := (fn - 1) / 2

	var ySum float64
	for _, y := range closes {
		ySum += y
	}
	yMean := ySum / fn

	var num, den float64
	for i, y := range closes {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	slope := num / den
	intercept := yMean - slope*xMean

	var ssRes, ssTot float64
	for i, y := range closes {
		pred := slope*float64(i) + intercept
		ssRes += (y - pred) * (y - pred)
		ssTot += (y - yMean) * (y - yMean)
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	// r² удерживается в [0, 1]
	r2 = math.Max(0, math.Min(1, r2))

	return Fit{Slope: slope, RSquared: r2, Direction: directionOf(slope)}
}

// directionOf классифицирует наклон
func directionOf(slope float64) Direction {
	switch {
	case slope > 0:
		return DirectionBullish
	case slope < 0:
		return DirectionBearish
	default:
		return DirectionFlat
	}
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
