// internal/core/domain/detectors/trend/zigzag.go
package trend

import (
	"fmt"
	"sort"

	"crypto-trend-screener/internal/core/domain/series"
)

// Состояния ZigZag-сканера
type zigzagState int

const (
	stateUndecided zigzagState = 0
	stateUptrend   zigzagState = 1
	stateDowntrend zigzagState = -1
)

// FindPivots находит опорные точки ZigZag за один проход по серии.
//
// Сканер держит один плавающий якорь last: в аптренде якорь двигается на
// каждый новый максимум high, в даунтренде — на каждый новый минимум low.
// Якорь фиксируется как опорная точка только при развороте цены больше
// чем на threshold в противоположную сторону. Бар 0 и бар N-1 всегда
// входят в результат.
func FindPivots(bars []series.Bar, threshold float64) ([]int, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: получено %v", ErrInvalidThreshold, threshold)
	}
	if len(bars) == 0 {
		return []int{}, nil
	}

	pivots := []int{0}
	state := stateUndecided
	last := 0 // индекс якоря

	for i := 1; i < len(bars); i++ {
		switch state {
		case stateUndecided:
			switch {
			case bars[i].High/bars[last].High-1 > threshold:
				state = stateUptrend
				last = i
			case bars[i].Low/bars[last].Low-1 < -threshold:
				state = stateDowntrend
				last = i
			}

		case stateUptrend:
			switch {
			case bars[i].High > bars[last].High:
				last = i
			case bars[i].Low/bars[last].Low-1 < -threshold:
				pivots = append(pivots, last)
				state = stateDowntrend
				last = i
			}

		case stateDowntrend:
			switch {
			case bars[i].Low < bars[last].Low:
				last = i
			case bars[i].High/bars[last].High-1 > threshold:
				pivots = append(pivots, last)
				state = stateUptrend
				last = i
			}
		}
	}

	// Последний бар серии всегда закрывает последний сегмент
	if lastIdx := len(bars) - 1; pivots[len(pivots)-1] != lastIdx {
		pivots = append(pivots, lastIdx)
	}

	return normalizePivots(pivots), nil
}

// normalizePivots сортирует опорные точки и убирает дубликаты
func normalizePivots(pivots []int) []int {
	sort.Ints(pivots)

	out := pivots[:0]
	for i, p := range pivots {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
