// internal/core/domain/series/series.go

package series

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Ошибки структурной валидации серии
var (
	ErrInvalidPrice = errors.New("серия содержит некорректные цены")
)

// Bar — одна свеча OHLCV (полная строка klines Binance без хвостовой колонки)
type Bar struct {
	OpenTime         time.Time `json:"open_time"`
	Open             float64   `json:"open"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	Close            float64   `json:"close"`
	Volume           float64   `json:"volume"`
	CloseTime        time.Time `json:"close_time"`
	QuoteVolume      float64   `json:"quote_volume"`
	Trades           int64     `json:"trades"`
	TakerBuyVolume   float64   `json:"taker_buy_volume"`
	TakerBuyQuoteVol float64   `json:"taker_buy_quote_volume"`
}

// IsBullish возвращает true, если свеча закрылась выше открытия
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// Body возвращает абсолютный размер тела свечи
func (b Bar) Body() float64 {
	return math.Abs(b.Close - b.Open)
}

// Range возвращает полный диапазон свечи
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// Validate проверяет серию на структурную пригодность для анализа.
// Цены должны быть конечными, а high/low строго положительными —
// детекторы делят на них.
func Validate(bars []Bar) error {
	for i, b := range bars {
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: бар %d", ErrInvalidPrice, i)
			}
		}
		if b.High <= 0 || b.Low <= 0 {
			return fmt.Errorf("%w: бар %d, high/low должны быть > 0", ErrInvalidPrice, i)
		}
	}
	return nil
}

// Closes извлекает цены закрытия
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes извлекает объемы
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// SortByOpenTime сортирует копию серии по времени открытия
func SortByOpenTime(bars []Bar) []Bar {
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OpenTime.Before(sorted[j].OpenTime)
	})

	return sorted
}
