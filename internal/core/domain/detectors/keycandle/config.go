// internal/core/domain/detectors/keycandle/config.go
package keycandle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLookback   = errors.New("volume_lookback должен быть >= 2")
	ErrInvalidPercentile = errors.New("volume_percentile должен быть в диапазоне (0, 100]")
	ErrInvalidBodyLimit  = errors.New("max_body_percentage должен быть в диапазоне (0, 100]")
)

// Config — параметры детектора ключевых свечей
type Config struct {
	VolumeLookback    int     // окно для перцентиля объема
	VolumePercentile  float64 // перцентиль высокого объема (0-100)
	MaxBodyPercentage float64 // максимальная доля тела свечи (%)
}

// DefaultConfig — конфигурация по умолчанию
var DefaultConfig = Config{
	VolumeLookback:    50,
	VolumePercentile:  80,
	MaxBodyPercentage: 30,
}

// Validate проверяет валидность конфигурации
func (c Config) Validate() error {
	if c.VolumeLookback < 2 {
		return fmt.Errorf("%w: получено %d", ErrInvalidLookback, c.VolumeLookback)
	}
	if c.VolumePercentile <= 0 || c.VolumePercentile > 100 {
		return fmt.Errorf("%w: получено %v", ErrInvalidPercentile, c.VolumePercentile)
	}
	if c.MaxBodyPercentage <= 0 || c.MaxBodyPercentage > 100 {
		return fmt.Errorf("%w: получено %v", ErrInvalidBodyLimit, c.MaxBodyPercentage)
	}
	return nil
}
