// internal/core/domain/detectors/trend/config.go
package trend

import (
	"errors"
	"fmt"
)

// Ошибки валидации конфигурации
var (
	ErrInvalidThreshold = errors.New("zigzag_threshold должен быть > 0")
	ErrInvalidMinBars   = errors.New("min_trend_bars должен быть >= 1")
)

// Config — параметры детектора мини-трендов
type Config struct {
	ZigzagThreshold float64 // порог разворота ZigZag (доля, 0.01 = 1%)
	MinTrendBars    int     // минимальная длина сегмента в барах (включительно)
}

// DefaultConfig — конфигурация по умолчанию
var DefaultConfig = Config{
	ZigzagThreshold: 0.01,
	MinTrendBars:    5,
}

// Validate проверяет валидность конфигурации. Значения за пределами
// допустимого отклоняются, а не подрезаются.
func (c Config) Validate() error {
	if c.ZigzagThreshold <= 0 {
		return fmt.Errorf("%w: получено %v", ErrInvalidThreshold, c.ZigzagThreshold)
	}
	if c.MinTrendBars < 1 {
		return fmt.Errorf("%w: получено %d", ErrInvalidMinBars, c.MinTrendBars)
	}
	return nil
}
