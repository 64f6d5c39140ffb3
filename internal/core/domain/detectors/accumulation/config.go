// internal/core/domain/detectors/accumulation/config.go
package accumulation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidVolumeThreshold = errors.New("volume_threshold должен быть > 0")
	ErrInvalidATRMultiplier   = errors.New("atr_multiplier должен быть > 0")
	ErrInvalidMinZonePeriods  = errors.New("min_zone_periods должен быть >= 1")
	ErrInvalidVolumeMAPeriod  = errors.New("volume_ma_period должен быть >= 2")
	ErrInvalidATRPeriod       = errors.New("atr_period должен быть >= 2")
)

// Config — параметры детектора зон накопления
type Config struct {
	VolumeThreshold float64 // множитель к среднему объему для входа в зону
	ATRMultiplier   float64 // максимальная высота зоны в долях ATR
	MinZonePeriods  int     // минимальная длительность зоны в барах
	VolumeMAPeriod  int     // окно скользящего среднего объема
	ATRPeriod       int     // период сглаживания ATR
}

// DefaultConfig — конфигурация по умолчанию
var DefaultConfig = Config{
	VolumeThreshold: 1.1,
	ATRMultiplier:   1.0,
	MinZonePeriods:  5,
	VolumeMAPeriod:  30,
	ATRPeriod:       14,
}

// Validate проверяет валидность конфигурации
func (c Config) Validate() error {
	if c.VolumeThreshold <= 0 {
		return fmt.Errorf("%w: получено %v", ErrInvalidVolumeThreshold, c.VolumeThreshold)
	}
	if c.ATRMultiplier <= 0 {
		return fmt.Errorf("%w: получено %v", ErrInvalidATRMultiplier, c.ATRMultiplier)
	}
	if c.MinZonePeriods < 1 {
		return fmt.Errorf("%w: получено %d", ErrInvalidMinZonePeriods, c.MinZonePeriods)
	}
	if c.VolumeMAPeriod < 2 {
		return fmt.Errorf("%w: получено %d", ErrInvalidVolumeMAPeriod, c.VolumeMAPeriod)
	}
	if c.ATRPeriod < 2 {
		return fmt.Errorf("%w: получено %d", ErrInvalidATRPeriod, c.ATRPeriod)
	}
	return nil
}
