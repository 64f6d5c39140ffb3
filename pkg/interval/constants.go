// pkg/interval/constants.go
package interval

// Поддерживаемые интервалы Binance (спот, дневные архивы)
const (
	Interval1m  = "1m"
	Interval3m  = "3m"
	Interval5m  = "5m"
	Interval15m = "15m"
	Interval30m = "30m"
	Interval1h  = "1h"
	Interval2h  = "2h"
	Interval4h  = "4h"
	Interval6h  = "6h"
	Interval8h  = "8h"
	Interval12h = "12h"
	Interval1d  = "1d"
)

// Минуты для стандартных интервалов
const (
	Minutes1    = 1
	Minutes3    = 3
	Minutes5    = 5
	Minutes15   = 15
	Minutes30   = 30
	Minutes60   = 60
	Minutes120  = 120
	Minutes240  = 240
	Minutes360  = 360
	Minutes480  = 480
	Minutes720  = 720
	Minutes1440 = 1440
)

// DefaultInterval — интервал по умолчанию
const DefaultInterval = Interval5m

// AllIntervals — все поддерживаемые интервалы по порядку
var AllIntervals = []string{
	Interval1m, Interval3m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval2h, Interval4h, Interval6h, Interval8h,
	Interval12h, Interval1d,
}
