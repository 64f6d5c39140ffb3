// pkg/interval/interval.go
package interval

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var intervalMinutes = map[string]int{
	Interval1m:  Minutes1,
	Interval3m:  Minutes3,
	Interval5m:  Minutes5,
	Interval15m: Minutes15,
	Interval30m: Minutes30,
	Interval1h:  Minutes60,
	Interval2h:  Minutes120,
	Interval4h:  Minutes240,
	Interval6h:  Minutes360,
	Interval8h:  Minutes480,
	Interval12h: Minutes720,
	Interval1d:  Minutes1440,
}

// Normalize приводит интервал к каноническому виду ("1H" -> "1h")
func Normalize(iv string) string {
	return strings.ToLower(strings.TrimSpace(iv))
}

// IsValid проверяет, поддерживается ли интервал
func IsValid(iv string) bool {
	_, ok := intervalMinutes[Normalize(iv)]
	return ok
}

// ToMinutes конвертирует строковый интервал в минуты
func ToMinutes(iv string) (int, error) {
	norm := Normalize(iv)
	if minutes, ok := intervalMinutes[norm]; ok {
		return minutes, nil
	}

	// Пробуем распарсить как число минут ("7m")
	if strings.HasSuffix(norm, "m") {
		minutesStr := strings.TrimSuffix(norm, "m")
		if minutes, err := strconv.Atoi(minutesStr); err == nil && minutes > 0 {
			return minutes, nil
		}
	}

	return 0, fmt.Errorf("неизвестный формат интервала: %s", iv)
}

// FromMinutes конвертирует минуты в строковый интервал
func FromMinutes(minutes int) string {
	for iv, m := range intervalMinutes {
		if m == minutes {
			return iv
		}
	}
	// Для пользовательских интервалов
	return fmt.Sprintf("%dm", minutes)
}

// ToDuration конвертирует строковый интервал в time.Duration с проверкой
func ToDuration(iv string) (time.Duration, error) {
	minutes, err := ToMinutes(iv)
	if err != nil {
		return 0, err
	}
	return time.Duration(minutes) * time.Minute, nil
}

// BarsPerDay возвращает количество баров интервала в одном дне
func BarsPerDay(iv string) (int, error) {
	minutes, err := ToMinutes(iv)
	if err != nil {
		return 0, err
	}
	return Minutes1440 / minutes, nil
}
