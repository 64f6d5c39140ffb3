// pkg/interval/interval_test.go
package interval

import (
	"testing"
	"time"
)

func TestToMinutes(t *testing.T) {
	cases := map[string]int{
		"1m":  1,
		"5m":  5,
		"15m": 15,
		"1h":  60,
		"4h":  240,
		"1d":  1440,
		"1H":  60, // регистр не важен
		"7m":  7,  // пользовательский интервал
	}

	for iv, want := range cases {
		got, err := ToMinutes(iv)
		if err != nil {
			t.Fatalf("ToMinutes(%q): %v", iv, err)
		}
		if got != want {
			t.Errorf("ToMinutes(%q) = %d, ожидалось %d", iv, got, want)
		}
	}
}

func TestToMinutesInvalid(t *testing.T) {
	for _, iv := range []string{"", "abc", "0m", "-5m", "1w"} {
		if _, err := ToMinutes(iv); err == nil {
			t.Errorf("ToMinutes(%q): ожидалась ошибка", iv)
		}
	}
}

func TestFromMinutesRoundTrip(t *testing.T) {
	for _, iv := range AllIntervals {
		minutes, err := ToMinutes(iv)
		if err != nil {
			t.Fatalf("ToMinutes(%q): %v", iv, err)
		}
		if back := FromMinutes(minutes); back != iv {
			t.Errorf("FromMinutes(%d) = %q, ожидалось %q", minutes, back, iv)
		}
	}
}

func TestToDuration(t *testing.T) {
	d, err := ToDuration("4h")
	if err != nil {
		t.Fatalf("ToDuration: %v", err)
	}
	if d != 4*time.Hour {
		t.Errorf("ToDuration(4h) = %v", d)
	}

	if _, err := ToDuration("1y"); err == nil {
		t.Error("ToDuration(1y): ожидалась ошибка")
	}
}

func TestBarsPerDay(t *testing.T) {
	n, err := BarsPerDay("5m")
	if err != nil {
		t.Fatalf("BarsPerDay: %v", err)
	}
	if n != 288 {
		t.Errorf("BarsPerDay(5m) = %d, ожидалось 288", n)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("15m") {
		t.Error("IsValid(15m) = false")
	}
	if IsValid("9x") {
		t.Error("IsValid(9x) = true")
	}
}
