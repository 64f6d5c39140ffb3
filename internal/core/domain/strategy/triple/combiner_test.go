// internal/core/domain/strategy/triple/combiner_test.go
package triple

import (
	"errors"
	"reflect"
	"testing"

	"crypto-trend-screener/internal/core/domain/detectors/trend"
)

// makeRow — строка серии с заданными флагами детекторов
func makeRow(key, zone, inTrend bool) EnrichedBar {
	var r EnrichedBar
	r.KeyCandle.IsKeyCandle = key
	r.Zone.InZone = zone
	r.Trend.InTrend = inTrend
	return r
}

func TestCombineTriple(t *testing.T) {
	rows := []EnrichedBar{
		makeRow(false, true, false),
		makeRow(false, false, true),
		makeRow(false, false, false),
		makeRow(true, false, false),
	}
	rows[0].Zone.QualityScore = 0.6
	rows[1].Trend.RSquared = 0.8
	rows[1].Trend.Slope = 0.3
	rows[1].Trend.Direction = trend.DirectionBullish

	out, err := Combine(rows, DefaultCombinerConfig)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	c := out[3].Coincidence
	if !c.IsTriple {
		t.Fatal("ожидалось тройное совпадение на баре 3")
	}
	if c.ZoneScore != 0.6 {
		t.Errorf("zone_score = %v, ожидалось 0.6", c.ZoneScore)
	}
	if c.TrendRSquared != 0.8 || c.TrendSlope != 0.3 || c.TrendDirection != trend.DirectionBullish {
		t.Errorf("контекст тренда = %+v, ожидался бар 1", c)
	}

	for i := 0; i < 3; i++ {
		if out[i].Coincidence.IsTriple {
			t.Errorf("бар %d не ключевая свеча, совпадения быть не должно", i)
		}
		if out[i].Coincidence.TrendDirection != trend.DirectionNone {
			t.Errorf("бар %d: направление %q вместо none", i, out[i].Coincidence.TrendDirection)
		}
	}
}

func TestCombineMostRecentContext(t *testing.T) {
	rows := []EnrichedBar{
		makeRow(false, true, false),
		makeRow(false, false, true),
		makeRow(false, true, false),
		makeRow(false, false, true),
		makeRow(true, false, false),
	}
	rows[0].Zone.QualityScore = 0.5
	rows[2].Zone.QualityScore = 0.7
	rows[1].Trend.RSquared = 0.5
	rows[1].Trend.Direction = trend.DirectionBullish
	rows[3].Trend.RSquared = 0.9
	rows[3].Trend.Direction = trend.DirectionBearish

	out, err := Combine(rows, DefaultCombinerConfig)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	c := out[4].Coincidence
	if c.ZoneScore != 0.7 {
		t.Errorf("взята оценка зоны %v, ожидалась самая свежая 0.7", c.ZoneScore)
	}
	if c.TrendRSquared != 0.9 || c.TrendDirection != trend.DirectionBearish {
		t.Errorf("взят контекст тренда %+v, ожидался бар 3", c)
	}
}

func TestCombineExcludesCurrentBar(t *testing.T) {
	// Свеча сама лежит в зоне и тренде, но окно заканчивается на предыдущем баре
	rows := []EnrichedBar{
		makeRow(false, false, false),
		makeRow(true, true, true),
	}

	out, err := Combine(rows, DefaultCombinerConfig)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if out[1].Coincidence.IsTriple {
		t.Error("текущий бар не должен учитываться в окне поиска")
	}
}

func TestCombineWindowLimit(t *testing.T) {
	build := func(keyIndex int) []EnrichedBar {
		rows := make([]EnrichedBar, keyIndex+1)
		rows[0] = makeRow(false, true, true)
		for i := 1; i < keyIndex; i++ {
			rows[i] = makeRow(false, false, false)
		}
		rows[keyIndex] = makeRow(true, false, false)
		return rows
	}
	cfg := CombinerConfig{ProximityLookback: 8}

	// Бар 0 входит в окно [0, 8) ключевой свечи на баре 8
	out, err := Combine(build(8), cfg)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !out[8].Coincidence.IsTriple {
		t.Error("зона и тренд на границе окна должны учитываться")
	}

	// Для свечи на баре 9 окно [1, 9) уже не видит бар 0
	out, err = Combine(build(9), cfg)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if out[9].Coincidence.IsTriple {
		t.Error("зона и тренд за пределами окна не должны учитываться")
	}
}

func TestCombineRequiresBothComponents(t *testing.T) {
	onlyZone := []EnrichedBar{makeRow(false, true, false), makeRow(true, false, false)}
	onlyTrend := []EnrichedBar{makeRow(false, false, true), makeRow(true, false, false)}

	for name, rows := range map[string][]EnrichedBar{"только зона": onlyZone, "только тренд": onlyTrend} {
		out, err := Combine(rows, DefaultCombinerConfig)
		if err != nil {
			t.Fatalf("%s: Combine: %v", name, err)
		}
		if out[1].Coincidence.IsTriple {
			t.Errorf("%s: совпадение требует и зону, и тренд", name)
		}
	}
}

func TestCombineInvalidConfig(t *testing.T) {
	if _, err := Combine(nil, CombinerConfig{ProximityLookback: 0}); !errors.Is(err, ErrInvalidProximity) {
		t.Errorf("ожидалась ErrInvalidProximity, получено %v", err)
	}
}

func TestCombineDoesNotMutateInput(t *testing.T) {
	rows := []EnrichedBar{
		makeRow(false, true, true),
		makeRow(true, false, false),
	}
	saved := make([]EnrichedBar, len(rows))
	copy(saved, rows)

	if _, err := Combine(rows, DefaultCombinerConfig); err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !reflect.DeepEqual(rows, saved) {
		t.Error("Combine изменил входную серию")
	}
}

func TestCountTriplesAndSignals(t *testing.T) {
	rows := []EnrichedBar{
		makeRow(false, true, true),
		makeRow(true, false, false),
		makeRow(true, false, false),
	}

	out, err := Combine(rows, DefaultCombinerConfig)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	if got := CountTriples(out); got != 2 {
		t.Errorf("CountTriples = %d, ожидалось 2", got)
	}
	signals := Signals(out)
	if len(signals) != 2 {
		t.Fatalf("Signals вернул %d строк, ожидалось 2", len(signals))
	}
	for _, s := range signals {
		if !s.Coincidence.IsTriple {
			t.Error("Signals вернул строку без совпадения")
		}
	}
}
