// internal/core/domain/detectors/trend/detector.go
package trend

import (
	"crypto-trend-screener/internal/core/domain/series"
)

// Detector размечает мини-тренды: находит опорные точки ZigZag, режет
// серию на сегменты между соседними точками и оценивает каждый принятый
// сегмент линейной регрессией.
type Detector struct {
	cfg Config
}

// NewDetector создает детектор. Невалидная конфигурация отклоняется
// на границе, до любой работы с данными.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Config возвращает текущую конфигурацию
func (d *Detector) Config() Config {
	return d.cfg
}

// Annotate возвращает копию серии с пятью полями разметки на каждом баре.
// Исходная серия не изменяется. Детерминирован: одна серия и одна
// конфигурация всегда дают один результат.
//
// Сегмент [p[k], p[k+1]] включает обе границы; сегменты короче
// MinTrendBars и сегменты с постоянной ценой закрытия пропускаются и
// не расходуют trend_id. Бар на общей границе двух принятых сегментов
// получает значения более позднего — сегменты пишутся слева направо.
func (d *Detector) Annotate(bars []series.Bar) ([]AnnotatedBar, error) {
	if err := series.Validate(bars); err != nil {
		return nil, err
	}

	out := make([]AnnotatedBar, len(bars))
	for i, b := range bars {
		out[i] = AnnotatedBar{Bar: b, Annotation: defaultAnnotation}
	}

	pivots, err := FindPivots(bars, d.cfg.ZigzagThreshold)
	if err != nil {
		return nil, err
	}
	if len(pivots) < 2 {
		// Пустая или однобарная серия — вся разметка по умолчанию
		return out, nil
	}

	trendID := 0
	for k := 0; k+1 < len(pivots); k++ {
		start, end := pivots[k], pivots[k+1]
		if end-start+1 < d.cfg.MinTrendBars {
			continue
		}

		closes := series.Closes(bars[start : end+1])
		if allEqual(closes) {
			// Участок с постоянной ценой — не тренд, остается неразмеченным
			continue
		}

		trendID++
		fit := FitSegment(closes)

		for i := start; i <= end; i++ {
			out[i].Annotation = Annotation{
				InTrend:   true,
				TrendID:   trendID,
				RSquared:  fit.RSquared,
				Slope:     fit.Slope,
				Direction: fit.Direction,
			}
		}
	}

	return out, nil
}

// Annotations возвращает только колонки разметки (для комбинирования
// с другими детекторами)
func (d *Detector) Annotations(bars []series.Bar) ([]Annotation, error) {
	annotated, err := d.Annotate(bars)
	if err != nil {
		return nil, err
	}

	out := make([]Annotation, len(annotated))
	for i, ab := range annotated {
		out[i] = ab.Annotation
	}
	return out, nil
}
