// internal/core/domain/strategy/triple/pipeline.go
package triple

import (
	"fmt"

	"crypto-trend-screener/internal/core/domain/detectors/accumulation"
	"crypto-trend-screener/internal/core/domain/detectors/keycandle"
	"crypto-trend-screener/internal/core/domain/detectors/trend"
	"crypto-trend-screener/internal/core/domain/series"
	"crypto-trend-screener/pkg/logger"
)

// Config объединяет настройки всех детекторов и комбинатора
type Config struct {
	Trend        trend.Config
	KeyCandle    keycandle.Config
	Accumulation accumulation.Config
	Combiner     CombinerConfig
}

// DefaultConfig — рабочие настройки стратегии по умолчанию
var DefaultConfig = Config{
	Trend:        trend.DefaultConfig,
	KeyCandle:    keycandle.DefaultConfig,
	Accumulation: accumulation.DefaultConfig,
	Combiner:     DefaultCombinerConfig,
}

// Validate проверяет настройки всех компонентов стратегии
func (c Config) Validate() error {
	if err := c.Trend.Validate(); err != nil {
		return err
	}
	if err := c.KeyCandle.Validate(); err != nil {
		return err
	}
	if err := c.Accumulation.Validate(); err != nil {
		return err
	}
	return c.Combiner.Validate()
}

// Summary — сводка одного прогона стратегии
type Summary struct {
	TotalBars     int `json:"total_bars"`
	KeyCandles    int `json:"key_candles"`
	ZoneBars      int `json:"zone_bars"`
	TrendSegments int `json:"trend_segments"`
	Coincidences  int `json:"coincidences"`
}

// Pipeline прогоняет серию баров через три детектора, комбинатор
// и скоринг, собирая обогащенную серию и сводку
type Pipeline struct {
	cfg      Config
	detector *trend.Detector
}

// NewPipeline создает пайплайн, проверяя настройки на границе
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("NewPipeline: %w", err)
	}

	detector, err := trend.NewDetector(cfg.Trend)
	if err != nil {
		return nil, fmt.Errorf("NewPipeline: %w", err)
	}

	return &Pipeline{cfg: cfg, detector: detector}, nil
}

// Config возвращает настройки пайплайна
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run выполняет полный цикл анализа серии
func (p *Pipeline) Run(bars []series.Bar) ([]EnrichedBar, Summary, error) {
	logger.Info("🔄 Шаг 1/4: разметка мини-трендов (%d баров)", len(bars))
	annotations, err := p.detector.Annotations(bars)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("Pipeline.Run: %w", err)
	}

	logger.Info("🔄 Шаг 2/4: поиск ключевых свечей")
	keyMarks, err := keycandle.Detect(bars, p.cfg.KeyCandle)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("Pipeline.Run: %w", err)
	}

	logger.Info("🔄 Шаг 3/4: поиск зон накопления")
	zoneMarks, err := accumulation.Detect(bars, p.cfg.Accumulation)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("Pipeline.Run: %w", err)
	}

	rows := make([]EnrichedBar, len(bars))
	for i := range bars {
		rows[i] = EnrichedBar{
			Bar:         bars[i],
			KeyCandle:   keyMarks[i],
			Zone:        zoneMarks[i],
			Trend:       annotations[i],
			Coincidence: defaultCoincidence,
		}
	}

	logger.Info("🔄 Шаг 4/4: тройные совпадения и скоринг")
	rows, err = Combine(rows, p.cfg.Combiner)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("Pipeline.Run: %w", err)
	}
	rows = Score(rows)

	summary := Summary{
		TotalBars:     len(rows),
		KeyCandles:    keycandle.Count(keyMarks),
		ZoneBars:      accumulation.Count(zoneMarks),
		TrendSegments: maxTrendID(annotations),
		Coincidences:  CountTriples(rows),
	}
	logger.Info("✅ Анализ завершен: %d совпадений на %d барах", summary.Coincidences, summary.TotalBars)

	return rows, summary, nil
}

func maxTrendID(annotations []trend.Annotation) int {
	maxID := 0
	for _, a := range annotations {
		if a.TrendID > maxID {
			maxID = a.TrendID
		}
	}
	return maxID
}
