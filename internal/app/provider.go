// internal/app/provider.go
package app

import (
	"context"
	"fmt"
	"time"

	"crypto-trend-screener/internal/core/domain/series"
	"crypto-trend-screener/internal/infrastructure/api/binance"
	"crypto-trend-screener/internal/infrastructure/cache/redis"
	"crypto-trend-screener/internal/infrastructure/config"
	"crypto-trend-screener/internal/infrastructure/persistence/redis_storage"
	"crypto-trend-screener/pkg/logger"
)

// SeriesProvider загружает дневные архивы свечей и прозрачно кэширует их
// в Redis. Без Redis провайдер работает напрямую через Binance Vision
// и локальное зеркало архивов.
type SeriesProvider struct {
	config  *config.Config
	fetcher *binance.VisionFetcher
	rs      *redis.RedisService       // nil, если Redis выключен
	cache   *redis_storage.KlineCache // nil, если Redis выключен
}

// NewSeriesProvider собирает провайдер данных из конфигурации
func NewSeriesProvider(cfg *config.Config) (*SeriesProvider, error) {
	p := &SeriesProvider{config: cfg}

	// 1. HTTP клиент и загрузчик архивов Binance Vision
	client := binance.NewClient(cfg.Binance.RequestTimeout)
	p.fetcher = binance.NewVisionFetcher(client, cfg.Binance.VisionBaseURL, cfg.Binance.DownloadDir)

	// 2. Кэш свечей в Redis (опционально)
	if cfg.Redis.Enabled {
		p.rs = redis.NewRedisService(cfg)
		if err := p.rs.Start(); err != nil {
			logger.Warn("⚠️ Redis недоступен, продолжаем без кэша: %v", err)
			p.rs = nil
		} else {
			p.cache = redis_storage.NewKlineCache(p.rs.GetClient(), cfg.Redis.KlineTTL)
		}
	}

	return p, nil
}

// Close останавливает принадлежащие провайдеру сервисы
func (p *SeriesProvider) Close() error {
	if p.rs == nil {
		return nil
	}
	return p.rs.Stop()
}

// FetchRange загружает свечи за диапазон дней [from, to] включительно.
// Дни берутся из кэша, промахи докачиваются и кэшируются. Недоступные
// дни пропускаются с предупреждением, как и при прямой загрузке.
func (p *SeriesProvider) FetchRange(ctx context.Context, symbol, interval string, from, to time.Time) ([]series.Bar, error) {
	if p.cache == nil {
		return p.fetcher.FetchRange(symbol, interval, from, to, p.config.Binance.ForceDownload)
	}

	from = dateUTC(from)
	to = dateUTC(to)
	if to.Before(from) {
		return nil, fmt.Errorf("SeriesProvider.FetchRange: пустой диапазон дат %s..%s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var (
		bars    []series.Bar
		fetched int
		hits    int
	)
	force := p.config.Binance.ForceDownload

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !force {
			if cached, ok := p.cache.GetDay(ctx, symbol, interval, day); ok {
				bars = append(bars, cached...)
				fetched++
				hits++
				continue
			}
		}

		dayBars, err := p.fetcher.FetchDay(symbol, interval, day, force)
		if err != nil {
			logger.Warn("⚠️ День %s пропущен: %v", day.Format("2006-01-02"), err)
			continue
		}
		if err := p.cache.SaveDay(ctx, symbol, interval, day, dayBars); err != nil {
			logger.Warn("⚠️ Не удалось закэшировать день %s: %v", day.Format("2006-01-02"), err)
		}

		bars = append(bars, dayBars...)
		fetched++
	}

	if fetched == 0 {
		return nil, fmt.Errorf("SeriesProvider.FetchRange: нет данных %s %s за %s..%s",
			symbol, interval, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	bars = series.SortByOpenTime(bars)
	logger.Info("✅ Загружено %d свечей за %d дней (из кэша: %d)", len(bars), fetched, hits)
	return bars, nil
}

// FetchLastDays загружает последние days завершённых дней, заканчивая end.
// Binance Vision публикует только завершённые сутки, поэтому для живого
// запуска end обычно вчерашний день.
func (p *SeriesProvider) FetchLastDays(ctx context.Context, symbol, interval string, days int, end time.Time) ([]series.Bar, error) {
	if days <= 0 {
		return nil, fmt.Errorf("SeriesProvider.FetchLastDays: days должен быть >= 1, получено %d", days)
	}

	to := dateUTC(end)
	from := to.AddDate(0, 0, -(days - 1))
	return p.FetchRange(ctx, symbol, interval, from, to)
}

// dateUTC обрезает время до начала суток UTC
func dateUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
