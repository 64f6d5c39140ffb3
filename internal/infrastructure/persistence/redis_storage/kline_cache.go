// internal/infrastructure/persistence/redis_storage/kline_cache.go
package redis_storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"crypto-trend-screener/internal/core/domain/series"
	"crypto-trend-screener/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// KlineCache кэширует разобранные дневные архивы свечей,
// чтобы не перечитывать ZIP файлы между запусками
type KlineCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewKlineCache создает кэш свечей поверх готового клиента Redis
func NewKlineCache(client *redis.Client, ttl time.Duration) *KlineCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &KlineCache{
		client: client,
		prefix: "klines:",
		ttl:    ttl,
	}
}

// dayKey строит ключ дневной порции свечей
func (kc *KlineCache) dayKey(symbol, interval string, day time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", kc.prefix, strings.ToUpper(symbol), interval, day.Format("2006-01-02"))
}

// GetDay возвращает кэшированные свечи дня. Второй результат false
// означает промах кэша.
func (kc *KlineCache) GetDay(ctx context.Context, symbol, interval string, day time.Time) ([]series.Bar, bool) {
	if kc.client == nil {
		return nil, false
	}

	key := kc.dayKey(symbol, interval, day)
	data, err := kc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("⚠️ Ошибка чтения свечей из Redis (%s): %v", key, err)
		return nil, false
	}

	var bars []series.Bar
	if err := json.Unmarshal([]byte(data), &bars); err != nil {
		logger.Warn("⚠️ Ошибка парсинга кэшированных свечей (%s): %v", key, err)
		return nil, false
	}

	return bars, true
}

// SaveDay сохраняет свечи дня с настроенным TTL
func (kc *KlineCache) SaveDay(ctx context.Context, symbol, interval string, day time.Time, bars []series.Bar) error {
	if kc.client == nil {
		return nil
	}

	key := kc.dayKey(symbol, interval, day)
	data, err := json.Marshal(bars)
	if err != nil {
		return fmt.Errorf("KlineCache.SaveDay: %w", err)
	}

	if err := kc.client.Set(ctx, key, data, kc.ttl).Err(); err != nil {
		return fmt.Errorf("KlineCache.SaveDay: %w", err)
	}

	logger.Debug("💾 Свечи %s закэшированы (%d шт, TTL %s)", key, len(bars), kc.ttl)
	return nil
}

// DeleteDay удаляет кэшированные свечи дня
func (kc *KlineCache) DeleteDay(ctx context.Context, symbol, interval string, day time.Time) error {
	if kc.client == nil {
		return nil
	}

	if err := kc.client.Del(ctx, kc.dayKey(symbol, interval, day)).Err(); err != nil {
		return fmt.Errorf("KlineCache.DeleteDay: %w", err)
	}
	return nil
}
