// /internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"crypto-trend-screener/internal/core/domain/detectors/accumulation"
	"crypto-trend-screener/internal/core/domain/detectors/keycandle"
	"crypto-trend-screener/internal/core/domain/detectors/trend"
	"crypto-trend-screener/internal/core/domain/strategy/triple"
	"crypto-trend-screener/pkg/interval"
)

// ============================================
// КОНФИГУРАЦИЯ БАЗЫ ДАННЫХ
// ============================================

// DatabaseConfig - конфигурация базы данных
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	// Включение/отключение сохранения в БД
	Enabled bool `mapstructure:"DB_ENABLED"`

	// Настройки пула соединений
	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	MaxConnLifetime time.Duration `mapstructure:"DB_MAX_CONN_LIFETIME"`
}

// RedisConfig - конфигурация Redis
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`     // localhost
	Port     int    `mapstructure:"REDIS_PORT"`     // 6379
	Password string `mapstructure:"REDIS_PASSWORD"` // пустой или пароль
	DB       int    `mapstructure:"REDIS_DB"`       // 0

	// Включение/отключение кэша свечей
	Enabled bool `mapstructure:"REDIS_ENABLED"`

	// Настройки пула соединений
	PoolSize     int           `mapstructure:"REDIS_POOL_SIZE"`      // 10
	MinIdleConns int           `mapstructure:"REDIS_MIN_IDLE_CONNS"` // 5
	DialTimeout  time.Duration `mapstructure:"REDIS_DIAL_TIMEOUT"`   // 5s
	ReadTimeout  time.Duration `mapstructure:"REDIS_READ_TIMEOUT"`   // 3s
	WriteTimeout time.Duration `mapstructure:"REDIS_WRITE_TIMEOUT"`  // 3s

	// TTL кэшированных дневных архивов
	KlineTTL time.Duration `mapstructure:"REDIS_KLINE_TTL"` // 24h
}

// BinanceConfig - конфигурация загрузчика исторических данных
type BinanceConfig struct {
	VisionBaseURL  string        `mapstructure:"BINANCE_VISION_BASE_URL"`
	DownloadDir    string        `mapstructure:"BINANCE_DOWNLOAD_DIR"`
	RequestTimeout time.Duration `mapstructure:"BINANCE_REQUEST_TIMEOUT"`
	ForceDownload  bool          `mapstructure:"BINANCE_FORCE_DOWNLOAD"`
}

// DetectorConfig - параметры детекторов и комбинатора
type DetectorConfig struct {
	// Мини-тренды
	ZigzagThreshold float64 `mapstructure:"TREND_ZIGZAG_THRESHOLD"`
	MinTrendBars    int     `mapstructure:"TREND_MIN_BARS"`

	// Ключевые свечи
	VolumeLookback    int     `mapstructure:"KEY_CANDLE_VOLUME_LOOKBACK"`
	VolumePercentile  float64 `mapstructure:"KEY_CANDLE_VOLUME_PERCENTILE"`
	MaxBodyPercentage float64 `mapstructure:"KEY_CANDLE_MAX_BODY_PERCENTAGE"`

	// Зоны накопления
	ZoneVolumeThreshold float64 `mapstructure:"ZONE_VOLUME_THRESHOLD"`
	ZoneATRMultiplier   float64 `mapstructure:"ZONE_ATR_MULTIPLIER"`
	ZoneMinPeriods      int     `mapstructure:"ZONE_MIN_PERIODS"`
	ZoneVolumeMAPeriod  int     `mapstructure:"ZONE_VOLUME_MA_PERIOD"`
	ZoneATRPeriod       int     `mapstructure:"ZONE_ATR_PERIOD"`

	// Комбинатор совпадений
	ProximityLookback int `mapstructure:"PROXIMITY_LOOKBACK"`
}

// ExportConfig - конфигурация выгрузки результатов
type ExportConfig struct {
	Dir    string `mapstructure:"EXPORT_DIR"`
	Format string `mapstructure:"EXPORT_FORMAT"` // csv, json или parquet
}

// ============================================
// ОСНОВНАЯ КОНФИГУРАЦИЯ ПРИЛОЖЕНИЯ
// ============================================

// Config - основная структура конфигурации
type Config struct {
	// ======================
	// ОСНОВНЫЕ НАСТРОЙКИ
	// ======================
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	// ======================
	// РЫНОЧНЫЕ ДАННЫЕ
	// ======================
	Symbol   string `mapstructure:"SYMBOL"`
	Interval string `mapstructure:"INTERVAL"`

	// ======================
	// БАЗА ДАННЫХ
	// ======================
	Database DatabaseConfig `mapstructure:"DATABASE"`

	// Redis конфигурация Redis
	Redis RedisConfig `mapstructure:",squash"`

	// ======================
	// ЗАГРУЗКА ДАННЫХ
	// ======================
	Binance BinanceConfig `mapstructure:",squash"`

	// ======================
	// ДЕТЕКТОРЫ
	// ======================
	Detector DetectorConfig `mapstructure:",squash"`

	// ======================
	// ВЫГРУЗКА РЕЗУЛЬТАТОВ
	// ======================
	Export ExportConfig `mapstructure:",squash"`

	// ======================
	// ЛОГИРОВАНИЕ
	// ======================
	Logging struct {
		Level     string `mapstructure:"LOG_LEVEL"`
		File      string `mapstructure:"LOG_FILE"`
		DebugMode bool   `mapstructure:"DEBUG_MODE,omitempty"`
	} `mapstructure:",squash"`
}

// ============================================
// ЗАГРУЗКА КОНФИГУРАЦИИ
// ============================================

// LoadConfig загружает конфигурацию из .env файла
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		fmt.Printf("⚠️  Config file not found, using environment variables\n")
	}

	cfg := &Config{}

	// ======================
	// ОСНОВНЫЕ НАСТРОЙКИ
	// ======================
	cfg.Environment = getEnv("ENVIRONMENT", "production")
	cfg.Version = getEnv("VERSION", "1.0.0")

	// ======================
	// РЫНОЧНЫЕ ДАННЫЕ
	// ======================
	cfg.Symbol = strings.ToUpper(getEnv("SYMBOL", "BTCUSDT"))
	cfg.Interval = interval.Normalize(getEnv("INTERVAL", interval.DefaultInterval))

	// ======================
	// БАЗА ДАННЫХ
	// ======================
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 10)
	cfg.Database.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", false)

	// ======================
	// REDIS
	// ======================
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnvInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.PoolSize = getEnvInt("REDIS_POOL_SIZE", 10)
	cfg.Redis.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", 5)
	cfg.Redis.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.Redis.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.Redis.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.Redis.KlineTTL = getEnvDuration("REDIS_KLINE_TTL", 24*time.Hour)
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)

	// ======================
	// ЗАГРУЗКА ДАННЫХ
	// ======================
	cfg.Binance.VisionBaseURL = getEnv("BINANCE_VISION_BASE_URL", "https://data.binance.vision")
	cfg.Binance.DownloadDir = getEnv("BINANCE_DOWNLOAD_DIR", "data/klines")
	cfg.Binance.RequestTimeout = getEnvDuration("BINANCE_REQUEST_TIMEOUT", 30*time.Second)
	cfg.Binance.ForceDownload = getEnvBool("BINANCE_FORCE_DOWNLOAD", false)

	// ======================
	// ДЕТЕКТОРЫ
	// ======================
	cfg.Detector.ZigzagThreshold = getEnvFloat("TREND_ZIGZAG_THRESHOLD", trend.DefaultConfig.ZigzagThreshold)
	cfg.Detector.MinTrendBars = getEnvInt("TREND_MIN_BARS", trend.DefaultConfig.MinTrendBars)
	cfg.Detector.VolumeLookback = getEnvInt("KEY_CANDLE_VOLUME_LOOKBACK", keycandle.DefaultConfig.VolumeLookback)
	cfg.Detector.VolumePercentile = getEnvFloat("KEY_CANDLE_VOLUME_PERCENTILE", keycandle.DefaultConfig.VolumePercentile)
	cfg.Detector.MaxBodyPercentage = getEnvFloat("KEY_CANDLE_MAX_BODY_PERCENTAGE", keycandle.DefaultConfig.MaxBodyPercentage)
	cfg.Detector.ZoneVolumeThreshold = getEnvFloat("ZONE_VOLUME_THRESHOLD", accumulation.DefaultConfig.VolumeThreshold)
	cfg.Detector.ZoneATRMultiplier = getEnvFloat("ZONE_ATR_MULTIPLIER", accumulation.DefaultConfig.ATRMultiplier)
	cfg.Detector.ZoneMinPeriods = getEnvInt("ZONE_MIN_PERIODS", accumulation.DefaultConfig.MinZonePeriods)
	cfg.Detector.ZoneVolumeMAPeriod = getEnvInt("ZONE_VOLUME_MA_PERIOD", accumulation.DefaultConfig.VolumeMAPeriod)
	cfg.Detector.ZoneATRPeriod = getEnvInt("ZONE_ATR_PERIOD", accumulation.DefaultConfig.ATRPeriod)
	cfg.Detector.ProximityLookback = getEnvInt("PROXIMITY_LOOKBACK", triple.DefaultCombinerConfig.ProximityLookback)

	// ======================
	// ВЫГРУЗКА РЕЗУЛЬТАТОВ
	// ======================
	cfg.Export.Dir = getEnv("EXPORT_DIR", "results")
	cfg.Export.Format = strings.ToLower(getEnv("EXPORT_FORMAT", "csv"))

	// ======================
	// ЛОГИРОВАНИЕ
	// ======================
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Logging.File = getEnv("LOG_FILE", "logs/trend_screener.log")
	cfg.Logging.DebugMode = getEnvBool("DEBUG_MODE", false)

	// ======================
	// ВАЛИДАЦИЯ КОНФИГУРАЦИИ
	// ======================
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ============================================
// ВАЛИДАЦИЯ
// ============================================

// validate проверяет обязательные параметры конфигурации
func (c *Config) validate() error {
	var validationErrors []string

	if c.Symbol == "" {
		validationErrors = append(validationErrors, "SYMBOL is required")
	}
	if !interval.IsValid(c.Interval) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("INTERVAL must be one of: %s", strings.Join(interval.AllIntervals, ", ")))
	}

	// Проверка настроек базы данных если включена
	if c.Database.Enabled {
		if c.Database.Host == "" {
			validationErrors = append(validationErrors, "DB_HOST is required")
		}
		if c.Database.Port <= 0 {
			validationErrors = append(validationErrors, "DB_PORT must be positive")
		}
		if c.Database.User == "" {
			validationErrors = append(validationErrors, "DB_USER is required")
		}
		if c.Database.Password == "" {
			validationErrors = append(validationErrors, "DB_PASSWORD is required")
		}
		if c.Database.Name == "" {
			validationErrors = append(validationErrors, "DB_NAME is required")
		}
	}

	// Проверка настроек Redis если включен
	if c.Redis.Enabled {
		if c.Redis.Host == "" {
			validationErrors = append(validationErrors, "REDIS_HOST is required")
		}
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			validationErrors = append(validationErrors, "REDIS_PORT должен быть в диапазоне 1-65535")
		}
	}

	// Проверка загрузчика данных
	if c.Binance.VisionBaseURL == "" {
		validationErrors = append(validationErrors, "BINANCE_VISION_BASE_URL is required")
	}
	if c.Binance.DownloadDir == "" {
		validationErrors = append(validationErrors, "BINANCE_DOWNLOAD_DIR is required")
	}

	// Проверка детекторов: параметры пайплайна проверяет сама стратегия
	if err := c.ToStrategyConfig().Validate(); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	// Проверка формата выгрузки
	format := strings.ToLower(c.Export.Format)
	if format != "csv" && format != "json" && format != "parquet" {
		validationErrors = append(validationErrors, "EXPORT_FORMAT must be one of: csv, json, parquet")
	}

	if len(validationErrors) > 0 {
		errMsg := strings.Join(validationErrors, "; ")
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

// GetDatabaseConfig возвращает конфигурацию базы данных
func (c *Config) GetDatabaseConfig() DatabaseConfig {
	return c.Database
}

// GetPostgresDSN возвращает DSN для подключения к PostgreSQL
func (c *Config) GetPostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddress возвращает адрес Redis
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// ToStrategyConfig собирает конфигурацию стратегии из параметров детекторов
func (c *Config) ToStrategyConfig() triple.Config {
	return triple.Config{
		Trend: trend.Config{
			ZigzagThreshold: c.Detector.ZigzagThreshold,
			MinTrendBars:    c.Detector.MinTrendBars,
		},
		KeyCandle: keycandle.Config{
			VolumeLookback:    c.Detector.VolumeLookback,
			VolumePercentile:  c.Detector.VolumePercentile,
			MaxBodyPercentage: c.Detector.MaxBodyPercentage,
		},
		Accumulation: accumulation.Config{
			VolumeThreshold: c.Detector.ZoneVolumeThreshold,
			ATRMultiplier:   c.Detector.ZoneATRMultiplier,
			MinZonePeriods:  c.Detector.ZoneMinPeriods,
			VolumeMAPeriod:  c.Detector.ZoneVolumeMAPeriod,
			ATRPeriod:       c.Detector.ZoneATRPeriod,
		},
		Combiner: triple.CombinerConfig{
			ProximityLookback: c.Detector.ProximityLookback,
		},
	}
}

// PrintSummary выводит сводку загруженной конфигурации
func (c *Config) PrintSummary() {
	log.Printf("📋 Конфигурация приложения:")
	log.Printf("   • Окружение: %s", c.Environment)
	log.Printf("   • Инструмент: %s @ %s", c.Symbol, c.Interval)
	log.Printf("   • Уровень логирования: %s", c.Logging.Level)

	log.Printf("   • Детекторы:")
	log.Printf("     - ZigZag: порог %.2f%%, мин. длина %d",
		c.Detector.ZigzagThreshold*100, c.Detector.MinTrendBars)
	log.Printf("     - Ключевые свечи: перцентиль %.0f, тело до %.0f%%",
		c.Detector.VolumePercentile, c.Detector.MaxBodyPercentage)
	log.Printf("     - Зоны: объем x%.2f, ATR x%.2f, мин. %d баров",
		c.Detector.ZoneVolumeThreshold, c.Detector.ZoneATRMultiplier, c.Detector.ZoneMinPeriods)
	log.Printf("     - Окно совпадений: %d баров", c.Detector.ProximityLookback)

	if c.Database.Enabled {
		log.Printf("   • PostgreSQL: %s:%d/%s", c.Database.Host, c.Database.Port, c.Database.Name)
	} else {
		log.Printf("   • PostgreSQL: отключен")
	}
	if c.Redis.Enabled {
		log.Printf("   • Redis: %s:%d (DB: %d, Pool: %d, TTL: %s)",
			c.Redis.Host, c.Redis.Port, c.Redis.DB, c.Redis.PoolSize, c.Redis.KlineTTL)
	} else {
		log.Printf("   • Redis: отключен")
	}

	log.Printf("   • Источник данных: %s", c.Binance.VisionBaseURL)
	log.Printf("   • Выгрузка: %s (%s)", c.Export.Dir, c.Export.Format)
}

// IsDev возвращает true если текущее окружение — разработка
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ ФУНКЦИИ
// ============================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
