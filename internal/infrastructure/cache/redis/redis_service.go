// internal/infrastructure/cache/redis/redis_service.go
package redis

import (
	"context"
	"fmt"
	"time"

	"crypto-trend-screener/internal/infrastructure/config"
	"crypto-trend-screener/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// RedisService сервис для работы с Redis
type RedisService struct {
	config *config.Config
	client *redis.Client
	state  ServiceState
}

// ServiceState состояние сервиса
type ServiceState string

const (
	StateStopped  ServiceState = "stopped"
	StateStarting ServiceState = "starting"
	StateRunning  ServiceState = "running"
	StateStopping ServiceState = "stopping"
	StateError    ServiceState = "error"
)

// NewRedisService создает новый Redis сервис
func NewRedisService(cfg *config.Config) *RedisService {
	return &RedisService{
		config: cfg,
		state:  StateStopped,
	}
}

// Start запускает Redis сервис
func (rs *RedisService) Start() error {
	if rs.state == StateRunning {
		return fmt.Errorf("Redis service already running")
	}

	logger.Info("🔄 Starting Redis service...")
	rs.state = StateStarting

	redisConfig := rs.config.Redis

	options := &redis.Options{
		Addr:     rs.config.GetRedisAddress(),
		Password: redisConfig.Password,
		DB:       redisConfig.DB,

		// Настройки пула соединений
		PoolSize:     redisConfig.PoolSize,
		MinIdleConns: redisConfig.MinIdleConns,

		// Таймауты
		DialTimeout:  redisConfig.DialTimeout,
		ReadTimeout:  redisConfig.ReadTimeout,
		WriteTimeout: redisConfig.WriteTimeout,
	}

	rs.client = redis.NewClient(options)

	// Проверяем подключение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("📡 Connecting to Redis: %s (DB: %d)", options.Addr, redisConfig.DB)

	if _, err := rs.client.Ping(ctx).Result(); err != nil {
		rs.client.Close()
		rs.state = StateError
		logger.Error("❌ Failed to connect to Redis: %v (address: %s)", err, options.Addr)
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	rs.state = StateRunning

	logger.Info("✅ Successfully connected to Redis")
	logger.Info("   • Address: %s", options.Addr)
	logger.Info("   • Database: %d", redisConfig.DB)
	logger.Info("   • Pool size: %d", redisConfig.PoolSize)

	return nil
}

// Stop останавливает Redis сервис
func (rs *RedisService) Stop() error {
	if rs.state != StateRunning {
		return fmt.Errorf("Redis service is not running")
	}

	logger.Info("🛑 Stopping Redis service...")
	rs.state = StateStopping

	if rs.client != nil {
		if err := rs.client.Close(); err != nil {
			rs.state = StateError
			logger.Error("❌ Failed to close Redis client: %v", err)
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}

	rs.client = nil
	rs.state = StateStopped
	logger.Info("✅ Redis service stopped")

	return nil
}

// GetClient возвращает клиент Redis
func (rs *RedisService) GetClient() *redis.Client {
	return rs.client
}

// State возвращает состояние сервиса
func (rs *RedisService) State() ServiceState {
	return rs.state
}

// HealthCheck проверяет здоровье Redis
func (rs *RedisService) HealthCheck() bool {
	if rs.state != StateRunning || rs.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := rs.client.Ping(ctx).Result(); err != nil {
		logger.Warn("⚠️ Redis health check failed: %v", err)
		return false
	}

	return true
}
