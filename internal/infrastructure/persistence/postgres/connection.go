// internal/infrastructure/persistence/postgres/connection.go
package postgres

import (
	"fmt"
	"time"

	"crypto-trend-screener/internal/infrastructure/config"
	"crypto-trend-screener/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect открывает пул соединений с PostgreSQL и проверяет доступность базы
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("✅ Connected to PostgreSQL: %s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
	return db, nil
}
