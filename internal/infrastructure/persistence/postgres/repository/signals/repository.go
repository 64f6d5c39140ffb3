// internal/infrastructure/persistence/postgres/repository/signals/repository.go
package signals_repo

import (
	"fmt"

	"crypto-trend-screener/internal/infrastructure/persistence/postgres/models"
	"crypto-trend-screener/pkg/logger"

	"github.com/jmoiron/sqlx"
)

type signalRepoImpl struct {
	db *sqlx.DB
}

// NewSignalRepository создаёт реализацию SignalRepository
func NewSignalRepository(db *sqlx.DB) SignalRepository {
	return &signalRepoImpl{db: db}
}

// EnsureSchema создаёт таблицу сигналов, если её ещё нет
func (r *signalRepoImpl) EnsureSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS triple_signals (
		id UUID PRIMARY KEY,
		symbol VARCHAR(20) NOT NULL,
		timeframe VARCHAR(10) NOT NULL,
		candle_index INTEGER NOT NULL,
		open_time TIMESTAMP WITH TIME ZONE NOT NULL,

		open DOUBLE PRECISION NOT NULL,
		high DOUBLE PRECISION NOT NULL,
		low DOUBLE PRECISION NOT NULL,
		close DOUBLE PRECISION NOT NULL,
		volume DOUBLE PRECISION NOT NULL,
		body_percentage DOUBLE PRECISION NOT NULL,

		zone_quality_score DOUBLE PRECISION NOT NULL,
		trend_direction VARCHAR(10) NOT NULL,
		trend_slope DOUBLE PRECISION NOT NULL,
		trend_r_squared DOUBLE PRECISION NOT NULL,

		candle_score DOUBLE PRECISION NOT NULL,
		zone_score DOUBLE PRECISION NOT NULL,
		trend_score DOUBLE PRECISION NOT NULL,
		base_score DOUBLE PRECISION NOT NULL,
		advanced_score DOUBLE PRECISION NOT NULL,
		final_score DOUBLE PRECISION NOT NULL,

		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE (symbol, timeframe, candle_index)
	);

	CREATE INDEX IF NOT EXISTS idx_triple_signals_symbol ON triple_signals(symbol, timeframe);
	CREATE INDEX IF NOT EXISTS idx_triple_signals_final_score ON triple_signals(final_score DESC);
	`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create triple_signals table: %w", err)
	}

	logger.Info("✅ Signals table initialized")
	return nil
}

// Save вставляет сигнал, при повторном прогоне того же диапазона обновляет запись
func (r *signalRepoImpl) Save(signal *models.TripleSignal) error {
	query := `
		INSERT INTO triple_signals (
			id, symbol, timeframe, candle_index, open_time,
			open, high, low, close, volume, body_percentage,
			zone_quality_score, trend_direction, trend_slope, trend_r_squared,
			candle_score, zone_score, trend_score, base_score, advanced_score, final_score,
			created_at
		) VALUES (
			:id, :symbol, :timeframe, :candle_index, :open_time,
			:open, :high, :low, :close, :volume, :body_percentage,
			:zone_quality_score, :trend_direction, :trend_slope, :trend_r_squared,
			:candle_score, :zone_score, :trend_score, :base_score, :advanced_score, :final_score,
			:created_at
		)
		ON CONFLICT (symbol, timeframe, candle_index) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			body_percentage = EXCLUDED.body_percentage,
			zone_quality_score = EXCLUDED.zone_quality_score,
			trend_direction = EXCLUDED.trend_direction,
			trend_slope = EXCLUDED.trend_slope,
			trend_r_squared = EXCLUDED.trend_r_squared,
			candle_score = EXCLUDED.candle_score,
			zone_score = EXCLUDED.zone_score,
			trend_score = EXCLUDED.trend_score,
			base_score = EXCLUDED.base_score,
			advanced_score = EXCLUDED.advanced_score,
			final_score = EXCLUDED.final_score
	`
	if _, err := r.db.NamedExec(query, signal); err != nil {
		return fmt.Errorf("SignalRepo.Save: %w", err)
	}
	return nil
}

// SaveBatch сохраняет набор сигналов одного прогона
func (r *signalRepoImpl) SaveBatch(signals []*models.TripleSignal) error {
	if len(signals) == 0 {
		return nil
	}

	for _, signal := range signals {
		if err := r.Save(signal); err != nil {
			return fmt.Errorf("SignalRepo.SaveBatch: %w", err)
		}
	}

	logger.Info("💾 Сигналы сохранены в БД: %d шт", len(signals))
	return nil
}

// FindBySymbol возвращает сигналы пары на таймфрейме в хронологическом порядке
func (r *signalRepoImpl) FindBySymbol(symbol, timeframe string) ([]*models.TripleSignal, error) {
	query := `
		SELECT * FROM triple_signals
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY candle_index
	`
	var signals []*models.TripleSignal
	if err := r.db.Select(&signals, query, symbol, timeframe); err != nil {
		return nil, fmt.Errorf("SignalRepo.FindBySymbol: %w", err)
	}
	return signals, nil
}

// FindTop возвращает сигналы с наибольшей итоговой оценкой
func (r *signalRepoImpl) FindTop(limit int) ([]*models.TripleSignal, error) {
	query := `
		SELECT * FROM triple_signals
		ORDER BY final_score DESC, open_time DESC
		LIMIT $1
	`
	var signals []*models.TripleSignal
	if err := r.db.Select(&signals, query, limit); err != nil {
		return nil, fmt.Errorf("SignalRepo.FindTop: %w", err)
	}
	return signals, nil
}

// Count возвращает количество сохранённых сигналов
func (r *signalRepoImpl) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM triple_signals`); err != nil {
		return 0, fmt.Errorf("SignalRepo.Count: %w", err)
	}
	return count, nil
}
