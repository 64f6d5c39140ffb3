// internal/infrastructure/persistence/postgres/repository/signals/interface.go
package signals_repo

import "crypto-trend-screener/internal/infrastructure/persistence/postgres/models"

// SignalRepository интерфейс доступа к сохранённым тройным совпадениям
type SignalRepository interface {
	// EnsureSchema создаёт таблицу сигналов, если её ещё нет
	EnsureSchema() error
	// Save вставляет сигнал или обновляет существующий по (symbol, timeframe, candle_index)
	Save(signal *models.TripleSignal) error
	// SaveBatch сохраняет набор сигналов одного прогона
	SaveBatch(signals []*models.TripleSignal) error
	// FindBySymbol возвращает сигналы пары на таймфрейме в хронологическом порядке
	FindBySymbol(symbol, timeframe string) ([]*models.TripleSignal, error)
	// FindTop возвращает сигналы с наибольшей итоговой оценкой
	FindTop(limit int) ([]*models.TripleSignal, error)
	// Count возвращает количество сохранённых сигналов
	Count() (int, error)
}
