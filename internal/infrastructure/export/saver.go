// internal/infrastructure/export/saver.go
package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Saver — абстракция записи результатов в файл. Команды выбирают
// реализацию по формату из конфигурации и не зависят от деталей записи.
type Saver interface {
	Save(rows []Row, path string) error
	Extension() string
}

// ForFormat возвращает реализацию Saver по имени формата (csv, json, parquet)
func ForFormat(format string) (Saver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	default:
		return nil, fmt.Errorf("неизвестный формат выгрузки: %q (доступны: csv, json, parquet)", format)
	}
}

// ResultPath собирает путь файла результата: <dir>/<SYMBOL>_<interval>_<name>.<ext>
func ResultPath(dir, symbol, interval, name, ext string) string {
	file := fmt.Sprintf("%s_%s_%s.%s", strings.ToUpper(symbol), interval, name, ext)
	return filepath.Join(dir, file)
}
