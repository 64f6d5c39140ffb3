// internal/infrastructure/export/parquet.go
package export

import (
	"github.com/parquet-go/parquet-go"
)

// ParquetSaver пишет результаты в Parquet
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(rows []Row, path string) error {
	return parquet.WriteFile(path, rows)
}
