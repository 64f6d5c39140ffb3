// internal/infrastructure/export/json.go
package export

import (
	"encoding/json"
	"os"
)

// JSONSaver пишет результаты одним JSON-массивом с отступами
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
