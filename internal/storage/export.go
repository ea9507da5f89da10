package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/dicesim/internal/sim"
)

type ExportData struct {
	Preset string        `json:"preset"`
	Count  int           `json:"count"`
	Faces  int           `json:"faces"`
	Dt     float64       `json:"dt"`
	Throws []*sim.Result `json:"throws"`
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
