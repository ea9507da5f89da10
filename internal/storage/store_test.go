package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/dicesim/internal/sim"
)

func sampleResults() []*sim.Result {
	return []*sim.Result{
		{
			Seed:    7,
			Ticks:   180,
			Settled: true,
			Faces:   []int{6, 6},
			Targets: []int{3, 5},
			Values:  []int{3, 5},
			Metrics: map[string]float64{"settle_time": 3},
		},
		{
			Seed:    8,
			Ticks:   1200,
			Settled: false,
			Faces:   []int{6, 6},
			Targets: []int{1, 2},
			Values:  []int{1, 4},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RollMetadata{
		Preset:    "classic",
		SeedStart: 7,
		Dt:        1.0 / 60,
		Count:     2,
		Faces:     6,
		Metrics:   map[string]float64{"mean_value": 3.25},
	}
	rollID, err := st.Save(meta, sampleResults())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if rollID == "" {
		t.Error("expected non-empty roll id")
	}

	loaded, err := st.Load(rollID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Preset != "classic" {
		t.Errorf("expected preset 'classic', got '%s'", loaded.Preset)
	}

	if loaded.Throws != 2 || loaded.Matched != 3 {
		t.Errorf("expected 2 throws with 3 matches, got %d and %d", loaded.Throws, loaded.Matched)
	}

	if loaded.Metrics["mean_value"] != 3.25 {
		t.Errorf("expected mean 3.25, got %f", loaded.Metrics["mean_value"])
	}

	rows, err := st.LoadThrows(rollID)
	if err != nil {
		t.Fatalf("load throws failed: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	want := ThrowRow{Throw: 1, Seed: 8, Ticks: 1200, Settled: false, Die: 1, Faces: 6, Target: 2, Value: 4}
	if rows[3] != want {
		t.Errorf("expected %+v, got %+v", want, rows[3])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	rolls, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(rolls) != 0 {
		t.Errorf("expected 0 rolls, got %d", len(rolls))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RollMetadata{Count: 1, Faces: 20}, sampleResults()[:1]); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	rolls, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(rolls) != 2 {
		t.Errorf("expected 2 rolls, got %d", len(rolls))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	rolls, err := st.List()
	if err != nil || len(rolls) != 0 {
		t.Errorf("expected empty list, got %v, %v", rolls, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	rollID, err := st.Save(RollMetadata{Count: 2, Faces: 6}, sampleResults())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	rollDir := filepath.Join(tmpDir, rollID)
	metaPath := filepath.Join(rollDir, "metadata.json")
	csvPath := filepath.Join(rollDir, "throws.csv")

	if _, err := os.Stat(metaPath); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		t.Error("throws.csv not created")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	data := ExportData{Preset: "chaos", Count: 2, Faces: 6, Dt: 1.0 / 60, Throws: sampleResults()}
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Preset string `json:"preset"`
		Throws []struct {
			Seed   int64 `json:"seed"`
			Values []int `json:"values"`
		} `json:"throws"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Preset != "chaos" || len(decoded.Throws) != 2 || decoded.Throws[1].Values[1] != 4 {
		t.Errorf("unexpected export %+v", decoded)
	}
}
