package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dicesim/internal/sim"
)

var throwsHeader = []string{"throw", "seed", "ticks", "settled", "die", "faces", "target", "value"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RollMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	SeedStart int64              `json:"seed_start"`
	Dt        float64            `json:"dt"`
	Count     int                `json:"count"`
	Faces     int                `json:"faces"`
	Throws    int                `json:"throws"`
	Matched   int                `json:"matched"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ThrowRow is one die of one throw, as written to throws.csv.
type ThrowRow struct {
	Throw   int
	Seed    int64
	Ticks   int
	Settled bool
	Die     int
	Faces   int
	Target  int
	Value   int
}

// Save writes metadata.json and throws.csv under a new roll directory and
// returns its id. Matched is filled in from the results.
func (s *Store) Save(meta RollMetadata, results []*sim.Result) (string, error) {
	now := time.Now()
	rollID := fmt.Sprintf("d%d_x%d_%d", meta.Faces, meta.Count, now.UnixNano())
	rollDir := filepath.Join(s.baseDir, rollID)

	if err := os.MkdirAll(rollDir, 0755); err != nil {
		return "", err
	}

	meta.ID = rollID
	meta.Timestamp = now
	meta.Throws = len(results)
	meta.Matched = 0
	for _, r := range results {
		for i := range r.Values {
			if i < len(r.Targets) && r.Values[i] == r.Targets[i] {
				meta.Matched++
			}
		}
	}

	metaFile, err := os.Create(filepath.Join(rollDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(rollDir, "throws.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(throwsHeader); err != nil {
		return "", err
	}
	for _, row := range Rows(results) {
		if err := w.Write(row.record()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return rollID, nil
}

// Rows flattens results into one row per die.
func Rows(results []*sim.Result) []ThrowRow {
	var rows []ThrowRow
	for t, r := range results {
		for i, v := range r.Values {
			row := ThrowRow{
				Throw:   t,
				Seed:    r.Seed,
				Ticks:   r.Ticks,
				Settled: r.Settled,
				Die:     i,
				Value:   v,
			}
			if i < len(r.Faces) {
				row.Faces = r.Faces[i]
			}
			if i < len(r.Targets) {
				row.Target = r.Targets[i]
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (r ThrowRow) record() []string {
	return []string{
		strconv.Itoa(r.Throw),
		strconv.FormatInt(r.Seed, 10),
		strconv.Itoa(r.Ticks),
		strconv.FormatBool(r.Settled),
		strconv.Itoa(r.Die),
		strconv.Itoa(r.Faces),
		strconv.Itoa(r.Target),
		strconv.Itoa(r.Value),
	}
}

// List returns every saved roll, oldest first. Unreadable entries are skipped.
func (s *Store) List() ([]RollMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RollMetadata{}, nil
		}
		return nil, err
	}

	rolls := make([]RollMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		rolls = append(rolls, *meta)
	}

	sort.Slice(rolls, func(i, j int) bool { return rolls[i].Timestamp.Before(rolls[j].Timestamp) })
	return rolls, nil
}

func (s *Store) Load(rollID string) (*RollMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, rollID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RollMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadThrows(rollID string) ([]ThrowRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, rollID, "throws.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(throwsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []ThrowRow{}, nil
	}

	rows := make([]ThrowRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("throws.csv line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (ThrowRow, error) {
	var (
		row ThrowRow
		err error
	)
	ints := []*int{&row.Throw, nil, &row.Ticks, nil, &row.Die, &row.Faces, &row.Target, &row.Value}
	for i, dst := range ints {
		if dst == nil {
			continue
		}
		if *dst, err = strconv.Atoi(rec[i]); err != nil {
			return row, err
		}
	}
	if row.Seed, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
		return row, err
	}
	if row.Settled, err = strconv.ParseBool(rec[3]); err != nil {
		return row, err
	}
	return row, nil
}
