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

	"github.com/pkg/errors"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/metrics"
)

// Store keeps headless runs on disk, one directory per run holding
// metadata.json and metrics.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    uint64             `json:"frames"`
	Duration  time.Duration      `json:"duration"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the recorder history under a new run directory and
// returns the run ID. A zero Timestamp is set to now.
func (s *Store) Save(meta RunMetadata, rec *metrics.Recorder) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	if meta.Metrics == nil {
		meta.Metrics = rec.Latest()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create run dir")
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}

	if err := writeHistory(filepath.Join(runDir, "metrics.csv"), rec); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// writeHistory lays the recorder out one row per frame, one column per
// metric.
func writeHistory(path string, rec *metrics.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := rec.Names()
	cols := make([][]float64, len(names))
	rows := 0
	for i, name := range names {
		cols[i] = rec.History(name)
		if len(cols[i]) > rows {
			rows = len(cols[i])
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"frame"}, names...)); err != nil {
		return err
	}
	for r := 0; r < rows; r++ {
		row := []string{strconv.Itoa(r)}
		for _, col := range cols {
			if r < len(col) {
				row = append(row, strconv.FormatFloat(col[r], 'f', 6, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. A missing base directory
// is an empty store.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "parse metadata of %s", runID)
	}
	return &meta, nil
}

// LoadHistory reads metrics.csv back into per-metric series. Empty cells
// end a series.
func (s *Store) LoadHistory(runID string) (map[string][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "metrics.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read history of %s", runID)
	}
	out := make(map[string][]float64)
	if len(records) == 0 {
		return out, nil
	}

	header := records[0]
	for _, name := range header[1:] {
		out[name] = []float64{}
	}
	for _, record := range records[1:] {
		for j := 1; j < len(record) && j < len(header); j++ {
			if record[j] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s row %s", header[j], record[0])
			}
			out[header[j]] = append(out[header[j]], v)
		}
	}
	return out, nil
}
