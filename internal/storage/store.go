package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravwell/internal/engine"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"tick", "particles", "wells", "mean_speed", "max_speed", "kinetic_energy", "resets"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Dt        float64            `json:"dt"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Config    engine.Config      `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and frames under a fresh run directory and returns the
// run ID. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, frames []engine.FrameStats) (string, error) {
	name := meta.Scenario
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%s", name, now.Format("20060102T150405.000000000"))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	if err := ExportJSON(metaFile, meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, frames); err != nil {
		return "", err
	}
	return runID, nil
}

// ExportJSON writes meta as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func WriteFrames(out io.Writer, frames []engine.FrameStats) error {
	w := csv.NewWriter(out)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatUint(f.Tick, 10),
			strconv.Itoa(f.Particles),
			strconv.Itoa(f.Wells),
			strconv.FormatFloat(f.MeanSpeed, 'f', 6, 64),
			strconv.FormatFloat(f.MaxSpeed, 'f', 6, 64),
			strconv.FormatFloat(f.KineticEnergy, 'f', 6, 64),
			strconv.Itoa(f.Resets),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads a run's per-tick telemetry. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]engine.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []engine.FrameStats{}, nil
	}

	frames := make([]engine.FrameStats, 0, len(records)-1)
	for _, rec := range records[1:] {
		f, err := parseFrame(rec)
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(rec []string) (engine.FrameStats, error) {
	var f engine.FrameStats
	if len(rec) != len(frameHeader) {
		return f, fmt.Errorf("storage: want %d fields, got %d", len(frameHeader), len(rec))
	}
	var err error
	if f.Tick, err = strconv.ParseUint(rec[0], 10, 64); err != nil {
		return f, err
	}
	if f.Particles, err = strconv.Atoi(rec[1]); err != nil {
		return f, err
	}
	if f.Wells, err = strconv.Atoi(rec[2]); err != nil {
		return f, err
	}
	if f.MeanSpeed, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return f, err
	}
	if f.MaxSpeed, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return f, err
	}
	if f.KineticEnergy, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return f, err
	}
	if f.Resets, err = strconv.Atoi(rec[6]); err != nil {
		return f, err
	}
	return f, nil
}
