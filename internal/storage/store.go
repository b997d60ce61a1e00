// Package storage archives experiment runs on disk. Each run gets its own
// directory holding metadata.json and trace.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/physlab/internal/experiment"
)

var ErrNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

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
	Lab       string             `json:"lab"`
	Title     string             `json:"title"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FPS       int                `json:"fps"`
	Frames    int                `json:"frames"`
	Clamped   int                `json:"clamped,omitempty"`
	Elapsed   float64            `json:"elapsed"`
	Overrides map[string]float64 `json:"overrides,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Readouts  []string           `json:"readouts"`
}

// Table is a trace read back from disk. Cells a readout did not report
// are absent, so a column can be shorter than Times.
type Table struct {
	Labels []string             `json:"labels"`
	Times  []float64            `json:"times"`
	Values map[string][]float64 `json:"values"`
}

// Save writes a finished run and returns its id.
func (s *Store) Save(cfg experiment.Config, result *experiment.Result) (string, error) {
	if result == nil || result.Lab == nil {
		return "", errors.New("storage: nothing to save")
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", result.Lab.Name(), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Lab:       result.Lab.Name(),
		Title:     result.Lab.Title(),
		Timestamp: now,
		Seed:      cfg.Seed,
		FPS:       cfg.FPS,
		Frames:    result.Stats.Frames,
		Clamped:   result.Stats.Clamped,
		Elapsed:   result.Stats.Elapsed.Seconds(),
		Overrides: cfg.Overrides,
		Metrics:   result.Metrics,
	}
	if result.Trace != nil {
		meta.Readouts = result.Trace.Labels()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result.Trace); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, trace *experiment.Trace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if trace == nil || trace.Len() == 0 {
		w.Flush()
		return w.Error()
	}

	labels := trace.Labels()
	columns := make([][]float64, len(labels))
	for i, label := range labels {
		columns[i], _ = trace.Values(label)
	}
	if err := w.Write(append([]string{"time"}, labels...)); err != nil {
		return err
	}

	n := trace.Len()
	for i, t := range trace.Times {
		row := []string{strconv.FormatFloat(t.Seconds(), 'f', 6, 64)}
		for _, col := range columns {
			// readouts first seen late are aligned to the end of the run
			j := i - (n - len(col))
			if j < 0 {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(col[j], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	table := &Table{Values: make(map[string][]float64)}
	if len(records) == 0 {
		return table, nil
	}
	table.Labels = records[0][1:]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		table.Times = append(table.Times, t)
		for j, cell := range record[1:] {
			if j >= len(table.Labels) || cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			label := table.Labels[j]
			table.Values[label] = append(table.Values[label], v)
		}
	}
	return table, nil
}

// Export is a run and its trace in one document.
type Export struct {
	RunMetadata
	Trace *Table `json:"trace"`
}

// ExportJSON writes a stored run as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	table, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Export{RunMetadata: *meta, Trace: table})
}
