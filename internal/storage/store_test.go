package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/physlab/internal/experiment"
)

func runCircuit(t *testing.T) (experiment.Config, *experiment.Result) {
	t.Helper()
	cfg := experiment.Config{
		Lab: "circuit", Width: 320, Height: 200, Frames: 10, FPS: 50, Seed: 42,
		Overrides: map[string]float64{"connected": 1, "resistance": 5},
		Metrics:   true,
	}
	res, err := experiment.New(cfg, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return cfg, res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := runCircuit(t)
	runID, err := st.Save(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Lab != "circuit" {
		t.Errorf("expected lab 'circuit', got '%s'", meta.Lab)
	}
	if meta.Seed != 42 || meta.FPS != 50 || meta.Frames != 10 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Overrides["resistance"] != 5 {
		t.Errorf("expected resistance override 5, got %v", meta.Overrides["resistance"])
	}
	if len(meta.Metrics) == 0 {
		t.Error("expected metrics to be saved")
	}

	table, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(table.Times) != 10 {
		t.Errorf("expected 10 rows, got %d", len(table.Times))
	}
	if got := table.Labels; len(got) != 2 || got[0] != "current" || got[1] != "power" {
		t.Errorf("expected numeric readouts only, got %v", got)
	}
	current := table.Values["current"]
	if len(current) != 10 || current[9] != 2 {
		t.Errorf("unexpected current column %v", current)
	}
	if table.Times[1]-table.Times[0] <= 0 {
		t.Errorf("times should increase: %v", table.Times[:2])
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list of a missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	cfg, res := runCircuit(t)
	first, err := st.Save(cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.Save(cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	// stray entries are skipped
	if err := os.WriteFile(filepath.Join(dir, "runs", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "runs", "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadTrace("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.Save(experiment.Config{}, nil); err == nil {
		t.Error("expected an error saving a nil result")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	cfg, res := runCircuit(t)
	runID, err := st.Save(cfg, res)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var doc Export
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if doc.ID != runID || doc.Lab != "circuit" {
		t.Errorf("unexpected export header %+v", doc.RunMetadata)
	}
	if doc.Trace == nil || len(doc.Trace.Values["power"]) != 10 {
		t.Errorf("expected the power column in the export")
	}
}
