package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/avasquez/lowrank/internal/dataset"
	"github.com/avasquez/lowrank/internal/shrink"
)

// Store keeps denoising runs on disk, one directory per run holding
// metadata.json and denoised.csv.
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
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Rows      int                `json:"rows"`
	Cols      int                `json:"cols"`
	Beta      float64            `json:"beta"`
	Threshold float64            `json:"threshold"`
	Cutoff    float64            `json:"cutoff"`
	Kept      int                `json:"kept"`
	Scores    map[string]float64 `json:"scores"`
}

// Save records a denoising run and returns its ID.
func (s *Store) Save(source string, sp *shrink.Spectrum, scores map[string]float64, denoised mat.Matrix) (string, error) {
	rows, cols := denoised.Dims()

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	runID := fmt.Sprintf("%s_%d", base, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	beta := float64(min(rows, cols)) / float64(max(rows, cols))
	meta := RunMetadata{
		ID:        runID,
		Source:    source,
		Timestamp: time.Now(),
		Rows:      rows,
		Cols:      cols,
		Beta:      beta,
		Threshold: sp.Threshold,
		Cutoff:    sp.Cutoff,
		Kept:      sp.Kept,
		Scores:    scores,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := dataset.Save(filepath.Join(runDir, "denoised.csv"), denoised); err != nil {
		return "", err
	}

	return runID, nil
}

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

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadMatrix reads back the denoised matrix of a run.
func (s *Store) LoadMatrix(runID string) (*mat.Dense, error) {
	return dataset.Load(filepath.Join(s.baseDir, runID, "denoised.csv"))
}
