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

	"github.com/google/uuid"

	"github.com/san-kum/algosim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"

	fixedColumns = 6
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
	ID          string             `json:"id"`
	Algorithm   string             `json:"algorithm"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Speed       int                `json:"speed"`
	Input       []float64          `json:"input"`
	Output      []float64          `json:"output"`
	Target      *float64           `json:"target,omitempty"`
	Comparisons int                `json:"comparisons"`
	Writes      int                `json:"writes"`
	Result      string             `json:"result"`
	Frames      int                `json:"frames"`
	ElapsedMS   int64              `json:"elapsed_ms"`
	Metrics     map[string]float64 `json:"metrics"`
}

// RunOptions carries settings that are not part of the outcome.
type RunOptions struct {
	Seed  int64
	Speed int
}

// Save writes a finished run as <id>/metadata.json and <id>/frames.csv.
func (s *Store) Save(out sim.Outcome, frames []FrameRecord, opts RunOptions) (string, error) {
	runID := fmt.Sprintf("%s_%s", out.Algorithm, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Algorithm:   out.Algorithm,
		Timestamp:   time.Now(),
		Seed:        opts.Seed,
		Speed:       opts.Speed,
		Input:       out.Input,
		Output:      out.Output,
		Target:      out.Target,
		Comparisons: out.Counters.Comparisons,
		Writes:      out.Counters.Writes,
		Result:      out.Result.String(),
		Frames:      len(frames),
		ElapsedMS:   out.Elapsed.Milliseconds(),
		Metrics:     out.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeFramesCSV(csvFile, frames); err != nil {
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

// Latest returns the ID of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) FramesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(s.FramesPath(runID))
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
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < fixedColumns {
			continue
		}
		seq, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			continue
		}
		cmp, _ := strconv.Atoi(record[3])
		writes, _ := strconv.Atoi(record[4])

		values := make([]float64, 0, len(record)-fixedColumns)
		for _, field := range record[fixedColumns:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}

		frames = append(frames, FrameRecord{
			Seq:         seq,
			Phase:       record[1],
			State:       record[2],
			Comparisons: cmp,
			Writes:      writes,
			Highlight:   record[5],
			Values:      values,
		})
	}
	return frames, nil
}
