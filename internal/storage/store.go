package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/phasekit/internal/dynamo"
)

var ErrNotFound = errors.New("run not found")

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
	Method      string             `json:"method"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	KOverM      float64            `json:"k_over_m"`
	Steps       int                `json:"steps"`
	Initial     dynamo.State       `json:"initial"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

func newMetadata(id string, result *dynamo.Result) RunMetadata {
	traj := result.Trajectory
	p := traj.Params()
	return RunMetadata{
		ID:          id,
		Method:      traj.Method(),
		Timestamp:   time.Now(),
		Dt:          p.Dt,
		KOverM:      p.KOverM,
		Steps:       traj.Steps(),
		Initial:     traj.First(),
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
}

// Save writes metadata.json and states.csv under a fresh run directory and
// returns the run ID.
func (s *Store) Save(result *dynamo.Result) (string, error) {
	if result == nil || result.Trajectory == nil || result.Trajectory.Len() == 0 {
		return "", fmt.Errorf("%w: nothing to save", dynamo.ErrDegenerate)
	}

	runID := fmt.Sprintf("%s_%s", result.Trajectory.Method(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newMetadata(runID, result)); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Trajectory); err != nil {
		return "", err
	}
	return runID, nil
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory rebuilds the saved trajectory with its method and parameters.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	states, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read states of %s: %w", runID, err)
	}
	return dynamo.NewTrajectory(meta.Method, dynamo.Params{KOverM: meta.KOverM, Dt: meta.Dt}, states), nil
}

var csvHeader = []string{"step", "time", "q", "v"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per state: step, time, q, v.
func WriteCSV(w io.Writer, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	times := traj.Times()
	for i := 0; i < traj.Len(); i++ {
		x := traj.At(i)
		row := []string{strconv.Itoa(i), formatFloat(times[i]), formatFloat(x.Q), formatFloat(x.V)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(r io.Reader) ([]dynamo.State, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", dynamo.ErrDegenerate)
	}

	states := make([]dynamo.State, 0, len(records)-1)
	for i, record := range records[1:] {
		q, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		v, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		states = append(states, dynamo.State{Q: q, V: v})
	}
	return states, nil
}
