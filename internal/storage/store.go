package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/triadlab/triadsim/internal/resonance"
)

// Store persists simulation runs under a data directory, one
// subdirectory per run holding metadata.json and trajectory.csv.
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
	ID        string                         `json:"id"`
	Model     string                         `json:"model"`
	Stepper   string                         `json:"stepper"`
	Timestamp time.Time                      `json:"timestamp"`
	Dt        float64                        `json:"dt"`
	Duration  float64                        `json:"duration"`
	Mass      resonance.MassVector           `json:"mass"`
	Coupling  resonance.CouplingMatrix       `json:"coupling"`
	Metrics   map[string]float64             `json:"metrics"`
}

func (s *Store) Save(meta RunMetadata, traj resonance.Trajectory) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, traj); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV streams a trajectory as time,spatial,phase,scale rows.
func WriteCSV(out io.Writer, traj resonance.Trajectory) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{"time"}
	header = append(header, resonance.FieldNames[:]...)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, 1+resonance.NumFields)
	for _, sample := range traj {
		row[0] = strconv.FormatFloat(sample.Time, 'f', 6, 64)
		for i, v := range sample.Fields {
			row[1+i] = strconv.FormatFloat(v, 'g', 17, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (resonance.Trajectory, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return resonance.Trajectory{}, nil
	}

	traj := make(resonance.Trajectory, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 1+resonance.NumFields {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		var sample resonance.Sample
		sample.Time = t
		ok := true
		for i := 0; i < resonance.NumFields; i++ {
			v, err := strconv.ParseFloat(record[1+i], 64)
			if err != nil {
				ok = false
				break
			}
			sample.Fields[i] = v
		}
		if ok {
			traj = append(traj, sample)
		}
	}

	return traj, nil
}
