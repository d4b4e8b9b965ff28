package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/triadlab/triadsim/internal/resonance"
)

// ExportData is the JSON export shape for a complete run.
type ExportData struct {
	ID       string                    `json:"id"`
	Model    string                    `json:"model"`
	Stepper  string                    `json:"stepper"`
	Dt       float64                   `json:"dt"`
	Duration float64                   `json:"duration"`
	Samples  int                       `json:"samples"`
	Times    []float64                 `json:"times"`
	Fields   [resonance.NumFields][]float64 `json:"fields"`
	Metrics  map[string]float64        `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, traj resonance.Trajectory) error {
	data := ExportData{
		ID:       meta.ID,
		Model:    meta.Model,
		Stepper:  meta.Stepper,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Samples:  len(traj),
		Times:    traj.Times(),
		Metrics:  meta.Metrics,
	}
	for i := 0; i < resonance.NumFields; i++ {
		data.Fields[i] = traj.Field(i)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONFile(path string, meta *RunMetadata, traj resonance.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ExportJSON(f, meta, traj)
}
