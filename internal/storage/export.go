package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/phasekit/internal/dynamo"
)

type ExportData struct {
	Method      string             `json:"method"`
	Dt          float64            `json:"dt"`
	KOverM      float64            `json:"k_over_m"`
	Steps       int                `json:"steps"`
	Times       []float64          `json:"times"`
	States      []dynamo.State     `json:"states"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

func NewExportData(result *dynamo.Result) ExportData {
	traj := result.Trajectory
	return ExportData{
		Method:      traj.Method(),
		Dt:          traj.Params().Dt,
		KOverM:      traj.Params().KOverM,
		Steps:       traj.Steps(),
		Times:       traj.Times(),
		States:      traj.States(),
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
}

func ExportJSON(w io.Writer, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(result))
}
