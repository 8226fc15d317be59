package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/piwi3910/SquareFit/internal/engine"
	"github.com/piwi3910/SquareFit/internal/model"
)

// ReportVersion is written into every run report.
const ReportVersion = "1.0.0"

// Report is the persisted record of one solver run.
type Report struct {
	Version           string            `json:"version"`
	RunID             string            `json:"run_id"`
	CreatedAt         string            `json:"created_at"`
	InstanceID        int               `json:"instance_id"`
	Points            int               `json:"points"`
	Settings          model.Settings    `json:"settings"`
	Order             []int             `json:"order"`
	Stalled           []int             `json:"stalled,omitempty"`
	Stats             engine.Stats      `json:"stats"`
	TotalDisplacement float64           `json:"total_displacement"`
	MaxDisplacement   float64           `json:"max_displacement"`
	Solution          model.Solution    `json:"solution"`
	Comparison        []ComparisonEntry `json:"comparison,omitempty"`
}

// ComparisonEntry is one scenario of a heuristic comparison.
type ComparisonEntry struct {
	Name              string  `json:"name"`
	Placed            int     `json:"placed"`
	Unplaced          int     `json:"unplaced"`
	TotalDisplacement float64 `json:"total_displacement"`
	MeanDisplacement  float64 `json:"mean_displacement"`
	MaxDisplacement   float64 `json:"max_displacement"`
	Outlines          int     `json:"outlines"`
	Merges            int     `json:"merges"`
	Error             string  `json:"error,omitempty"`
}

// NewRunID returns a short random run identifier.
func NewRunID() string {
	return uuid.New().String()[:8]
}

// NewReport builds the report of a run.
func NewReport(runID string, inst model.Instance, settings model.Settings, res engine.Result) Report {
	return Report{
		Version:           ReportVersion,
		RunID:             runID,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		InstanceID:        inst.ID,
		Points:            len(inst.Points),
		Settings:          settings,
		Order:             res.Order,
		Stalled:           res.Stalled,
		Stats:             res.Stats,
		TotalDisplacement: res.TotalDisplacement,
		MaxDisplacement:   res.MaxDisplacement,
		Solution:          res.Solution,
	}
}

// AddComparison records the outcome of a heuristic comparison.
func (r *Report) AddComparison(results []engine.ComparisonResult) {
	for _, c := range results {
		entry := ComparisonEntry{
			Name:              c.Scenario.Name,
			Placed:            c.PlacedCount,
			Unplaced:          c.UnplacedCount,
			TotalDisplacement: c.TotalDisplacement,
			MeanDisplacement:  c.MeanDisplacement,
			MaxDisplacement:   c.MaxDisplacement,
			Outlines:          c.Outlines,
			Merges:            c.Merges,
		}
		if c.Err != nil {
			entry.Error = c.Err.Error()
		}
		r.Comparison = append(r.Comparison, entry)
	}
}

// SaveReport writes a run report to the given path as JSON.
func SaveReport(path string, report Report) error {
	data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// LoadReport reads a run report written by SaveReport.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read report file: %w", err)
	}
	var report Report
	if err := sonic.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse report file: %w", err)
	}
	if report.Version == "" {
		return Report{}, fmt.Errorf("invalid report file: missing version field")
	}
	return report, nil
}
