package model

// Config holds the persisted application configuration: solver settings plus
// output preferences used by the CLI.
type Config struct {
	Solver Settings `json:"solver" toml:"solver"`

	// Output preferences
	LogLevel   string `json:"log_level" toml:"log_level"` // "debug", "info", "warn", "error"
	ExportPDF  bool   `json:"export_pdf" toml:"export_pdf"`
	ExportDXF  bool   `json:"export_dxf" toml:"export_dxf"`
	ExportXLSX bool   `json:"export_xlsx" toml:"export_xlsx"`
	WriteJSON  bool   `json:"write_report" toml:"write_report"`
	OutputDir  string `json:"output_dir" toml:"output_dir"`
}

// DefaultConfig returns a Config populated with DefaultSettings and no extra
// exports.
func DefaultConfig() Config {
	return Config{
		Solver:    DefaultSettings(),
		LogLevel:  "info",
		OutputDir: ".",
	}
}

// ApplyToSettings copies the solver section into s, keeping s's values where
// the config leaves a field at its zero value.
func (c Config) ApplyToSettings(s *Settings) {
	if c.Solver.Heuristic != "" {
		s.Heuristic = c.Solver.Heuristic
	}
	if c.Solver.RootScale != 0 {
		s.RootScale = c.Solver.RootScale
	}
	if c.Solver.MaxAttempts != 0 {
		s.MaxAttempts = c.Solver.MaxAttempts
	}
	if c.Solver.CandidatesPerOutline != 0 {
		s.CandidatesPerOutline = c.Solver.CandidatesPerOutline
	}
	if c.Solver.SolutionTag != 0 {
		s.SolutionTag = c.Solver.SolutionTag
	}
	s.SanitizeBuffers = c.Solver.SanitizeBuffers
}
