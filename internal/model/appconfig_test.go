package model

import "testing"

func TestDefaultConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultConfig()
	defaults := DefaultSettings()

	if cfg.Solver != defaults {
		t.Errorf("solver settings mismatch: config=%+v settings=%+v", cfg.Solver, defaults)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.LogLevel)
	}
	if cfg.OutputDir != "." {
		t.Errorf("expected default output dir=., got %s", cfg.OutputDir)
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solver.Heuristic = HeuristicSizeDescending
	cfg.Solver.MaxAttempts = 7
	cfg.Solver.SanitizeBuffers = false

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Heuristic != HeuristicSizeDescending {
		t.Errorf("expected Heuristic=size-desc, got %s", s.Heuristic)
	}
	if s.MaxAttempts != 7 {
		t.Errorf("expected MaxAttempts=7, got %d", s.MaxAttempts)
	}
	if s.SanitizeBuffers {
		t.Error("expected SanitizeBuffers=false")
	}
	if s.RootScale != 41 {
		t.Errorf("expected RootScale to keep its default 41, got %f", s.RootScale)
	}
}

func TestSettingsNormalize(t *testing.T) {
	s := Settings{Heuristic: "bogus", RootScale: 0, MaxAttempts: -1, CandidatesPerOutline: -3}
	n := s.Normalize()

	if n.Heuristic != HeuristicCentroid {
		t.Errorf("expected fallback heuristic centroid, got %s", n.Heuristic)
	}
	if n.RootScale != 41 || n.MaxAttempts != 64 || n.CandidatesPerOutline != 0 {
		t.Errorf("unexpected normalized settings: %+v", n)
	}
}
