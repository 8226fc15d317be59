package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SquareFit/internal/model"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := model.DefaultConfig()
	cfg.Solver.Heuristic = model.HeuristicSizeDescending
	cfg.Solver.MaxAttempts = 12
	cfg.Solver.SanitizeBuffers = false
	cfg.ExportPDF = true
	cfg.LogLevel = "debug"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Solver.Heuristic != model.HeuristicSizeDescending {
		t.Errorf("expected heuristic size-desc, got %s", loaded.Solver.Heuristic)
	}
	if loaded.Solver.MaxAttempts != 12 {
		t.Errorf("expected MaxAttempts=12, got %d", loaded.Solver.MaxAttempts)
	}
	if loaded.Solver.SanitizeBuffers {
		t.Error("expected SanitizeBuffers=false")
	}
	if !loaded.ExportPDF {
		t.Error("expected ExportPDF=true")
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", loaded.LogLevel)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg != model.DefaultConfig() {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "export_dxf = true\n\n[solver]\nheuristic = \"x\"\nroot_scale = 0.5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	def := model.DefaultSettings()
	if cfg.Solver.Heuristic != model.HeuristicX {
		t.Errorf("expected heuristic x, got %s", cfg.Solver.Heuristic)
	}
	if cfg.Solver.RootScale != def.RootScale {
		t.Errorf("out-of-range root scale should be normalized, got %f", cfg.Solver.RootScale)
	}
	if cfg.Solver.MaxAttempts != def.MaxAttempts {
		t.Errorf("expected default MaxAttempts, got %d", cfg.Solver.MaxAttempts)
	}
	if !cfg.ExportDXF || cfg.OutputDir != "." {
		t.Errorf("unexpected output settings %+v", cfg)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("solver = [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}
