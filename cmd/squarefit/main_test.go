package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFit/internal/model"
	"github.com/piwi3910/SquareFit/internal/project"
)

const gridInstance = `4
0 3 0 3
4
0 0 3
3 0 3
3 3 3
0 3 3
`

// baseArgs keeps every run away from the user's home directory.
func baseArgs(dir string) []string {
	return []string{
		"-config", filepath.Join(dir, "config.toml"),
		"-profiles", filepath.Join(dir, "profiles.toml"),
		"-log-level", "error",
	}
}

func writeInstance(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "instance.txt")
	require.NoError(t, os.WriteFile(path, []byte(gridInstance), 0644))
	return path
}

func TestRun_WritesSolutionToStdout(t *testing.T) {
	dir := t.TempDir()
	args := append(baseArgs(dir), "-heuristic", "unordered", writeInstance(t, dir))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(args, &stdout, &stderr))
	assert.Equal(t, "1\n4\n0.5 0.5\n3.5 0.5\n3.5 3.5\n0.5 3.5\n", stdout.String())
}

func TestRun_ExportsAndChecks(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	solution := filepath.Join(dir, "solution.txt")
	instance := writeInstance(t, dir)
	args := append(baseArgs(dir), "-o", solution, "-out", out, "-pdf", "-dxf", "-xlsx", "-report", "-compare", instance)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(args, &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "heuristic")

	for _, ext := range []string{".pdf", ".dxf", ".xlsx", ".json"} {
		matches, err := filepath.Glob(filepath.Join(out, "instance-4-*"+ext))
		require.NoError(t, err)
		assert.Len(t, matches, 1, "expected one %s output", ext)
	}

	reports, _ := filepath.Glob(filepath.Join(out, "*.json"))
	require.Len(t, reports, 1)
	report, err := project.LoadReport(reports[0])
	require.NoError(t, err)
	assert.Equal(t, 4, report.InstanceID)
	assert.Len(t, report.Comparison, len(model.AllHeuristics))

	stdout.Reset()
	checkArgs := append(baseArgs(dir), "-check", solution, instance)
	require.NoError(t, run(checkArgs, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), "valid"), stdout.String())
}

func TestRun_CheckReportsViolations(t *testing.T) {
	dir := t.TempDir()
	solution := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(solution, []byte("1\n4\n0 0\n1 0\n3.5 3.5\n-0.5 3.5\n"), 0644))

	var stdout, stderr bytes.Buffer
	err := run(append(baseArgs(dir), "-check", solution, writeInstance(t, dir)), &stdout, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stdout.String(), "overlap")
	assert.Contains(t, stdout.String(), "off-grid")
}

func TestRun_WriteConfigUsesProfileAndFlags(t *testing.T) {
	dir := t.TempDir()
	args := append(baseArgs(dir), "-profile", "fast", "-max-attempts", "3", "-write-config")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(args, &stdout, &stderr))

	cfg, err := project.LoadConfig(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Solver.MaxAttempts)
	assert.Equal(t, 4, cfg.Solver.CandidatesPerOutline)
	assert.False(t, cfg.Solver.SanitizeBuffers)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestRun_CSVInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y,weight\n0,0,2\n1,0,2\n"), 0644))

	var stdout, stderr bytes.Buffer
	args := append(baseArgs(dir), "-id", "9", "-heuristic", "unordered", path)
	require.NoError(t, run(args, &stdout, &stderr))
	assert.Equal(t, "1\n9\n0 0\n2 0\n", stdout.String())
}

func TestRun_RejectsBadArguments(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	assert.Error(t, run(baseArgs(dir), &stdout, &stderr))
	assert.Error(t, run(append(baseArgs(dir), "-heuristic", "random", "x.txt"), &stdout, &stderr))
	assert.Error(t, run(append(baseArgs(dir), "-profile", "nope", "x.txt"), &stdout, &stderr))
	assert.Error(t, run(append(baseArgs(dir), filepath.Join(dir, "missing.txt")), &stdout, &stderr))
}
