package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SquareFit/internal/engine"
	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/importer"
	"github.com/piwi3910/SquareFit/internal/model"
)

// buildTestRun solves a small instance with one overlapping pair and one
// isolated point.
func buildTestRun(t *testing.T) Run {
	t.Helper()
	inst := model.Instance{
		ID:     5,
		Bounds: model.Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
		Points: []model.WeightedPoint{
			model.NewWeightedPoint(0, 0, 0, 2),
			model.NewWeightedPoint(1, 1, 0, 2),
			model.NewWeightedPoint(2, 7, 7, 3),
		},
	}
	settings := model.DefaultSettings()
	settings.Heuristic = model.HeuristicUnordered
	res, err := engine.New(settings).WithLogger(zerolog.Nop()).Solve(inst)
	require.NoError(t, err)
	return Run{ID: "a1b2c3d4", Instance: inst, Settings: settings, Result: res}
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlacements_AssignOutlines(t *testing.T) {
	run := buildTestRun(t)
	rows := placements(run)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].Placed)
	assert.Equal(t, rows[0].Outline, rows[1].Outline)
	assert.NotEqual(t, rows[0].Outline, rows[2].Outline)
	assert.InDelta(t, 1.0, rows[1].Displacement, 1e-9)
	assert.Equal(t, geom.Rect{MinX: 1, MinY: -1, MaxX: 3, MaxY: 1}, rows[1].Square)
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.pdf")
	require.NoError(t, ExportPDF(path, buildTestRun(t)))
	assertNonEmptyFile(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportPDF_NoPoints(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "empty.pdf"), Run{})
	assert.Error(t, err)
}

func TestExportPDF_UnplacedPoints(t *testing.T) {
	run := buildTestRun(t)
	run.Result.Placed[2] = false
	run.Result.Stalled = []int{2}

	path := filepath.Join(t.TempDir(), "stalled.pdf")
	require.NoError(t, ExportPDF(path, run))
	assertNonEmptyFile(t, path)
}

func TestSummarize_JSONPayload(t *testing.T) {
	summary := Summarize(buildTestRun(t))
	assert.Equal(t, 3, summary.Placed)
	assert.Equal(t, model.HeuristicUnordered, summary.Heuristic)

	payload, err := sonic.Marshal(summary)
	require.NoError(t, err)

	var decoded RunSummary
	require.NoError(t, sonic.Unmarshal(payload, &decoded))
	assert.Equal(t, summary, decoded)
	assert.Contains(t, string(payload), `"run":"a1b2c3d4"`)
}

func TestExportDXF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")
	require.NoError(t, ExportDXF(path, buildTestRun(t)))
	assertNonEmptyFile(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, layer := range []string{LayerSquares, LayerOutlines, LayerDisplacement} {
		assert.Contains(t, string(data), layer)
	}
}

func TestExportXLSX_Rows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.xlsx")
	require.NoError(t, ExportXLSX(path, buildTestRun(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPlacements, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetPlacements)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "2", rows[2][4])
	assert.Equal(t, "TRUE", strings.ToUpper(rows[2][7]))
}

func TestWriteSolution_RoundTrip(t *testing.T) {
	run := buildTestRun(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, run.Result.Solution))
	assert.Equal(t, "1\n5\n0 0\n2 0\n7.5 7.5\n", buf.String())

	sol, err := importer.ReadSolution(&buf, len(run.Instance.Points))
	require.NoError(t, err)
	assert.Equal(t, run.Result.Solution, sol)
}

func TestWriteSolutionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.txt")
	run := buildTestRun(t)
	require.NoError(t, WriteSolutionFile(path, run.Result.Solution))

	sol, err := importer.ReadSolutionFile(path, len(run.Instance.Points))
	require.NoError(t, err)
	assert.Equal(t, run.Result.Solution.Positions, sol.Positions)
}
