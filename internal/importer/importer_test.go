package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("ID,X,Y,Weight\n1,0.5,1.5,2\n2,3,4,1\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("ID;X;Y;Weight\n1;0.5;1.5;2\n2;3;4;1\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("ID\tX\tY\tWeight\n1\t0.5\t1.5\t2\n2\t3\t4\t1\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("ID|X|Y|Weight\n1|0.5|1.5|2\n2|3|4|1\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"ID", "X", "Y", "Weight"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.ID != 0 || mapping.X != 1 || mapping.Y != 2 || mapping.Weight != 3 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_Aliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{" size ", "PY", "px"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Weight != 0 || mapping.Y != 1 || mapping.X != 2 || mapping.ID != -1 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeaderIsPositional(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"1.5", "2", "3"})

	if isHeader {
		t.Error("numeric row should not be a header")
	}
	if mapping.X != 0 || mapping.Y != 1 || mapping.Weight != 2 || mapping.ID != -1 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestImportCSV_WithHeaders(t *testing.T) {
	path := writeTemp(t, "points.csv", "id,x,y,weight\n7,0.5,1.5,2\n8,3,4,1\n")

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	p := result.Points[0]
	if p.ID != 7 || p.X != 0.5 || p.Y != 1.5 || p.Weight != 2 {
		t.Errorf("unexpected first point %+v", p)
	}
}

func TestImportCSV_SemicolonWithoutHeader(t *testing.T) {
	path := writeTemp(t, "points.csv", "1;2;3\n4;5;6\n")

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	if result.Points[1].ID != 1 || result.Points[1].Weight != 6 {
		t.Errorf("unexpected second point %+v", result.Points[1])
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_InvalidRows(t *testing.T) {
	path := writeTemp(t, "points.csv", "x,y,weight\nabc,1,1\n2,,1\n3,3,-2\n4,4,1\n")

	result := ImportCSV(path)

	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %v", result.Errors)
	}
	if len(result.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(result.Points))
	}
}

func TestImportCSV_MissingWeightDefaultsToOne(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("x,y\n1,2\n"), ',')

	if len(result.Points) != 1 || result.Points[0].Weight != 1 {
		t.Fatalf("expected one point of weight 1, got %+v", result.Points)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "defaulting to 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected default weight warning, got %v", result.Warnings)
	}
}

func TestImportCSV_MissingRequiredColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("id,x,weight\n1,2,3\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Y") {
		t.Errorf("expected missing Y column error, got %v", result.Errors)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	result := ImportCSV(writeTemp(t, "empty.csv", "  \n"))
	if len(result.Errors) != 1 {
		t.Errorf("expected one error, got %v", result.Errors)
	}
}

func TestImportResult_Instance(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("-0.5,1.2,1\n3.7,4,2\n"), ',')
	inst := result.Instance(9)

	if inst.ID != 9 || len(inst.Points) != 2 {
		t.Fatalf("unexpected instance %+v", inst)
	}
	if inst.Bounds.MinX != -1 || inst.Bounds.MaxX != 4 || inst.Bounds.MinY != 1 || inst.Bounds.MaxY != 4 {
		t.Errorf("unexpected bounds %+v", inst.Bounds)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Weight", "X", "Y"},
		{3, 1.5, 2.5},
		{1, 4, 0},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	p := result.Points[0]
	if p.X != 1.5 || p.Y != 2.5 || p.Weight != 3 {
		t.Errorf("unexpected first point %+v", p)
	}
}

func TestImportExcel_MissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func TestImportDXF_CirclesAndLineSquares(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.dxf")

	d := dxf.NewDrawing()
	if _, err := d.Circle(5, 5, 0, 1); err != nil {
		t.Fatalf("failed to add circle: %v", err)
	}
	// A 3x3 square drawn as four loose lines.
	corners := [][2]float64{{10, 10}, {13, 10}, {13, 13}, {10, 13}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			t.Fatalf("failed to add line: %v", err)
		}
	}
	// An open polyline of lines is ignored.
	if _, err := d.Line(20, 20, 0, 25, 20, 0); err != nil {
		t.Fatalf("failed to add line: %v", err)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}

	result := ImportDXF(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %+v", result.Points)
	}
	if p := result.Points[0]; p.X != 5 || p.Y != 5 || p.Weight != 2 {
		t.Errorf("unexpected circle point %+v", p)
	}
	if p := result.Points[1]; p.X != 11.5 || p.Y != 11.5 || p.Weight != 3 {
		t.Errorf("unexpected square point %+v", p)
	}
}

func TestImportDXF_MissingFile(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"))
	if len(result.Errors) == 0 {
		t.Error("expected an error for a missing file")
	}
}
