package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetPlacements and SheetSummary name the worksheets written by ExportXLSX.
const (
	SheetPlacements = "Placements"
	SheetSummary    = "Summary"
)

var placementHeader = []interface{}{
	"ID", "X", "Y", "Weight", "Placed X", "Placed Y", "Displacement", "Placed", "Outline",
}

// ExportXLSX writes one row per point with its original and assigned
// position, plus a summary sheet with the run statistics.
func ExportXLSX(path string, run Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPlacements); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := setRow(f, SheetPlacements, 1, placementHeader); err != nil {
		return err
	}

	for i, pl := range placements(run) {
		outlineID := interface{}("")
		if pl.Outline >= 0 {
			outlineID = int(run.Result.Outlines[pl.Outline].ID())
		}
		row := []interface{}{
			pl.Point.ID, pl.Point.X, pl.Point.Y, pl.Point.Weight,
			pl.Position.X, pl.Position.Y, pl.Displacement, pl.Placed, outlineID,
		}
		if err := setRow(f, SheetPlacements, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	res := run.Result
	summary := [][]interface{}{
		{"Run", run.ID},
		{"Instance", run.Instance.ID},
		{"Heuristic", string(run.Settings.Heuristic)},
		{"Points", len(run.Instance.Points)},
		{"Placed", res.PlacedCount()},
		{"Total Displacement", res.TotalDisplacement},
		{"Max Displacement", res.MaxDisplacement},
		{"Outlines", len(res.Outlines)},
		{"Merges", res.Stats.Merges},
		{"Projections", res.Stats.Projections},
	}
	for i, row := range summary {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
