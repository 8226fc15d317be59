// Package importer reads problem instances and solutions. Besides the plain
// text formats it imports point lists from CSV, Excel and DXF files with
// automatic delimiter detection and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SquareFit/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Points   []model.WeightedPoint
	Errors   []string
	Warnings []string
}

// Instance wraps the imported points in an instance whose bounds are the
// integer box around all point positions.
func (r ImportResult) Instance(id int) model.Instance {
	inst := model.Instance{ID: id, Points: r.Points}
	if len(r.Points) == 0 {
		return inst
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range r.Points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	inst.Bounds = model.Bounds{
		MinX: int(math.Floor(minX)),
		MaxX: int(math.Ceil(maxX)),
		MinY: int(math.Floor(minY)),
		MaxY: int(math.Ceil(maxY)),
	}
	return inst
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID     int
	X      int
	Y      int
	Weight int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":     {"id", "label", "name", "point", "#"},
	"x":      {"x", "px", "pos x", "x coordinate"},
	"y":      {"y", "py", "pos y", "y coordinate"},
	"weight": {"weight", "w", "size", "side", "width"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. Without a
// recognizable header the columns are taken positionally as x, y, weight.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, X: -1, Y: -1, Weight: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "id":
					if mapping.ID == -1 {
						mapping.ID = i
					}
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				case "weight":
					if mapping.Weight == -1 {
						mapping.Weight = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: -1, X: 0, Y: 1, Weight: 2}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a point from a row using the given column mapping.
// Returns the point, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, pointCount int) (model.WeightedPoint, string, string) {
	id := pointCount
	var warning string
	if idStr := getCell(row, mapping.ID); idStr != "" {
		if v, err := strconv.Atoi(idStr); err == nil {
			id = v
		} else {
			warning = fmt.Sprintf("%s: Non-numeric id '%s', using %d", rowLabel, idStr, id)
		}
	}

	xStr := getCell(row, mapping.X)
	if xStr == "" {
		return model.WeightedPoint{}, fmt.Sprintf("%s: Missing x value", rowLabel), ""
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return model.WeightedPoint{}, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, xStr), ""
	}

	yStr := getCell(row, mapping.Y)
	if yStr == "" {
		return model.WeightedPoint{}, fmt.Sprintf("%s: Missing y value", rowLabel), ""
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return model.WeightedPoint{}, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, yStr), ""
	}

	weight := 1
	if wStr := getCell(row, mapping.Weight); wStr != "" {
		w, err := strconv.ParseFloat(wStr, 64)
		if err != nil {
			return model.WeightedPoint{}, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, wStr), ""
		}
		if w <= 0 {
			return model.WeightedPoint{}, fmt.Sprintf("%s: Weight must be positive", rowLabel), ""
		}
		weight = int(math.Round(w))
		if float64(weight) != w {
			warning = fmt.Sprintf("%s: Weight %s rounded to %d", rowLabel, wStr, weight)
		}
		if weight < 1 {
			weight = 1
		}
	} else {
		warning = fmt.Sprintf("%s: Missing weight, defaulting to 1", rowLabel)
	}

	return model.NewWeightedPoint(id, x, y, weight), "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports points from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports points from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports points from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		// An unrecognized header: skip it but keep the positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		p, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Points))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Points = append(result.Points, p)
	}

	return result
}
