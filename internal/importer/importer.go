// Package importer reads fill areas from DXF drawings and from CSV or
// Excel vertex tables. Tables support automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Surfaces []model.Surface
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Area int
	Ring int
	X    int
	Y    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"area": {"area", "surface", "region", "name", "label", "island"},
	"ring": {"ring", "loop", "contour", "polygon", "path"},
	"x":    {"x", "x_mm", "x (mm)", "px"},
	"y":    {"y", "y_mm", "y (mm)", "py"},
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

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (area, ring, x, y) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Area: -1, Ring: -1, X: -1, Y: -1}

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
				case "area":
					if mapping.Area == -1 {
						mapping.Area = i
					}
				case "ring":
					if mapping.Ring == -1 {
						mapping.Ring = i
					}
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Area: 0, Ring: 1, X: 2, Y: 3}, false
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

// vertexRow is one parsed table row.
type vertexRow struct {
	area string
	ring string
	p    vec
}

// parseRow extracts a vertex from a row using the given column mapping.
// Returns the vertex and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (vertexRow, string) {
	v := vertexRow{
		area: getCell(row, mapping.Area),
		ring: getCell(row, mapping.Ring),
	}

	xStr := getCell(row, mapping.X)
	if xStr == "" {
		return v, fmt.Sprintf("%s: Missing x value", rowLabel)
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return v, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, xStr)
	}

	yStr := getCell(row, mapping.Y)
	if yStr == "" {
		return v, fmt.Sprintf("%s: Missing y value", rowLabel)
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return v, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, yStr)
	}

	v.p = vec{X: x, Y: y}
	return v, ""
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

// ImportCSV imports areas from a CSV vertex table.
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

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports areas from a CSV reader with a specific delimiter.
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

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports areas from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
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

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dxf":
		return ImportDXF(path)
	case ".csv", ".tsv", ".txt":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type %q", ext)}}
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Consecutive rows sharing an area and ring label form one ring; the
// rings of each area are nested into contours and holes.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
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
	} else if len(rows[0]) >= 4 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][2]), 64); err != nil {
			// unrecognized header, keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	var order []string
	ringsByArea := make(map[string][][]vec)
	lastArea, lastRing := "", ""
	started := false

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		v, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		if _, ok := ringsByArea[v.area]; !ok {
			order = append(order, v.area)
		}
		if !started || v.area != lastArea || v.ring != lastRing {
			ringsByArea[v.area] = append(ringsByArea[v.area], nil)
			lastArea, lastRing, started = v.area, v.ring, true
		}
		rings := ringsByArea[v.area]
		rings[len(rings)-1] = append(rings[len(rings)-1], v.p)
	}

	for _, name := range order {
		var polys model.Polygons
		for j, ring := range ringsByArea[name] {
			if len(ring) > 3 && pointsClose(ring[0], ring[len(ring)-1], 1e-9) {
				ring = ring[:len(ring)-1]
			}
			if len(ring) < 3 || outlineArea(ring) == 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Area %q: skipped ring %d with fewer than 3 distinct vertices", name, j+1))
				continue
			}
			polys = append(polys, toPolygon(ring))
		}

		areas := nestRings(polys)
		for k, area := range areas {
			label := name
			if label == "" {
				label = fmt.Sprintf("Area %d", len(result.Surfaces)+1)
			} else if len(areas) > 1 {
				label = fmt.Sprintf("%s #%d", name, k+1)
			}
			result.Surfaces = append(result.Surfaces, model.NewSurface(label, area))
		}
	}

	if len(result.Surfaces) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No areas found")
	}
	return result
}
