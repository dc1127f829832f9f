package export

import (
	"fmt"

	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	pathsSheet   = "Paths"
)

// PathStats describes a single toolpath in the XLSX report.
type PathStats struct {
	Index     int
	Points    int
	LengthMM  float64
	MinWidth  float64
	AvgWidth  float64
	MaxWidth  float64
	OpenStart bool
	OpenEnd   bool
	Closed    bool
}

// CollectPathStats computes per-path statistics.
func CollectPathStats(paths model.ThickPolylines) []PathStats {
	stats := make([]PathStats, 0, len(paths))
	for i, tp := range paths {
		s := PathStats{
			Index:     i + 1,
			Points:    len(tp.Points),
			LengthMM:  model.Unscale(model.Coord(tp.Length())),
			OpenStart: tp.Endpoints[0],
			OpenEnd:   tp.Endpoints[1],
			Closed:    tp.IsClosed(),
		}
		if len(tp.Width) > 0 {
			s.MinWidth = model.Unscale(tp.Width[0])
			s.MaxWidth = s.MinWidth
			var sum float64
			for _, w := range tp.Width {
				mm := model.Unscale(w)
				s.MinWidth = min(s.MinWidth, mm)
				s.MaxWidth = max(s.MaxWidth, mm)
				sum += mm
			}
			s.AvgWidth = sum / float64(len(tp.Width))
		}
		stats = append(stats, s)
	}
	return stats
}

// ExportReport writes an XLSX workbook with a summary sheet listing every
// plot and a paths sheet listing every toolpath.
func ExportReport(path string, plots []Plot) error {
	if len(plots) == 0 {
		return fmt.Errorf("no surfaces to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(pathsSheet); err != nil {
		return fmt.Errorf("failed to create paths sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	summaryHeader := []interface{}{"Surface", "Area (mm²)", "Paths", "Open ends", "Length (mm)", "Gaps", "Gap area (mm²)", "Min width (mm)", "Max width (mm)"}
	if err := writeRow(f, summarySheet, 1, summaryHeader, bold); err != nil {
		return err
	}
	pathsHeader := []interface{}{"Surface", "Path", "Points", "Length (mm)", "Min width (mm)", "Avg width (mm)", "Max width (mm)", "Open start", "Open end", "Closed"}
	if err := writeRow(f, pathsSheet, 1, pathsHeader, bold); err != nil {
		return err
	}

	pathRow := 2
	for i, plot := range plots {
		s := Summarize(plot)
		row := []interface{}{s.Title, s.AreaMM2, s.Paths, s.OpenEnds, s.LengthMM, s.Gaps, s.GapAreaMM, s.MinWidth, s.MaxWidth}
		if err := writeRow(f, summarySheet, i+2, row, 0); err != nil {
			return err
		}

		for _, ps := range CollectPathStats(plot.Paths) {
			row := []interface{}{plot.Title, ps.Index, ps.Points, ps.LengthMM, ps.MinWidth, ps.AvgWidth, ps.MaxWidth, ps.OpenStart, ps.OpenEnd, ps.Closed}
			if err := writeRow(f, pathsSheet, pathRow, row, 0); err != nil {
				return err
			}
			pathRow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// writeRow writes values starting at column A of the given 1-based row.
// A non-zero style is applied to the written cells.
func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to create cell reference: %w", err)
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return fmt.Errorf("failed to create cell reference: %w", err)
	}
	return f.SetCellStyle(sheet, start, end, style)
}
