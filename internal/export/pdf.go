// Package export provides functionality for exporting fill results to
// various file formats.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/ensurefill/internal/model"
)

// Plot is the geometry of one filled surface as drawn in the PDF and
// DXF exports. All coordinates share one frame.
type Plot struct {
	Title         string
	Area          model.Polygons
	Reconstructed model.Polygons
	Gaps          model.ExPolygons
	Paths         model.ThickPolylines
}

// rgb represents a stroke or fill color.
type rgb struct {
	R, G, B int
}

var (
	areaColor          = rgb{R: 220, G: 40, B: 40}
	reconstructedColor = rgb{R: 33, G: 100, B: 243}
	gapColor           = rgb{R: 46, G: 160, B: 60}
	pathColor          = rgb{R: 110, G: 110, B: 110}
	endpointColor      = rgb{R: 255, G: 152, B: 0}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 10.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF with one page per plot, followed by a summary
// page when there is more than one plot.
func ExportPDF(path string, plots []Plot) error {
	if len(plots) == 0 {
		return fmt.Errorf("no surfaces to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, plot := range plots {
		pdf.AddPage()
		if err := renderPlotPage(pdf, plot, i+1); err != nil {
			return fmt.Errorf("failed to render %q: %w", plot.Title, err)
		}
	}

	if len(plots) > 1 {
		pdf.AddPage()
		renderSummaryPage(pdf, plots)
	}

	return pdf.OutputFileAndClose(path)
}

// PDFDebugSink writes a single-page PDF per filled surface into Dir,
// named after the surface key. Surfaces sharing a key overwrite each other.
type PDFDebugSink struct {
	Dir string
}

func (s PDFDebugSink) Surface(key string, area, reconstructed model.Polygons, gaps model.ExPolygons, paths model.ThickPolylines) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create debug dir: %w", err)
	}
	plot := Plot{
		Title:         key,
		Area:          area,
		Reconstructed: reconstructed,
		Gaps:          gaps,
		Paths:         paths,
	}
	return ExportPDF(filepath.Join(s.Dir, key+".pdf"), []Plot{plot})
}

// frame maps model coordinates onto the page. Y is flipped so the plot
// reads like a top view.
type frame struct {
	scale            float64
	minX, maxY       float64
	offsetX, offsetY float64
}

func (f frame) point(p model.Point) (float64, float64) {
	return f.offsetX + (model.Unscale(p.X)-f.minX)*f.scale,
		f.offsetY + (f.maxY-model.Unscale(p.Y))*f.scale
}

func newFrame(bb model.BoundingBox, x, y, w, h float64) frame {
	size := bb.Size()
	bw := math.Max(model.Unscale(size.X), 1e-3)
	bh := math.Max(model.Unscale(size.Y), 1e-3)
	scale := math.Min(w/bw, h/bh)
	return frame{
		scale:   scale,
		minX:    model.Unscale(bb.Min.X),
		maxY:    model.Unscale(bb.Max.Y),
		offsetX: x + (w-bw*scale)/2,
		offsetY: y,
	}
}

// renderPlotPage draws a single plot on the current PDF page.
func renderPlotPage(pdf *fpdf.Fpdf, plot Plot, num int) error {
	summary := Summarize(plot)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Surface %d: %s", num, plot.Title)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Area: %.1f mm² | Paths: %d | Length: %.1f mm | Gaps: %d | Width: %.3f..%.3f mm",
		summary.AreaMM2, summary.Paths, summary.LengthMM, summary.Gaps, summary.MinWidth, summary.MaxWidth)
	pdf.CellFormat(pageWidth-marginLeft-marginRight-qrSize, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - qrSize - 5
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	bb := plot.Area.BoundingBox()
	for _, tp := range plot.Paths {
		for _, p := range tp.Points {
			bb.MergePoint(p)
		}
	}
	if bb.Defined {
		f := newFrame(bb, marginLeft, drawAreaTop, drawWidth, drawHeight)
		drawGaps(pdf, f, plot.Gaps)
		drawRings(pdf, f, plot.Reconstructed, reconstructedColor, 0.3)
		drawRings(pdf, f, plot.Area, areaColor, 0.4)
		drawPaths(pdf, f, plot.Paths)
	}

	if err := renderSummaryQR(pdf, pageWidth-marginRight-qrSize, drawAreaTop, summary); err != nil {
		return err
	}

	drawLegend(pdf, pageHeight-marginBottom-legendHeight+4)
	return nil
}

func toPointTypes(f frame, ring model.Polygon) []fpdf.PointType {
	pts := make([]fpdf.PointType, len(ring))
	for i, p := range ring {
		pts[i].X, pts[i].Y = f.point(p)
	}
	return pts
}

// drawRings strokes every ring of ps.
func drawRings(pdf *fpdf.Fpdf, f frame, ps model.Polygons, col rgb, width float64) {
	pdf.SetDrawColor(col.R, col.G, col.B)
	pdf.SetLineWidth(width)
	for _, ring := range ps {
		if len(ring) < 2 {
			continue
		}
		pdf.Polygon(toPointTypes(f, ring), "D")
	}
}

// drawGaps fills gap contours with a light tint and strokes their holes.
func drawGaps(pdf *fpdf.Fpdf, f frame, gaps model.ExPolygons) {
	pdf.SetFillColor(200, 235, 200)
	pdf.SetDrawColor(gapColor.R, gapColor.G, gapColor.B)
	pdf.SetLineWidth(0.2)
	for _, gap := range gaps {
		if len(gap.Contour) >= 3 {
			pdf.Polygon(toPointTypes(f, gap.Contour), "FD")
		}
		for _, hole := range gap.Holes {
			if len(hole) >= 3 {
				pdf.SetFillColor(255, 255, 255)
				pdf.Polygon(toPointTypes(f, hole), "FD")
				pdf.SetFillColor(200, 235, 200)
			}
		}
	}
}

// drawPaths draws each segment at its extrusion width, and marks open
// path ends.
func drawPaths(pdf *fpdf.Fpdf, f frame, paths model.ThickPolylines) {
	pdf.SetDrawColor(pathColor.R, pathColor.G, pathColor.B)
	pdf.SetLineCapStyle("round")
	for _, tp := range paths {
		for i := 1; i < len(tp.Points); i++ {
			w := model.Unscale((tp.Width[i-1] + tp.Width[i]) / 2)
			pdf.SetLineWidth(math.Max(w*f.scale*0.5, 0.05))
			x1, y1 := f.point(tp.Points[i-1])
			x2, y2 := f.point(tp.Points[i])
			pdf.Line(x1, y1, x2, y2)
		}
	}
	pdf.SetLineCapStyle("butt")

	pdf.SetFillColor(endpointColor.R, endpointColor.G, endpointColor.B)
	for _, tp := range paths {
		if !tp.IsValid() {
			continue
		}
		if tp.Endpoints[0] {
			x, y := f.point(tp.FirstPoint())
			pdf.Circle(x, y, 0.5, "F")
		}
		if tp.Endpoints[1] {
			x, y := f.point(tp.LastPoint())
			pdf.Circle(x, y, 0.5, "F")
		}
	}
}

// drawLegend renders the color key at the bottom of the page.
func drawLegend(pdf *fpdf.Fpdf, y float64) {
	items := []struct {
		label string
		col   rgb
	}{
		{"Area", areaColor},
		{"Reconstructed", reconstructedColor},
		{"Gaps", gapColor},
		{"Paths", pathColor},
		{"Open ends", endpointColor},
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	x := marginLeft
	for _, item := range items {
		pdf.SetFillColor(item.col.R, item.col.G, item.col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		w := pdf.GetStringWidth(item.label) + 2
		pdf.CellFormat(w, 4, item.label, "", 0, "L", false, 0, "")
		x += w + 8
	}
}

// renderSummaryPage draws a table of per-surface statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, plots []Plot) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Fill Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	colWidths := []float64{15, 70, 35, 25, 35, 25, 45}
	headers := []string{"#", "Surface", "Area", "Paths", "Length", "Gaps", "Width"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	var totalArea, totalLength float64
	var totalPaths int
	pdf.SetFont("Helvetica", "", 9)
	for i, plot := range plots {
		s := Summarize(plot)
		totalArea += s.AreaMM2
		totalLength += s.LengthMM
		totalPaths += s.Paths

		rowData := []string{
			fmt.Sprintf("%d", i+1),
			plot.Title,
			fmt.Sprintf("%.1f mm²", s.AreaMM2),
			fmt.Sprintf("%d", s.Paths),
			fmt.Sprintf("%.1f mm", s.LengthMM),
			fmt.Sprintf("%d", s.Gaps),
			fmt.Sprintf("%.3f..%.3f mm", s.MinWidth, s.MaxWidth),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
	}

	y += 6
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	total := fmt.Sprintf("Total: %d surfaces, %.1f mm², %d paths, %.1f mm", len(plots), totalArea, totalPaths, totalLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, total, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ensurefill", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
