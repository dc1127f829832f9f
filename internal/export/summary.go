package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/ensurefill/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// PlotSummary holds the statistics encoded into each page's QR code.
type PlotSummary struct {
	Title     string  `json:"title"`
	AreaMM2   float64 `json:"area_mm2"`
	Paths     int     `json:"paths"`
	OpenEnds  int     `json:"open_ends"`
	LengthMM  float64 `json:"length_mm"`
	Gaps      int     `json:"gaps"`
	GapAreaMM float64 `json:"gap_area_mm2"`
	MinWidth  float64 `json:"min_width_mm"`
	MaxWidth  float64 `json:"max_width_mm"`
}

const qrSize = 30.0 // QR code size in mm

// Summarize computes the statistics of a plot.
func Summarize(plot Plot) PlotSummary {
	mm2 := model.ScalingFactor * model.ScalingFactor
	s := PlotSummary{
		Title:     plot.Title,
		AreaMM2:   math.Abs(plot.Area.Area()) * mm2,
		Paths:     len(plot.Paths),
		LengthMM:  model.Unscale(model.Coord(plot.Paths.TotalLength())),
		Gaps:      len(plot.Gaps),
		GapAreaMM: plot.Gaps.Area() * mm2,
	}

	minW, maxW := math.Inf(1), math.Inf(-1)
	for _, tp := range plot.Paths {
		if tp.Endpoints[0] {
			s.OpenEnds++
		}
		if tp.Endpoints[1] {
			s.OpenEnds++
		}
		for _, w := range tp.Width {
			mm := model.Unscale(w)
			minW = math.Min(minW, mm)
			maxW = math.Max(maxW, mm)
		}
	}
	if !math.IsInf(minW, 1) {
		s.MinWidth, s.MaxWidth = minW, maxW
	}
	return s
}

// renderSummaryQR places a QR code encoding the summary as JSON at x, y.
func renderSummaryQR(pdf *fpdf.Fpdf, x, y float64, summary PlotSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", summary.Title, pdf.PageNo())
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, qrSize, qrSize, "D")
	return nil
}
