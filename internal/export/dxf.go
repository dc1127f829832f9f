package export

import (
	"fmt"

	"github.com/piwi3910/ensurefill/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names used by ExportDXF.
const (
	LayerArea          = "AREA"
	LayerReconstructed = "RECONSTRUCTED"
	LayerGaps          = "GAPS"
	LayerPaths         = "PATHS"
)

// ExportDXF writes the plots to a DXF file. Area, reconstructed and gap
// rings become closed LWPOLYLINEs on their own layers and every toolpath
// an LWPOLYLINE on the paths layer. Coordinates are in mm.
func ExportDXF(path string, plots []Plot) error {
	if len(plots) == 0 {
		return fmt.Errorf("no surfaces to export")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerArea, color.Red},
		{LayerReconstructed, color.Blue},
		{LayerGaps, color.Green},
		{LayerPaths, color.White},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	for _, plot := range plots {
		if err := writeRings(d, LayerArea, plot.Area); err != nil {
			return err
		}
		if err := writeRings(d, LayerReconstructed, plot.Reconstructed); err != nil {
			return err
		}
		if err := writeRings(d, LayerGaps, plot.Gaps.Polygons()); err != nil {
			return err
		}
		if err := writePaths(d, plot.Paths); err != nil {
			return err
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func writeRings(d *drawing.Drawing, layer string, rings model.Polygons) error {
	if err := d.ChangeLayer(layer); err != nil {
		return fmt.Errorf("failed to select layer %s: %w", layer, err)
	}
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		if _, err := d.LwPolyline(true, vertices(ring)...); err != nil {
			return fmt.Errorf("failed to write %s ring: %w", layer, err)
		}
	}
	return nil
}

// writePaths writes toolpaths as polylines. Closed loops drop their
// repeated last point and set the closed flag instead.
func writePaths(d *drawing.Drawing, paths model.ThickPolylines) error {
	if err := d.ChangeLayer(LayerPaths); err != nil {
		return fmt.Errorf("failed to select layer %s: %w", LayerPaths, err)
	}
	for i, tp := range paths {
		if !tp.IsValid() {
			continue
		}
		pts, closed := tp.Points, tp.IsClosed()
		if closed {
			pts = pts[:len(pts)-1]
		}
		if _, err := d.LwPolyline(closed, vertices(pts)...); err != nil {
			return fmt.Errorf("failed to write path %d: %w", i+1, err)
		}
	}
	return nil
}

func vertices(pts []model.Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = []float64{model.Unscale(p.X), model.Unscale(p.Y)}
	}
	return out
}
