package gcode

import (
	"fmt"
	"strings"

	"github.com/piwi3910/ensurefill/internal/model"
)

// Generator produces G-code from fill toolpaths.
type Generator struct {
	Print       model.PrintSettings
	Motion      model.MotionSettings
	LayerHeight float64 // mm
	profile     model.GCodeProfile
}

func New(print model.PrintSettings, motion model.MotionSettings, layerHeight float64) *Generator {
	return &Generator{
		Print:       print,
		Motion:      motion,
		LayerHeight: layerHeight,
		profile:     model.GetProfile(motion.GCodeProfile),
	}
}

// NewForJob builds a Generator from a job's settings.
func NewForJob(job model.Job) *Generator {
	return New(job.Print, job.Motion, job.Params.LayerHeight)
}

// GenerateLayer produces G-code printing paths at height z, in order.
func (g *Generator) GenerateLayer(paths model.ThickPolylines, z float64, label string) string {
	var b strings.Builder

	g.writeHeader(&b, paths, z, label)
	for i, tp := range paths {
		g.writePath(&b, tp, i+1, z)
	}
	g.writeFooter(&b)
	return b.String()
}

// GenerateJob produces G-code for a job's result, printed as a single
// layer at the job's layer height.
func (g *Generator) GenerateJob(job model.Job) string {
	label := job.Surface.Name
	if label == "" {
		label = job.Surface.ID
	}
	return g.GenerateLayer(job.Result, job.Params.LayerHeight, label)
}

func (g *Generator) writeHeader(b *strings.Builder, paths model.ThickPolylines, z float64, label string) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("ensurefill G-code: %s", label)))
	b.WriteString(g.comment(fmt.Sprintf("Paths: %d, Length: %.1fmm",
		len(paths), model.Unscale(model.Coord(paths.TotalLength())))))
	b.WriteString(g.comment(fmt.Sprintf("Layer height: %.2fmm, Z: %.2fmm", g.LayerHeight, z)))
	b.WriteString(g.comment(fmt.Sprintf("Nozzle: %.2fmm, Filament: %.2fmm, Flow: %.2f",
		g.Print.NozzleDiameter, g.Print.FilamentDiameter, g.Print.ExtrusionMultiplier)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	// E words are deltas whatever the profile declares.
	b.WriteString(model.RelativeExtrusion + "\n")
	if p.ResetExtruder != "" {
		b.WriteString(p.ResetExtruder + "\n")
	}

	b.WriteString(fmt.Sprintf("%s Z%s F%s\n", p.RapidMove, g.format(z), g.format(g.Motion.TravelSpeed*60)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(g.comment("=== Layer complete ==="))
	for _, code := range g.profile.EndCode {
		b.WriteString(code + "\n")
	}
}

// writePath travels to the path start with a retract and optional z-hop,
// then extrudes along the path.
func (g *Generator) writePath(b *strings.Builder, tp model.ThickPolyline, num int, z float64) {
	p := g.profile
	if !tp.IsValid() {
		b.WriteString(g.comment(fmt.Sprintf("WARNING: path %d has fewer than 2 points, skipping", num)))
		return
	}

	b.WriteString(g.comment(fmt.Sprintf("--- Path %d (%d points, %.2fmm%s) ---",
		num, len(tp.Points), model.Unscale(model.Coord(tp.Length())), closedStr(tp.IsClosed()))))

	retract := g.Motion.RetractLen > 0
	if retract {
		b.WriteString(fmt.Sprintf("%s E%s F%s\n", p.FeedMove,
			g.formatE(-g.Motion.RetractLen), g.format(g.Motion.RetractSpeed*60)))
	}
	if g.Motion.ZHop > 0 {
		b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(z+g.Motion.ZHop)))
	}

	start := tp.FirstPoint()
	b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.RapidMove,
		g.format(model.Unscale(start.X)), g.format(model.Unscale(start.Y)),
		g.format(g.Motion.TravelSpeed*60)))

	if g.Motion.ZHop > 0 {
		b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(z)))
	}
	if retract {
		b.WriteString(fmt.Sprintf("%s E%s F%s\n", p.FeedMove,
			g.formatE(g.Motion.RetractLen), g.format(g.Motion.RetractSpeed*60)))
	}

	for i := 1; i < len(tp.Points); i++ {
		pt := tp.Points[i]
		e := g.extrusion(tp.Points[i-1], pt, tp.Width[i-1], tp.Width[i])
		line := fmt.Sprintf("%s X%s Y%s E%s", p.FeedMove,
			g.format(model.Unscale(pt.X)), g.format(model.Unscale(pt.Y)), g.formatE(e))
		if i == 1 {
			line += " F" + g.format(g.Motion.InfillSpeed*60)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

// extrusion returns the filament length for a segment from a to b whose
// width changes linearly from wa to wb. The bead is modelled as a
// rectangle of the layer height.
func (g *Generator) extrusion(a, b model.Point, wa, wb model.Coord) float64 {
	area := g.Print.FilamentArea()
	if area <= 0 {
		return 0
	}
	length := model.Unscale(model.Coord(a.Distance(b)))
	width := model.Unscale((wa + wb) / 2)
	return length * width * g.LayerHeight / area * g.Print.ExtrusionMultiplier
}

// ExtrusionTotal returns the filament length needed to print paths.
func (g *Generator) ExtrusionTotal(paths model.ThickPolylines) float64 {
	var total float64
	for _, tp := range paths {
		for i := 1; i < len(tp.Points); i++ {
			total += g.extrusion(tp.Points[i-1], tp.Points[i], tp.Width[i-1], tp.Width[i])
		}
	}
	return total
}

func closedStr(closed bool) string {
	if closed {
		return ", loop"
	}
	return ""
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}

// formatE formats an extruder value according to the profile's extrusion
// decimal places.
func (g *Generator) formatE(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.ExtrusionPlaces)
	return fmt.Sprintf(format, v)
}
