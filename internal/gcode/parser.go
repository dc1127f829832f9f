package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MoveType represents the type of printer movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: travel without extrusion
	MoveFeed                    // G1 in XY without extrusion
	MoveExtrude                 // G1 in XY with positive extrusion
	MoveRetract                 // filament pulled back without XY movement
	MovePrime                   // filament pushed forward without XY movement
	MoveZ                       // Z-only change
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MoveExtrude:
		return "extrude"
	case MoveRetract:
		return "retract"
	case MovePrime:
		return "prime"
	case MoveZ:
		return "z"
	default:
		return "unknown"
	}
}

// GCodeMove represents a single parsed movement from G-code. E is the
// extruder delta of the move regardless of the extrusion mode in effect.
type GCodeMove struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	E        float64
	FeedRate float64
}

// Length returns the XY distance covered by the move.
func (m GCodeMove) Length() float64 {
	return math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
}

var coordRe = regexp.MustCompile(`([XYZEF])([-]?\d*\.?\d+)`)

// ParseGCode parses a G-code string into a slice of structured moves.
// It tracks absolute position state, the extrusion mode (M82/M83) and
// extruder resets (G92), and classifies each G0/G1 command.
func ParseGCode(code string) []GCodeMove {
	var moves []GCodeMove

	curX, curY, curZ, curE := 0.0, 0.0, 0.0, 0.0
	curFeed := 0.0
	relativeE := false

	for _, line := range strings.Split(code, "\n") {
		line = stripComments(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		fields := strings.Fields(upper)

		switch fields[0] {
		case "M82":
			relativeE = false
			continue
		case "M83":
			relativeE = true
			continue
		case "G92":
			for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
				if m[1] != "E" {
					continue
				}
				if val, err := strconv.ParseFloat(m[2], 64); err == nil {
					curE = val
				}
			}
			continue
		case "G0", "G00", "G1", "G01":
		default:
			continue
		}
		isRapid := fields[0] == "G0" || fields[0] == "G00"

		newX, newY, newZ, newFeed := curX, curY, curZ, curFeed
		var e float64
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Y":
				newY = val
			case "Z":
				newZ = val
			case "E":
				if relativeE {
					e = val
				} else {
					e = val - curE
					curE = val
				}
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, GCodeMove{
			Type:     classifyMove(isRapid, curX, curY, curZ, newX, newY, newZ, e),
			FromX:    curX,
			FromY:    curY,
			FromZ:    curZ,
			ToX:      newX,
			ToY:      newY,
			ToZ:      newZ,
			E:        e,
			FeedRate: newFeed,
		})

		curX, curY, curZ, curFeed = newX, newY, newZ, newFeed
	}

	return moves
}

// stripComments removes semicolon and parenthetical comments.
func stripComments(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "("); idx >= 0 {
		if end := strings.Index(line, ")"); end > idx {
			line = line[:idx] + line[end+1:]
		}
	}
	return strings.TrimSpace(line)
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, fromX, fromY, fromZ, toX, toY, toZ, e float64) MoveType {
	hasXY := fromX != toX || fromY != toY
	hasZ := math.Abs(toZ-fromZ) > 0.0001

	switch {
	case hasXY && e > 0 && !isRapid:
		return MoveExtrude
	case hasXY && isRapid:
		return MoveRapid
	case hasXY:
		return MoveFeed
	case e < 0:
		return MoveRetract
	case e > 0:
		return MovePrime
	case hasZ:
		return MoveZ
	case isRapid:
		return MoveRapid
	default:
		return MoveFeed
	}
}

// Summary aggregates a parsed program.
type Summary struct {
	Moves       int
	Extrusions  int
	Travels     int
	Retractions int

	ExtrudeLength float64 // mm of XY path while extruding
	TravelLength  float64 // mm of XY path without extrusion
	Filament      float64 // net mm of filament pushed

	MinX, MinY, MaxX, MaxY float64 // extents of extruding moves

	// Duration estimates the print time from the feed rates alone,
	// ignoring acceleration.
	Duration time.Duration
}

// Summarize computes totals over parsed moves.
func Summarize(moves []GCodeMove) Summary {
	s := Summary{
		Moves: len(moves),
		MinX:  math.Inf(1),
		MinY:  math.Inf(1),
		MaxX:  math.Inf(-1),
		MaxY:  math.Inf(-1),
	}

	var seconds float64
	for _, m := range moves {
		s.Filament += m.E
		length := m.Length()

		switch m.Type {
		case MoveExtrude:
			s.Extrusions++
			s.ExtrudeLength += length
			s.MinX = math.Min(s.MinX, math.Min(m.FromX, m.ToX))
			s.MinY = math.Min(s.MinY, math.Min(m.FromY, m.ToY))
			s.MaxX = math.Max(s.MaxX, math.Max(m.FromX, m.ToX))
			s.MaxY = math.Max(s.MaxY, math.Max(m.FromY, m.ToY))
		case MoveRapid, MoveFeed:
			s.Travels++
			s.TravelLength += length
		case MoveRetract:
			s.Retractions++
		}

		dist := math.Max(length, math.Max(math.Abs(m.ToZ-m.FromZ), math.Abs(m.E)))
		if m.FeedRate > 0 {
			seconds += dist / (m.FeedRate / 60)
		}
	}

	if s.Extrusions == 0 {
		s.MinX, s.MinY, s.MaxX, s.MaxY = 0, 0, 0, 0
	}
	s.Duration = time.Duration(seconds * float64(time.Second))
	return s
}
