package kmlstream

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a single geographic location. Z is carried as a pointer so a
// two-value "lon,lat" tuple is distinguishable from an explicit zero
// altitude.
type Point struct {
	X float64
	Y float64
	Z *float64
}

func (Point) geometryType() string { return "Point" }

// ParsePoint parses a single KML coordinate tuple ("lon,lat[,alt]") into
// a Point. Surrounding whitespace is trimmed; each of the 2 or 3
// comma-separated fields is parsed as a float. Any other field count,
// or a field that does not parse as a finite number, is reported via
// ErrInvalidPoint.
func ParsePoint(s string) (Point, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return Point{}, fmt.Errorf("%w: expected 2 or 3 fields, got %d in %q", ErrInvalidPoint, len(parts), s)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || !isFiniteCoord(x) {
		return Point{}, fmt.Errorf("%w: longitude %q not a finite number", ErrInvalidPoint, parts[0])
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || !isFiniteCoord(y) {
		return Point{}, fmt.Errorf("%w: latitude %q not a finite number", ErrInvalidPoint, parts[1])
	}

	p := Point{X: x, Y: y}
	if len(parts) == 3 {
		z, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || !isFiniteCoord(z) {
			return Point{}, fmt.Errorf("%w: altitude %q not a finite number", ErrInvalidPoint, parts[2])
		}
		p.Z = &z
	}
	return p, nil
}

// isFiniteCoord reports whether f is usable as a coordinate value.
// strconv.ParseFloat accepts "Inf", "-Inf", and "NaN" without error, but
// the spec this parses requires every field to parse as a finite real
// number, so those must be rejected explicitly.
func isFiniteCoord(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Line is an ordered sequence of points, used both for LineString and
// for the boundary rings of a Polygon.
type Line struct {
	Points []Point
}

func (Line) geometryType() string { return "Line" }

// ParseLine parses a whitespace-separated run of coordinate tuples (the
// text content of a coordinates element) into a Line. Runs of ASCII
// space, tab, carriage-return and newline characters are treated as
// separators; empty tokens
// produced by repeated separators are discarded. The first tuple that
// fails to parse aborts the whole call and the error is propagated
// (wrapping ErrInvalidLine), so a caller can drop the entire fragment
// rather than build a partial Line.
func ParseLine(s string) (Line, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	if len(fields) == 0 {
		return Line{}, nil
	}

	points := make([]Point, 0, len(fields))
	for _, f := range fields {
		p, err := ParsePoint(f)
		if err != nil {
			return Line{}, fmt.Errorf("%w: %v", ErrInvalidLine, err)
		}
		points = append(points, p)
	}
	return Line{Points: points}, nil
}
