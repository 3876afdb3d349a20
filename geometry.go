package kmlstream

import "fmt"

// Geometry is the closed sum type over the four shapes the assembler
// builds: Point, Line, Polygon, MultiGeometry. geometryType is
// unexported so no type outside this package can implement Geometry.
type Geometry interface {
	geometryType() string
}

// Polygon is an outer boundary with zero or more inner boundaries
// (holes). OuterBoundary is nil until the outerBoundaryIs element has
// closed.
type Polygon struct {
	OuterBoundary   *Line
	InnerBoundaries []Line
}

func (*Polygon) geometryType() string { return "Polygon" }

// MultiGeometry holds an ordered sequence of child geometries, which
// may themselves be MultiGeometry values.
type MultiGeometry struct {
	Geoms []Geometry
}

func (*MultiGeometry) geometryType() string { return "MultiGeometry" }

// boundaryKind distinguishes the two positions a Line can be folded
// into within a Polygon.
type boundaryKind int

const (
	outerBoundary boundaryKind = iota
	innerBoundary
)

// mergeGeometry folds a completed child geometry into its parent on the
// geometry stack. It is the concrete implementation of the folding
// rules: any child geometry is appended to a MultiGeometry, a Line
// sets or appends a Polygon boundary depending on kind, and any other
// pairing is a structural error.
func mergeGeometry(parent Geometry, child Geometry, kind boundaryKind) error {
	switch p := parent.(type) {
	case *MultiGeometry:
		p.Geoms = append(p.Geoms, child)
		return nil
	case *Polygon:
		line, ok := child.(Line)
		if !ok {
			return fmt.Errorf("%w: polygon boundary must be a Line, got %T", ErrStructuralFold, child)
		}
		switch kind {
		case outerBoundary:
			p.OuterBoundary = &line
		case innerBoundary:
			p.InnerBoundaries = append(p.InnerBoundaries, line)
		}
		return nil
	default:
		return fmt.Errorf("%w: cannot fold %T into %T", ErrStructuralFold, child, parent)
	}
}
