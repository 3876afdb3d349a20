package kmlstream

import (
	"errors"
	"testing"
)

func TestMergeGeometryIntoMultiGeometry(t *testing.T) {
	mg := &MultiGeometry{}
	if err := mergeGeometry(mg, Point{X: 1, Y: 2}, outerBoundary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mergeGeometry(mg, Line{Points: []Point{{X: 0, Y: 0}}}, outerBoundary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mg.Geoms) != 2 {
		t.Fatalf("len(Geoms) = %d, want 2", len(mg.Geoms))
	}
	if _, ok := mg.Geoms[0].(Point); !ok {
		t.Errorf("Geoms[0] = %T, want Point", mg.Geoms[0])
	}
}

func TestMergeGeometryIntoPolygon(t *testing.T) {
	p := &Polygon{}
	outer := Line{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}
	if err := mergeGeometry(p, outer, outerBoundary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner := Line{Points: []Point{{X: 0.2, Y: 0.2}}}
	if err := mergeGeometry(p, inner, innerBoundary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.OuterBoundary == nil || len(p.OuterBoundary.Points) != 2 {
		t.Fatalf("OuterBoundary = %+v, want 2 points", p.OuterBoundary)
	}
	if len(p.InnerBoundaries) != 1 {
		t.Fatalf("len(InnerBoundaries) = %d, want 1", len(p.InnerBoundaries))
	}
}

func TestMergeGeometryPolygonRejectsNonLine(t *testing.T) {
	p := &Polygon{}
	err := mergeGeometry(p, Point{X: 1, Y: 1}, outerBoundary)
	if !errors.Is(err, ErrStructuralFold) {
		t.Fatalf("expected ErrStructuralFold, got %v", err)
	}
}

func TestMergeGeometryRejectsUnknownParent(t *testing.T) {
	err := mergeGeometry(Point{X: 0, Y: 0}, Point{X: 1, Y: 1}, outerBoundary)
	if !errors.Is(err, ErrStructuralFold) {
		t.Fatalf("expected ErrStructuralFold, got %v", err)
	}
}
