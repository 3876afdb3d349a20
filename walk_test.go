package kmlstream

import "testing"

func TestBounds(t *testing.T) {
	pms := []Placemark{
		{Geoms: []Geometry{Point{X: -5, Y: 2}}},
		{Geoms: []Geometry{Point{X: 3, Y: -1}}},
	}
	sw, ne, ok := Bounds(pms)
	if !ok {
		t.Fatal("expected hasCoords = true")
	}
	if sw.X != -5 || sw.Y != -1 {
		t.Errorf("sw = %+v, want {-5 -1}", sw)
	}
	if ne.X != 3 || ne.Y != 2 {
		t.Errorf("ne = %+v, want {3 2}", ne)
	}
}

func TestBoundsEmpty(t *testing.T) {
	_, _, ok := Bounds(nil)
	if ok {
		t.Error("expected hasCoords = false for no placemarks")
	}
}

func TestCollectPointsRecursesNestedGeometry(t *testing.T) {
	outer := Line{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	inner := Line{Points: []Point{{X: 2, Y: 2}}}
	poly := &Polygon{OuterBoundary: &outer, InnerBoundaries: []Line{inner}}
	mg := &MultiGeometry{Geoms: []Geometry{Point{X: 9, Y: 9}, poly}}

	pts := CollectPoints(mg)
	if len(pts) != 4 {
		t.Fatalf("len(pts) = %d, want 4", len(pts))
	}
}

func TestFilter(t *testing.T) {
	pms := []Placemark{
		{Attrs: map[string]string{"kind": "a"}},
		{Attrs: map[string]string{"kind": "b"}},
	}
	out := Filter(pms, func(p Placemark) bool { return p.Attrs["kind"] == "b" })
	if len(out) != 1 || out[0].Attrs["kind"] != "b" {
		t.Errorf("Filter = %+v, want one placemark with kind=b", out)
	}
}

func TestFindByAttr(t *testing.T) {
	pms := []Placemark{
		{Attrs: map[string]string{"name": "A"}},
		{Attrs: map[string]string{"name": "B"}},
	}
	pm, ok := FindByAttr(pms, "name", "B")
	if !ok {
		t.Fatal("expected to find placemark B")
	}
	if pm.Attrs["name"] != "B" {
		t.Errorf("found %+v, want name=B", pm)
	}
	if _, ok := FindByAttr(pms, "name", "missing"); ok {
		t.Error("expected no match for missing")
	}
}
