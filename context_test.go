package kmlstream

import "testing"

func TestContextPushPopMatchSuffix(t *testing.T) {
	var c context
	c.push("Polygon", nil)
	c.push("outerBoundaryIs", nil)
	c.push("LinearRing", nil)
	c.push("coordinates", nil)

	if !c.matchSuffix([]string{"outerBoundaryIs", "LinearRing", "coordinates"}) {
		t.Error("expected suffix match")
	}
	if c.matchSuffix([]string{"innerBoundaryIs", "LinearRing", "coordinates"}) {
		t.Error("expected suffix mismatch")
	}
	if !c.matchSuffix([]string{"coordinates"}) {
		t.Error("expected single-element suffix match")
	}

	c.pop()
	if c.matchSuffix([]string{"outerBoundaryIs", "LinearRing", "coordinates"}) {
		t.Error("expected suffix mismatch after pop")
	}
}

func TestContextResetAndAttrs(t *testing.T) {
	var c context
	c.push("Placemark", map[string]string{"id": "a"})
	c.push("SimpleData", map[string]string{"name": "kind"})

	if got := c.currentAttrs()["name"]; got != "kind" {
		t.Errorf("currentAttrs()[name] = %q, want kind", got)
	}
	if got := c.parentAttrs()["id"]; got != "a" {
		t.Errorf("parentAttrs()[id] = %q, want a", got)
	}

	c.reset()
	if len(c.names) != 0 || c.currentAttrs() != nil {
		t.Error("expected empty context after reset")
	}
}

func TestContextMatchSuffixLongerThanPath(t *testing.T) {
	var c context
	c.push("Point", nil)
	if c.matchSuffix([]string{"MultiGeometry", "Point"}) {
		t.Error("pattern longer than path must not match")
	}
}
