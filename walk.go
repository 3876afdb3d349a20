package kmlstream

import "math"

// Bounds computes the bounding box (southwest and northeast corners)
// covering every coordinate across every geometry of every given
// placemark. hasCoords is false, and both corners are the zero Point,
// when placemarks carry no geometry at all.
//
// Adapted from the teacher library's whole-document Bounds walk: that
// version recurses a Document/Folder/Placemark tree; this one operates
// directly on the flat []Placemark a Stream call yields, since this
// package has no document tree to recurse.
func Bounds(placemarks []Placemark) (sw, ne Point, hasCoords bool) {
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pm := range placemarks {
		for _, g := range pm.Geoms {
			for _, p := range CollectPoints(g) {
				hasCoords = true
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}
			}
		}
	}

	if !hasCoords {
		return Point{}, Point{}, false
	}
	return Point{X: minX, Y: minY}, Point{X: maxX, Y: maxY}, true
}

// CollectPoints flattens every coordinate reachable from g, recursing
// through Polygon boundaries and MultiGeometry children. Mirrors the
// teacher's getGeometryCoordinates, generalized from the XML-struct
// geometry types to this package's tagged Geometry values.
func CollectPoints(g Geometry) []Point {
	switch geom := g.(type) {
	case Point:
		return []Point{geom}
	case Line:
		return geom.Points
	case *Polygon:
		var points []Point
		if geom.OuterBoundary != nil {
			points = append(points, geom.OuterBoundary.Points...)
		}
		for _, inner := range geom.InnerBoundaries {
			points = append(points, inner.Points...)
		}
		return points
	case *MultiGeometry:
		var points []Point
		for _, child := range geom.Geoms {
			points = append(points, CollectPoints(child)...)
		}
		return points
	default:
		return nil
	}
}

// Filter returns every placemark for which fn reports true, in the
// order they appear in placemarks.
func Filter(placemarks []Placemark, fn func(Placemark) bool) []Placemark {
	var out []Placemark
	for _, pm := range placemarks {
		if fn(pm) {
			out = append(out, pm)
		}
	}
	return out
}

// FindByAttr returns the first placemark whose attrs[key] == value, or
// false if none matches. Adapted from the teacher's FindByID, which
// looked up a fixed id attribute on the document tree; this package has
// no fixed id field, so lookup is generalized to any attribute key.
func FindByAttr(placemarks []Placemark, key, value string) (Placemark, bool) {
	for _, pm := range placemarks {
		if pm.Attrs[key] == value {
			return pm, true
		}
	}
	return Placemark{}, false
}
