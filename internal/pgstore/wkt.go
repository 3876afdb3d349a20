package pgstore

import (
	"fmt"
	"strings"

	"github.com/devonrourke/kmlstream"
)

// geometryWKT renders a single parsed Geometry as WKT, the format
// ST_GeomFromText expects. Mirrors the coordinate-joining shape of the
// KML importer this store replaces, generalized to the closed Geometry
// sum type instead of a fixed Point/LineString/Polygon struct.
func geometryWKT(g kmlstream.Geometry) (string, bool) {
	switch geom := g.(type) {
	case kmlstream.Point:
		return fmt.Sprintf("POINT(%s)", pointCoords(geom)), true
	case kmlstream.Line:
		if len(geom.Points) < 2 {
			return "", false
		}
		return fmt.Sprintf("LINESTRING(%s)", lineCoords(geom)), true
	case *kmlstream.Polygon:
		return polygonWKT(geom)
	case *kmlstream.MultiGeometry:
		return multiGeometryWKT(geom)
	default:
		return "", false
	}
}

func pointCoords(p kmlstream.Point) string {
	return fmt.Sprintf("%g %g", p.X, p.Y)
}

func lineCoords(l kmlstream.Line) string {
	parts := make([]string, len(l.Points))
	for i, p := range l.Points {
		parts[i] = pointCoords(p)
	}
	return strings.Join(parts, ", ")
}

func ringWKT(l kmlstream.Line) (string, bool) {
	if len(l.Points) < 3 {
		return "", false
	}
	pts := l.Points
	if pts[0] != pts[len(pts)-1] {
		pts = append(append([]kmlstream.Point(nil), pts...), pts[0])
	}
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = pointCoords(p)
	}
	return "(" + strings.Join(parts, ", ") + ")", true
}

func polygonWKT(poly *kmlstream.Polygon) (string, bool) {
	if poly.OuterBoundary == nil {
		return "", false
	}
	outer, ok := ringWKT(*poly.OuterBoundary)
	if !ok {
		return "", false
	}
	rings := []string{outer}
	for _, inner := range poly.InnerBoundaries {
		if ring, ok := ringWKT(inner); ok {
			rings = append(rings, ring)
		}
	}
	return fmt.Sprintf("POLYGON(%s)", strings.Join(rings, ", ")), true
}

// multiGeometryWKT renders a MultiGeometry as a WKT GEOMETRYCOLLECTION,
// dropping any child that itself fails to render (an empty Polygon with
// no outer boundary, say) rather than failing the whole placemark.
func multiGeometryWKT(mg *kmlstream.MultiGeometry) (string, bool) {
	var parts []string
	for _, child := range mg.Geoms {
		if w, ok := geometryWKT(child); ok {
			parts = append(parts, w)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return fmt.Sprintf("GEOMETRYCOLLECTION(%s)", strings.Join(parts, ", ")), true
}

// geometryKind names the geometry_type column value stored alongside
// each rendered WKT string in placemark_geometries.
func geometryKind(g kmlstream.Geometry) string {
	switch g.(type) {
	case kmlstream.Point:
		return "Point"
	case kmlstream.Line:
		return "LineString"
	case *kmlstream.Polygon:
		return "Polygon"
	case *kmlstream.MultiGeometry:
		return "MultiGeometry"
	default:
		return "Unknown"
	}
}
