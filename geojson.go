package kmlstream

import "encoding/json"

// GeoJSONGeometry is a GeoJSON geometry object, adapted from the
// teacher library's marshal-oriented geometry types onto the Geometry
// values this assembler produces.
type GeoJSONGeometry struct {
	Type        string            `json:"type"`
	Coordinates any               `json:"coordinates,omitempty"`
	Geometries  []GeoJSONGeometry `json:"geometries,omitempty"`
}

// ToGeoJSON converts a Geometry value to a GeoJSON geometry. Returns
// the zero value and false if g is nil or an unrecognized type (the
// latter cannot happen for geometries produced by this package's
// assembler, since Geometry is a closed sum type).
func ToGeoJSON(g Geometry) (GeoJSONGeometry, bool) {
	switch v := g.(type) {
	case Point:
		return GeoJSONGeometry{Type: "Point", Coordinates: pointToGeoJSON(v)}, true
	case Line:
		return GeoJSONGeometry{Type: "LineString", Coordinates: pointsToGeoJSON(v.Points)}, true
	case *Polygon:
		return polygonToGeoJSON(v), true
	case *MultiGeometry:
		return multiGeometryToGeoJSON(v), true
	default:
		return GeoJSONGeometry{}, false
	}
}

func polygonToGeoJSON(p *Polygon) GeoJSONGeometry {
	rings := make([][][]float64, 0, 1+len(p.InnerBoundaries))
	if p.OuterBoundary != nil {
		rings = append(rings, pointsToGeoJSON(p.OuterBoundary.Points))
	}
	for _, inner := range p.InnerBoundaries {
		rings = append(rings, pointsToGeoJSON(inner.Points))
	}
	return GeoJSONGeometry{Type: "Polygon", Coordinates: rings}
}

func multiGeometryToGeoJSON(mg *MultiGeometry) GeoJSONGeometry {
	geometries := make([]GeoJSONGeometry, 0, len(mg.Geoms))
	for _, child := range mg.Geoms {
		if g, ok := ToGeoJSON(child); ok {
			geometries = append(geometries, g)
		}
	}
	return GeoJSONGeometry{Type: "GeometryCollection", Geometries: geometries}
}

func pointToGeoJSON(p Point) []float64 {
	if p.Z != nil {
		return []float64{p.X, p.Y, *p.Z}
	}
	return []float64{p.X, p.Y}
}

func pointsToGeoJSON(points []Point) [][]float64 {
	result := make([][]float64, len(points))
	for i, p := range points {
		result[i] = pointToGeoJSON(p)
	}
	return result
}

// GeoJSONFeature is a GeoJSON Feature object built from a Placemark:
// attrs become properties, and geoms becomes a single geometry
// (len == 1), a GeometryCollection (len > 1), or a null geometry
// (len == 0).
type GeoJSONFeature struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
	Geometry   *GeoJSONGeometry  `json:"geometry"`
}

// ToGeoJSONFeature converts a Placemark to a GeoJSON Feature. The
// streaming HTTP gateway does not use this shape; it writes attrs and
// per-geometry ToGeoJSON values instead (see internal/httpapi).
func (p Placemark) ToGeoJSONFeature() GeoJSONFeature {
	f := GeoJSONFeature{Type: "Feature", Properties: p.Attrs}

	switch len(p.Geoms) {
	case 0:
		return f
	case 1:
		if g, ok := ToGeoJSON(p.Geoms[0]); ok {
			f.Geometry = &g
		}
		return f
	default:
		collection := multiGeomSliceToGeoJSON(p.Geoms)
		f.Geometry = &collection
		return f
	}
}

func multiGeomSliceToGeoJSON(geoms []Geometry) GeoJSONGeometry {
	geometries := make([]GeoJSONGeometry, 0, len(geoms))
	for _, g := range geoms {
		if conv, ok := ToGeoJSON(g); ok {
			geometries = append(geometries, conv)
		}
	}
	return GeoJSONGeometry{Type: "GeometryCollection", Geometries: geometries}
}

// MarshalJSON implements json.Marshaler, matching the teacher's custom
// encoding that switches field emission based on Type.
func (g GeoJSONGeometry) MarshalJSON() ([]byte, error) {
	if g.Type == "GeometryCollection" {
		return json.Marshal(struct {
			Type       string            `json:"type"`
			Geometries []GeoJSONGeometry `json:"geometries"`
		}{Type: g.Type, Geometries: g.Geometries})
	}
	return json.Marshal(struct {
		Type        string `json:"type"`
		Coordinates any    `json:"coordinates"`
	}{Type: g.Type, Coordinates: g.Coordinates})
}

// String returns the GeoJSON representation as a JSON string, or "" on
// a marshal failure (which cannot happen for values built by
// ToGeoJSON, since their Coordinates are always plain float/slice
// values).
func (g GeoJSONGeometry) String() string {
	data, err := json.Marshal(g)
	if err != nil {
		return ""
	}
	return string(data)
}
