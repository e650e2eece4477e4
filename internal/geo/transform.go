package geo

import "math"

// Transformer converts coordinates from a source CRS to a geographic target.
type Transformer struct {
	from, to CRS
	identity bool
}

// NewTransformer prepares a conversion. The target must be geographic.
func NewTransformer(from, to CRS) (*Transformer, error) {
	if !to.Geographic() {
		return nil, &UnsupportedCRSError{EPSG: to.EPSG, Name: to.Name, Reason: "target must be geographic"}
	}
	if from.Projection != nil {
		if err := from.Projection.Validate(from.Datum.Ellipsoid); err != nil {
			return nil, &UnsupportedCRSError{EPSG: from.EPSG, Name: from.Name, Reason: err.Error()}
		}
	}
	t := &Transformer{from: from, to: to}
	t.identity = from.Geographic() && from.Datum.Shift == to.Datum.Shift
	return t, nil
}

// Identity reports whether coordinates pass through unchanged.
func (t *Transformer) Identity() bool {
	return t.identity
}

// Apply converts one coordinate pair to target longitude/latitude. The
// result is NaN when the projection rejects the point.
func (t *Transformer) Apply(x, y float64) (lon, lat float64) {
	if t.identity {
		return x, y
	}

	lon, lat = x, y
	if t.from.Projection != nil {
		lon, lat = t.from.Projection.Inverse(x, y, t.from.Datum.Ellipsoid)
	}
	if t.from.Datum.shifted() || t.to.Datum.shifted() {
		lon, lat = shiftDatum(lon, lat, t.from.Datum, t.to.Datum)
	}
	return lon, lat
}

// Geometry converts every vertex of g. Coordinates outside the geographic
// domain fail with *CoordinateRangeError, which usually means the source
// CRS does not describe the data.
func (t *Transformer) Geometry(g Geometry) (Geometry, error) {
	out := Geometry{Kind: g.Kind, Parts: make([][]Point, len(g.Parts))}
	for i, part := range g.Parts {
		pts := make([]Point, len(part))
		for j, p := range part {
			lon, lat := t.Apply(p.X, p.Y)
			if !validLonLat(lon, lat) {
				return Geometry{}, &CoordinateRangeError{X: p.X, Y: p.Y}
			}
			pts[j] = Point{X: lon, Y: lat}
		}
		out.Parts[i] = pts
	}
	return out, nil
}

func validLonLat(lon, lat float64) bool {
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}
