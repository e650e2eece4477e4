package geo

import "math"

// Point is a planar coordinate pair: X is easting or longitude, Y is
// northing or latitude.
type Point struct {
	X, Y float64
}

// Kind is the geometry family of a feature.
type Kind int

const (
	KindNull Kind = iota
	KindPoint
	KindMultiPoint
	KindLine
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindMultiPoint:
		return "multipoint"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	default:
		return "null"
	}
}

// IsPoint reports whether k is a point or multipoint kind.
func (k Kind) IsPoint() bool {
	return k == KindPoint || k == KindMultiPoint
}

// Geometry is a feature geometry in shapefile layout.
//
// Points carry one part with one point, multipoints one part with every
// point, lines one part per path and polygons one part per ring.
type Geometry struct {
	Kind  Kind
	Parts [][]Point
}

// NewPoint returns a point geometry.
func NewPoint(x, y float64) Geometry {
	return Geometry{Kind: KindPoint, Parts: [][]Point{{{X: x, Y: y}}}}
}

// NumPoints returns the vertex count across all parts.
func (g Geometry) NumPoints() int {
	n := 0
	for _, part := range g.Parts {
		n += len(part)
	}
	return n
}

// Empty reports whether the geometry is null or has no vertices.
func (g Geometry) Empty() bool {
	return g.Kind == KindNull || g.NumPoints() == 0
}

// Bounds returns the envelope of the geometry. Empty geometries return the
// zero Bounds.
func (g Geometry) Bounds() Bounds {
	var b Bounds
	first := true
	for _, part := range g.Parts {
		for _, p := range part {
			if first {
				b = Bounds{MinLon: p.X, MaxLon: p.X, MinLat: p.Y, MaxLat: p.Y}
				first = false
				continue
			}
			b = b.Extend(p.X, p.Y)
		}
	}
	return b
}

// Explode splits a multipoint into single points. Other kinds are returned
// unchanged as the only element.
func (g Geometry) Explode() []Geometry {
	if g.Kind != KindMultiPoint {
		return []Geometry{g}
	}
	var out []Geometry
	for _, part := range g.Parts {
		for _, p := range part {
			out = append(out, NewPoint(p.X, p.Y))
		}
	}
	return out
}

// Finite reports whether every coordinate is a finite number.
func (g Geometry) Finite() bool {
	for _, part := range g.Parts {
		for _, p := range part {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				return false
			}
		}
	}
	return true
}

// SignedArea returns the shoelace area of a ring. Clockwise rings, the
// shapefile convention for outer rings, are negative.
func SignedArea(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}
