package geo

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// rtreego rejects zero-length sides, so point envelopes are padded.
const rectEpsilon = 1e-9

type indexedGeometry struct {
	pos    int
	bounds Bounds
}

// Bounds method for rtreego.Spatial interface.
func (e indexedGeometry) Bounds() rtreego.Rect {
	return toRect(e.bounds)
}

func toRect(b Bounds) rtreego.Rect {
	point := rtreego.Point{b.MinLon, b.MinLat}
	lengths := []float64{
		b.MaxLon - b.MinLon + rectEpsilon,
		b.MaxLat - b.MinLat + rectEpsilon,
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// FeatureIndex is an R-tree over feature envelopes.
type FeatureIndex struct {
	rtree *rtreego.Rtree
	size  int
}

// NewFeatureIndex indexes the envelopes of geoms. Empty geometries are left
// out and never returned by queries.
func NewFeatureIndex(geoms []Geometry) *FeatureIndex {
	// 2D, min=25 children, max=50 children
	idx := &FeatureIndex{rtree: rtreego.NewTree(2, 25, 50)}
	for i, g := range geoms {
		if g.Empty() {
			continue
		}
		idx.rtree.Insert(indexedGeometry{pos: i, bounds: g.Bounds()})
		idx.size++
	}
	return idx
}

// Size returns the number of indexed envelopes.
func (idx *FeatureIndex) Size() int {
	return idx.size
}

// Query returns the positions of geometries whose envelope intersects b,
// in ascending order.
func (idx *FeatureIndex) Query(b Bounds) []int {
	var out []int
	for _, s := range idx.rtree.SearchIntersect(toRect(b)) {
		e := s.(indexedGeometry)
		// the padded rectangles may touch envelopes that do not
		if b.Intersects(e.bounds) {
			out = append(out, e.pos)
		}
	}
	sort.Ints(out)
	return out
}

// FilterByBounds returns the positions of geoms whose envelope intersects b,
// preserving input order.
func FilterByBounds(geoms []Geometry, b Bounds) []int {
	return NewFeatureIndex(geoms).Query(b)
}
