package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLon float64 `json:"min_lon"` // Western edge
	MaxLon float64 `json:"max_lon"` // Eastern edge
	MinLat float64 `json:"min_lat"` // Southern edge
	MaxLat float64 `json:"max_lat"` // Northern edge
}

// Contains returns true if the point (lon, lat) is within the bounds.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// Extend returns the bounds grown to include (lon, lat).
func (b Bounds) Extend(lon, lat float64) Bounds {
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	return b
}

// Union returns the smallest bounds containing both.
func (b Bounds) Union(other Bounds) Bounds {
	return b.Extend(other.MinLon, other.MinLat).Extend(other.MaxLon, other.MaxLat)
}

// Valid reports whether min edges do not exceed max edges.
func (b Bounds) Valid() bool {
	return b.MinLon <= b.MaxLon && b.MinLat <= b.MaxLat
}

func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// ParseBounds parses "minLon,minLat,maxLon,maxLat".
func ParseBounds(s string) (Bounds, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return Bounds{}, fmt.Errorf("bounds %q: want minLon,minLat,maxLon,maxLat", s)
	}

	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bounds %q: %w", s, err)
		}
		v[i] = n
	}

	b := Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if !b.Valid() {
		return Bounds{}, fmt.Errorf("bounds %q: min exceeds max", s)
	}
	return b, nil
}
