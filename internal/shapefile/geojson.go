package shapefile

import (
	"strconv"

	geojson "github.com/paulmach/go.geojson"

	"github.com/terrabrasil/carkit/internal/geo"
)

// ToGeoJSON renders the layer as a FeatureCollection. Numeric DBF columns
// become JSON numbers, everything else strings decoded with cs.
func ToGeoJSON(layer *Layer, cs Charset) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	names := layer.FieldNames()

	for _, f := range layer.Features {
		feature := toFeature(f.Geometry)
		if feature == nil {
			continue
		}
		for i, name := range names {
			if i >= len(f.Attributes) {
				break
			}
			feature.SetProperty(name, propertyValue(layer.Fields[i].Fieldtype, f.Attributes[i], cs))
		}
		fc.AddFeature(feature)
	}

	return fc.MarshalJSON()
}

func propertyValue(fieldType byte, raw string, cs Charset) interface{} {
	switch fieldType {
	case 'N', 'F':
		if raw == "" {
			return nil
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case 'L':
		switch raw {
		case "T", "t", "Y", "y":
			return true
		case "F", "f", "N", "n":
			return false
		}
		return nil
	}
	return cs.Decode(raw)
}

func toFeature(g geo.Geometry) *geojson.Feature {
	switch g.Kind {
	case geo.KindPoint:
		p := g.Parts[0][0]
		return geojson.NewPointFeature([]float64{p.X, p.Y})
	case geo.KindMultiPoint:
		var pts [][]float64
		for _, part := range g.Parts {
			pts = append(pts, coords(part)...)
		}
		return geojson.NewMultiPointFeature(pts...)
	case geo.KindLine:
		if len(g.Parts) == 1 {
			return geojson.NewLineStringFeature(coords(g.Parts[0]))
		}
		lines := make([][][]float64, len(g.Parts))
		for i, part := range g.Parts {
			lines[i] = coords(part)
		}
		return geojson.NewMultiLineStringFeature(lines...)
	case geo.KindPolygon:
		polys := polygons(g.Parts)
		if len(polys) == 1 {
			return geojson.NewPolygonFeature(polys[0])
		}
		return geojson.NewMultiPolygonFeature(polys...)
	default:
		return nil
	}
}

// polygons groups shapefile rings: a clockwise ring opens a polygon and
// the counter-clockwise rings after it are its holes. Rings are reversed
// to the GeoJSON winding (exterior counter-clockwise).
func polygons(rings [][]geo.Point) [][][][]float64 {
	var out [][][][]float64
	for _, ring := range rings {
		c := reversed(coords(ring))
		if geo.SignedArea(ring) <= 0 || len(out) == 0 {
			out = append(out, [][][]float64{c})
			continue
		}
		last := len(out) - 1
		out[last] = append(out[last], c)
	}
	return out
}

func coords(part []geo.Point) [][]float64 {
	out := make([][]float64, len(part))
	for i, p := range part {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}

func reversed(c [][]float64) [][]float64 {
	out := make([][]float64, len(c))
	for i := range c {
		out[len(c)-1-i] = c[i]
	}
	return out
}
