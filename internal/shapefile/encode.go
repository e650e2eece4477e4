package shapefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonas-p/go-shp"

	"github.com/terrabrasil/carkit/internal/geo"
)

// Files holds the encoded parts of one shapefile.
type Files struct {
	SHP []byte
	SHX []byte
	DBF []byte
}

// fallbackField is written when a layer has no attribute columns, since a
// DBF without fields is rejected by most readers.
var fallbackField = shp.NumberField("ID", 10)

// Encode writes the layer as a shapefile and returns its parts. The
// temporary directory used by the writer is removed on every path.
func Encode(layer *Layer) (files Files, err error) {
	shapeType, err := shapeTypeFor(layer.Kind)
	if err != nil {
		return Files{}, err
	}

	dir, err := os.MkdirTemp("", "carproc-*")
	if err != nil {
		return Files{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	base := filepath.Join(dir, "layer")
	if err := write(base+".shp", shapeType, layer); err != nil {
		return Files{}, err
	}

	if files.SHP, err = os.ReadFile(base + ".shp"); err != nil {
		return Files{}, err
	}
	if files.SHX, err = os.ReadFile(base + ".shx"); err != nil {
		return Files{}, err
	}
	if files.DBF, err = readTable(base); err != nil {
		return Files{}, err
	}
	return files, nil
}

// readTable returns the attribute table written next to base. go-shp
// v0.1.1 names it base+"dbf", without the dot; later releases add it.
func readTable(base string) ([]byte, error) {
	data, err := os.ReadFile(base + "dbf")
	if errors.Is(err, fs.ErrNotExist) {
		return os.ReadFile(base + ".dbf")
	}
	return data, err
}

func write(path string, shapeType shp.ShapeType, layer *Layer) (err error) {
	w, err := shp.Create(path, shapeType)
	if err != nil {
		return fmt.Errorf("create shapefile: %w", err)
	}
	defer w.Close()

	fields := layer.Fields
	synthetic := len(fields) == 0
	if synthetic {
		fields = []shp.Field{fallbackField}
	}
	if err := w.SetFields(fields); err != nil {
		return fmt.Errorf("set fields: %w", err)
	}

	for i, f := range layer.Features {
		row := int(w.Write(toShape(f.Geometry)))
		if synthetic {
			if err := w.WriteAttribute(row, 0, i+1); err != nil {
				return fmt.Errorf("write attribute: %w", err)
			}
			continue
		}
		for j := range fields {
			var v string
			if j < len(f.Attributes) {
				v = f.Attributes[j]
			}
			if err := w.WriteAttribute(row, j, v); err != nil {
				return fmt.Errorf("write attribute %s: %w", fields[j].String(), err)
			}
		}
	}
	return nil
}

func shapeTypeFor(kind geo.Kind) (shp.ShapeType, error) {
	switch kind {
	case geo.KindPoint:
		return shp.POINT, nil
	case geo.KindMultiPoint:
		return shp.MULTIPOINT, nil
	case geo.KindLine:
		return shp.POLYLINE, nil
	case geo.KindPolygon:
		return shp.POLYGON, nil
	default:
		return shp.NULL, &UnsupportedShapeError{ShapeType: kind.String()}
	}
}

func toShape(g geo.Geometry) shp.Shape {
	switch g.Kind {
	case geo.KindPoint:
		p := g.Parts[0][0]
		return &shp.Point{X: p.X, Y: p.Y}
	case geo.KindMultiPoint:
		var pts []shp.Point
		for _, part := range g.Parts {
			pts = append(pts, toPoints(part)...)
		}
		return &shp.MultiPoint{
			Box:       shp.BBoxFromPoints(pts),
			NumPoints: int32(len(pts)),
			Points:    pts,
		}
	case geo.KindLine:
		return shp.NewPolyLine(toParts(g.Parts))
	case geo.KindPolygon:
		poly := shp.Polygon(*shp.NewPolyLine(toParts(g.Parts)))
		return &poly
	default:
		return &shp.Null{}
	}
}

func toParts(parts [][]geo.Point) [][]shp.Point {
	out := make([][]shp.Point, len(parts))
	for i, part := range parts {
		out[i] = toPoints(part)
	}
	return out
}

func toPoints(part []geo.Point) []shp.Point {
	pts := make([]shp.Point, len(part))
	for i, p := range part {
		pts[i] = shp.Point{X: p.X, Y: p.Y}
	}
	return pts
}
