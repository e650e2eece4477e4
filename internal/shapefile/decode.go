// Package shapefile converts ESRI shapefiles between raw archive bytes and
// in-memory layers.
//
// Decoding reads straight from memory. Encoding goes through
// github.com/jonas-p/go-shp, which only writes to files, so each Encode call
// works in its own temporary directory and removes it before returning.
package shapefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/jonas-p/go-shp"

	"github.com/terrabrasil/carkit/internal/geo"
)

// Feature is one shapefile record.
type Feature struct {
	Geometry   geo.Geometry
	Attributes []string // raw DBF values, one per field, trimmed
}

// Layer is a decoded shapefile.
type Layer struct {
	Kind     geo.Kind
	Fields   []shp.Field
	Features []Feature
	Nulls    int // records dropped for having no geometry
	Deleted  int // records whose DBF row carries the deletion flag
}

// FieldNames returns the DBF column names.
func (l *Layer) FieldNames() []string {
	names := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		names[i] = f.String()
	}
	return names
}

// FieldIndex returns the position of a column, case-insensitively, or -1.
func (l *Layer) FieldIndex(name string) int {
	for i, f := range l.Fields {
		if strings.EqualFold(f.String(), name) {
			return i
		}
	}
	return -1
}

// Geometries returns the feature geometries in record order.
func (l *Layer) Geometries() []geo.Geometry {
	out := make([]geo.Geometry, len(l.Features))
	for i, f := range l.Features {
		out[i] = f.Geometry
	}
	return out
}

// SameSchema reports whether two layers can be merged into one file.
func (l *Layer) SameSchema(other *Layer) bool {
	if l.Kind != other.Kind || len(l.Fields) != len(other.Fields) {
		return false
	}
	for i := range l.Fields {
		a, b := l.Fields[i], other.Fields[i]
		if !strings.EqualFold(a.String(), b.String()) || a.Fieldtype != b.Fieldtype {
			return false
		}
	}
	return true
}

// Decode reads a layer from .shp and .dbf bytes. Records with a null or
// empty geometry are dropped and counted in Nulls; records whose DBF row
// is flagged deleted are dropped and counted in Deleted.
func Decode(shpData, dbfData []byte) (layer *Layer, err error) {
	if err := checkHeaders(shpData, dbfData); err != nil {
		return nil, err
	}
	if err := checkRecords(shpData); err != nil {
		return nil, err
	}
	rows := newRowIndex(dbfData)

	// go-shp panics on some truncated records
	defer func() {
		if r := recover(); r != nil {
			layer, err = nil, &DecodeError{Err: fmt.Errorf("malformed shapefile: %v", r)}
		}
	}()

	sr := shp.SequentialReaderFromExt(
		io.NopCloser(bytes.NewReader(shpData)),
		io.NopCloser(bytes.NewReader(dbfData)),
	)
	defer sr.Close()

	layer = &Layer{}
	record := 0
	for sr.Next() {
		record++
		if rows.deleted(record - 1) {
			layer.Deleted++
			continue
		}
		_, shape := sr.Shape()

		g, err := toGeometry(shape)
		if err != nil {
			return nil, &DecodeError{Record: record, Err: err}
		}
		if g.Empty() {
			layer.Nulls++
			continue
		}
		if !g.Finite() {
			return nil, &DecodeError{Record: record, Err: fmt.Errorf("non-finite coordinate")}
		}
		if layer.Kind == geo.KindNull {
			layer.Kind = g.Kind
		} else if layer.Kind != g.Kind {
			return nil, &DecodeError{Record: record, Err: &MixedGeometryError{Want: layer.Kind.String(), Got: g.Kind.String()}}
		}

		fields := sr.Fields()
		attrs := make([]string, len(fields))
		for i := range fields {
			attrs[i] = strings.TrimSpace(strings.Trim(sr.Attribute(i), "\x00"))
		}
		layer.Features = append(layer.Features, Feature{Geometry: g, Attributes: attrs})
	}
	if err := sr.Err(); err != nil {
		return nil, &DecodeError{Err: err}
	}

	layer.Fields = sr.Fields()
	return layer, nil
}

// shpFileCode opens every .shp and .shx header (big-endian).
const shpFileCode = 9994

func checkHeaders(shpData, dbfData []byte) error {
	if len(shpData) < 100 || binary.BigEndian.Uint32(shpData[0:4]) != shpFileCode {
		return &DecodeError{Err: fmt.Errorf("not a .shp file")}
	}
	if len(dbfData) < 32 {
		return &DecodeError{Err: fmt.Errorf("truncated .dbf header")}
	}
	return nil
}

// checkRecords walks the record headers and rejects any record whose part
// or point counts need more bytes than the record holds. go-shp sizes its
// slices from those counts before reading, so a forged count would
// otherwise allocate gigabytes.
func checkRecords(data []byte) error {
	record := 0
	for off := int64(100); off+8 <= int64(len(data)); {
		record++
		content := int64(binary.BigEndian.Uint32(data[off+4:off+8])) * 2
		start := off + 8
		if content < 4 || start+content > int64(len(data)) {
			return &DecodeError{Record: record, Err: fmt.Errorf("record length %d out of range", content)}
		}
		if err := checkCounts(data[start : start+content]); err != nil {
			return &DecodeError{Record: record, Err: err}
		}
		off = start + content
	}
	return nil
}

// checkCounts validates one record's content (shape type included).
func checkCounts(rec []byte) error {
	size := int64(len(rec))
	count := func(at int64) (int64, error) {
		if at+4 > size {
			return 0, fmt.Errorf("record too short for shape type")
		}
		n := int64(int32(binary.LittleEndian.Uint32(rec[at : at+4])))
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		return n, nil
	}

	var need int64
	switch shp.ShapeType(binary.LittleEndian.Uint32(rec[0:4])) {
	case shp.POLYLINE, shp.POLYGON, shp.POLYLINEZ, shp.POLYGONZ, shp.POLYLINEM, shp.POLYGONM:
		parts, err := count(36)
		if err != nil {
			return err
		}
		points, err := count(40)
		if err != nil {
			return err
		}
		need = 44 + 4*parts + 16*points
	case shp.MULTIPATCH:
		parts, err := count(36)
		if err != nil {
			return err
		}
		points, err := count(40)
		if err != nil {
			return err
		}
		need = 44 + 8*parts + 16*points
	case shp.MULTIPOINT, shp.MULTIPOINTZ, shp.MULTIPOINTM:
		points, err := count(36)
		if err != nil {
			return err
		}
		need = 40 + 16*points
	default:
		return nil
	}
	if need > size {
		return fmt.Errorf("counts need %d bytes, record holds %d", need, size)
	}
	return nil
}

// rowIndex locates DBF rows the way go-shp reads them: right after the
// field terminator, one fixed-length row per shape record.
type rowIndex struct {
	data   []byte
	start  int
	length int
}

func newRowIndex(dbf []byte) rowIndex {
	headerLen := int(int16(binary.LittleEndian.Uint16(dbf[8:10])))
	recordLen := int(int16(binary.LittleEndian.Uint16(dbf[10:12])))
	fields := 0
	if headerLen > 33 {
		fields = (headerLen - 33) / 32
	}
	return rowIndex{data: dbf, start: 32 + 32*fields + 1, length: recordLen}
}

// deleted reports whether row i carries the '*' deletion flag.
func (r rowIndex) deleted(i int) bool {
	if r.length <= 0 {
		return false
	}
	off := r.start + i*r.length
	return off >= 0 && off < len(r.data) && r.data[off] == '*'
}

func toGeometry(shape shp.Shape) (geo.Geometry, error) {
	switch s := shape.(type) {
	case nil, *shp.Null:
		return geo.Geometry{}, nil
	case *shp.Point:
		return geo.NewPoint(s.X, s.Y), nil
	case *shp.PointZ:
		return geo.NewPoint(s.X, s.Y), nil
	case *shp.PointM:
		return geo.NewPoint(s.X, s.Y), nil
	case *shp.MultiPoint:
		return multiPoint(s.Points), nil
	case *shp.MultiPointZ:
		return multiPoint(s.Points), nil
	case *shp.MultiPointM:
		return multiPoint(s.Points), nil
	case *shp.PolyLine:
		return parts(geo.KindLine, s.Parts, s.Points)
	case *shp.PolyLineZ:
		return parts(geo.KindLine, s.Parts, s.Points)
	case *shp.PolyLineM:
		return parts(geo.KindLine, s.Parts, s.Points)
	case *shp.Polygon:
		return parts(geo.KindPolygon, s.Parts, s.Points)
	case *shp.PolygonZ:
		return parts(geo.KindPolygon, s.Parts, s.Points)
	case *shp.PolygonM:
		return parts(geo.KindPolygon, s.Parts, s.Points)
	default:
		return geo.Geometry{}, &UnsupportedShapeError{ShapeType: fmt.Sprintf("%T", shape)}
	}
}

func multiPoint(points []shp.Point) geo.Geometry {
	pts := make([]geo.Point, len(points))
	for i, p := range points {
		pts[i] = geo.Point{X: p.X, Y: p.Y}
	}
	return geo.Geometry{Kind: geo.KindMultiPoint, Parts: [][]geo.Point{pts}}
}

func parts(kind geo.Kind, starts []int32, points []shp.Point) (geo.Geometry, error) {
	g := geo.Geometry{Kind: kind}
	for i, start := range starts {
		end := int32(len(points))
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if start < 0 || start > end || int(end) > len(points) {
			return geo.Geometry{}, fmt.Errorf("part %d index out of range", i)
		}
		part := make([]geo.Point, 0, end-start)
		for _, p := range points[start:end] {
			part = append(part, geo.Point{X: p.X, Y: p.Y})
		}
		if len(part) > 0 {
			g.Parts = append(g.Parts, part)
		}
	}
	return g, nil
}
