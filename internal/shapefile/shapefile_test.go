package shapefile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrabrasil/carkit/internal/geo"
)

func square(x, y, size float64) [][]geo.Point {
	// clockwise exterior, shapefile convention
	return [][]geo.Point{{
		{X: x, Y: y}, {X: x, Y: y + size}, {X: x + size, Y: y + size}, {X: x + size, Y: y}, {X: x, Y: y},
	}}
}

func polygonLayer() *Layer {
	return &Layer{
		Kind:   geo.KindPolygon,
		Fields: []shp.Field{shp.StringField("NOME", 40), shp.FloatField("AREA_HA", 16, 4)},
		Features: []Feature{
			{Geometry: geo.Geometry{Kind: geo.KindPolygon, Parts: square(-47.9, -15.8, 0.01)}, Attributes: []string{"Gleba A", "12.5"}},
			{Geometry: geo.Geometry{Kind: geo.KindPolygon, Parts: square(-47.8, -15.7, 0.02)}, Attributes: []string{"Gleba B", "40.25"}},
		},
	}
}

func TestEncodeDecodePolygons(t *testing.T) {
	files, err := Encode(polygonLayer())
	require.NoError(t, err)
	require.NotEmpty(t, files.SHP)
	require.NotEmpty(t, files.SHX)
	require.NotEmpty(t, files.DBF)

	layer, err := Decode(files.SHP, files.DBF)
	require.NoError(t, err)

	assert.Equal(t, geo.KindPolygon, layer.Kind)
	assert.Equal(t, []string{"NOME", "AREA_HA"}, layer.FieldNames())
	require.Len(t, layer.Features, 2)
	assert.Equal(t, "Gleba B", layer.Features[1].Attributes[0])
	assert.Equal(t, 1, layer.FieldIndex("area_ha"))
	assert.Equal(t, -1, layer.FieldIndex("recibo"))

	ring := layer.Features[0].Geometry.Parts[0]
	require.Len(t, ring, 5)
	assert.InDelta(t, -47.9, ring[0].X, 1e-12)
	assert.InDelta(t, -15.79, ring[1].Y, 1e-12)
}

func TestEncodeDecodePoints(t *testing.T) {
	layer := &Layer{
		Kind:   geo.KindPoint,
		Fields: []shp.Field{shp.NumberField("ID", 10)},
	}
	for i := 0; i < 5; i++ {
		layer.Features = append(layer.Features, Feature{
			Geometry:   geo.NewPoint(-47.9+float64(i)*0.001, -15.8),
			Attributes: []string{string(rune('1' + i))},
		})
	}

	files, err := Encode(layer)
	require.NoError(t, err)

	got, err := Decode(files.SHP, files.DBF)
	require.NoError(t, err)
	assert.Equal(t, geo.KindPoint, got.Kind)
	require.Len(t, got.Features, 5)
	assert.Equal(t, "5", got.Features[4].Attributes[0])
}

func TestEncodeWithoutFieldsAddsID(t *testing.T) {
	layer := &Layer{
		Kind:     geo.KindMultiPoint,
		Features: []Feature{{Geometry: geo.Geometry{Kind: geo.KindMultiPoint, Parts: [][]geo.Point{{{X: 1, Y: 2}, {X: 3, Y: 4}}}}}},
	}

	files, err := Encode(layer)
	require.NoError(t, err)

	got, err := Decode(files.SHP, files.DBF)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID"}, got.FieldNames())
	assert.Equal(t, "1", got.Features[0].Attributes[0])
	assert.Equal(t, 2, got.Features[0].Geometry.NumPoints())
}

func TestEncodeRejectsNullLayer(t *testing.T) {
	_, err := Encode(&Layer{})
	var unsupported *UnsupportedShapeError
	assert.True(t, errors.As(err, &unsupported))
}

func TestEncodeLeavesNoTempDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	_, err := Encode(polygonLayer())
	require.NoError(t, err)

	_, err = Encode(&Layer{Kind: geo.KindPolygon, Features: []Feature{{Geometry: geo.Geometry{Kind: geo.KindPolygon, Parts: square(0, 0, 1)}}}})
	require.NoError(t, err)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadTableAcceptsBothNames(t *testing.T) {
	dir := t.TempDir()

	dotless := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(dotless+"dbf", []byte("dotless"), 0o600))
	data, err := readTable(dotless)
	require.NoError(t, err)
	assert.Equal(t, "dotless", string(data))

	dotted := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(dotted+".dbf", []byte("dotted"), 0o600))
	data, err = readTable(dotted)
	require.NoError(t, err)
	assert.Equal(t, "dotted", string(data))

	_, err = readTable(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeDropsEmptyShapes(t *testing.T) {
	layer := &Layer{
		Kind:   geo.KindPolygon,
		Fields: []shp.Field{shp.StringField("NOME", 10)},
		Features: []Feature{
			{Geometry: geo.Geometry{Kind: geo.KindPolygon, Parts: square(1, 1, 1)}, Attributes: []string{"a"}},
			{Geometry: geo.Geometry{Kind: geo.KindPolygon}, Attributes: []string{"b"}},
			{Geometry: geo.Geometry{Kind: geo.KindPolygon, Parts: square(2, 2, 1)}, Attributes: []string{"c"}},
		},
	}
	files, err := Encode(layer)
	require.NoError(t, err)

	got, err := Decode(files.SHP, files.DBF)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Nulls)
	require.Len(t, got.Features, 2)
	assert.Equal(t, "c", got.Features[1].Attributes[0])
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not a shapefile at all"), []byte("nor a dbf"))
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

// shpWithRecord wraps one record's content in a .shp header.
func shpWithRecord(content []byte) []byte {
	data := make([]byte, 108, 108+len(content))
	binary.BigEndian.PutUint32(data[0:4], shpFileCode)
	binary.BigEndian.PutUint32(data[24:28], uint32((108+len(content))/2))
	binary.LittleEndian.PutUint32(data[28:32], 1000)
	copy(data[32:36], content[0:4])
	binary.BigEndian.PutUint32(data[100:104], 1)
	binary.BigEndian.PutUint32(data[104:108], uint32(len(content)/2))
	return append(data, content...)
}

// emptyDBF is a table header with no fields.
func emptyDBF() []byte {
	dbf := make([]byte, 33)
	dbf[0] = 0x03
	binary.LittleEndian.PutUint16(dbf[8:10], 33)
	binary.LittleEndian.PutUint16(dbf[10:12], 1)
	dbf[32] = 0x0d
	return dbf
}

func TestDecodeRejectsForgedCounts(t *testing.T) {
	polygon := func(parts, points int32) []byte {
		content := make([]byte, 44)
		binary.LittleEndian.PutUint32(content[0:4], shp.POLYGON)
		binary.LittleEndian.PutUint32(content[36:40], uint32(parts))
		binary.LittleEndian.PutUint32(content[40:44], uint32(points))
		return content
	}
	multiPoint := make([]byte, 40)
	binary.LittleEndian.PutUint32(multiPoint[0:4], shp.MULTIPOINT)
	binary.LittleEndian.PutUint32(multiPoint[36:40], 0x10000000)

	tests := []struct {
		name string
		shp  []byte
	}{
		{"polygon with 2^31-1 points", shpWithRecord(polygon(1, 0x7fffffff))},
		{"polygon with 2^31-1 parts", shpWithRecord(polygon(0x7fffffff, 4))},
		{"negative point count", shpWithRecord(polygon(1, -1))},
		{"multipoint with 2^28 points", shpWithRecord(multiPoint)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.shp, emptyDBF())
			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr), "got %v", err)
			assert.Equal(t, 1, decodeErr.Record)
		})
	}
}

func TestDecodeRejectsForgedCountsAt152Bytes(t *testing.T) {
	content := make([]byte, 44)
	binary.LittleEndian.PutUint32(content[0:4], shp.POLYGON)
	binary.LittleEndian.PutUint32(content[36:40], 1)
	binary.LittleEndian.PutUint32(content[40:44], 0x7fffffff)
	data := shpWithRecord(content)
	require.Len(t, data, 152)

	layer, err := Decode(data, emptyDBF())
	assert.Nil(t, layer)
	assert.ErrorContains(t, err, "counts need")
}

func TestDecodeRejectsRecordPastEnd(t *testing.T) {
	files, err := Encode(polygonLayer())
	require.NoError(t, err)

	// claim far more bytes than the file holds
	data := append([]byte(nil), files.SHP...)
	words := binary.BigEndian.Uint32(data[104:108])
	binary.BigEndian.PutUint32(data[104:108], words*200)

	_, err = Decode(data, files.DBF)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestDecodeSkipsDeletedRows(t *testing.T) {
	files, err := Encode(polygonLayer())
	require.NoError(t, err)

	dbf := append([]byte(nil), files.DBF...)
	headerLen := int(binary.LittleEndian.Uint16(dbf[8:10]))
	recordLen := int(binary.LittleEndian.Uint16(dbf[10:12]))
	// rows follow the field descriptors and the 0x0d terminator
	second := 32 + 32*((headerLen-33)/32) + 1 + recordLen
	require.Equal(t, byte(' '), dbf[second])
	dbf[second] = '*'

	got, err := Decode(files.SHP, dbf)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Deleted)
	assert.Equal(t, 0, got.Nulls)
	require.Len(t, got.Features, 1)
	assert.Equal(t, "Gleba A", got.Features[0].Attributes[0])
}

func TestSameSchema(t *testing.T) {
	a := polygonLayer()
	b := polygonLayer()
	assert.True(t, a.SameSchema(b))

	b.Fields = b.Fields[:1]
	assert.False(t, a.SameSchema(b))

	c := polygonLayer()
	c.Kind = geo.KindPoint
	assert.False(t, a.SameSchema(c))
}

func TestCharset(t *testing.T) {
	latin1 := string([]byte{'I', 'm', 0xF3, 'v', 'e', 'l'})

	tests := []struct {
		name string
		cpg  string
		raw  string
		want string
	}{
		{"undeclared utf8", "", "Imóvel", "Imóvel"},
		{"undeclared latin1", "", latin1, "Imóvel"},
		{"declared latin1", "ISO-8859-1\n", latin1, "Imóvel"},
		{"declared 1252", "ANSI 1252", latin1, "Imóvel"},
		{"declared utf8", "UTF-8", "Imóvel", "Imóvel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CharsetFromCPG([]byte(tt.cpg)).Decode(tt.raw))
		})
	}
}

func TestToGeoJSON(t *testing.T) {
	layer := polygonLayer()
	// second feature gets a hole (counter-clockwise inner ring)
	hole := []geo.Point{{X: -47.795, Y: -15.695}, {X: -47.79, Y: -15.695}, {X: -47.79, Y: -15.69}, {X: -47.795, Y: -15.69}, {X: -47.795, Y: -15.695}}
	layer.Features[1].Geometry.Parts = append(layer.Features[1].Geometry.Parts, hole)

	data, err := ToGeoJSON(layer, Charset{})
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	assert.True(t, fc.Features[0].Geometry.IsPolygon())
	assert.Equal(t, "Gleba A", fc.Features[0].Properties["NOME"])
	assert.Equal(t, 12.5, fc.Features[0].Properties["AREA_HA"])

	require.True(t, fc.Features[1].Geometry.IsPolygon())
	assert.Len(t, fc.Features[1].Geometry.Polygon, 2)
}

func TestToGeoJSONPoints(t *testing.T) {
	layer := &Layer{
		Kind:   geo.KindPoint,
		Fields: []shp.Field{shp.StringField("TIPO", 10)},
		Features: []Feature{
			{Geometry: geo.NewPoint(-47.9, -15.8), Attributes: []string{"perene"}},
		},
	}

	data, err := ToGeoJSON(layer, Charset{})
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.True(t, fc.Features[0].Geometry.IsPoint())
	assert.Equal(t, []float64{-47.9, -15.8}, fc.Features[0].Geometry.Point)
}

func TestCharsetName(t *testing.T) {
	assert.Equal(t, "", CharsetFromCPG(nil).Name())
	assert.Equal(t, "UTF-8", CharsetFromCPG([]byte("utf-8\n")).Name())
	assert.Equal(t, "ISO-8859-1", CharsetFromCPG([]byte("LATIN1")).Name())
	assert.Equal(t, "windows-1252", CharsetFromCPG([]byte("ANSI 1252")).Name())
	assert.Equal(t, UTF8().Name(), CharsetFromCPG([]byte("65001")).Name())
}

func TestTranscode(t *testing.T) {
	layer := &Layer{
		Kind:   geo.KindPoint,
		Fields: []shp.Field{shp.StringField("NOME", 6), shp.NumberField("ID", 4)},
		Features: []Feature{
			{Geometry: geo.NewPoint(1, 1), Attributes: []string{"Im\xf3vel", "1"}},
			{Geometry: geo.NewPoint(2, 2), Attributes: []string{string(bytes.Repeat([]byte{0xe7}, 200)), "2"}},
		},
	}

	got := layer.Transcode(CharsetFromCPG([]byte("ISO-8859-1")))

	assert.Equal(t, "Imóvel", got.Features[0].Attributes[0])
	assert.Equal(t, "1", got.Features[0].Attributes[1])
	// 200 two-byte runes are cut to 127 to stay within 254 bytes
	assert.Equal(t, strings.Repeat("ç", 127), got.Features[1].Attributes[0])
	assert.Equal(t, uint8(254), got.Fields[0].Size)
	assert.Equal(t, uint8(4), got.Fields[1].Size)

	// the source layer is untouched
	assert.Equal(t, uint8(6), layer.Fields[0].Size)
	assert.Equal(t, "Im\xf3vel", layer.Features[0].Attributes[0])

	files, err := Encode(got)
	require.NoError(t, err)
	back, err := Decode(files.SHP, files.DBF)
	require.NoError(t, err)
	assert.Equal(t, "Imóvel", back.Features[0].Attributes[0])
}

func TestWidenFields(t *testing.T) {
	a := []shp.Field{shp.StringField("NOME", 10), shp.NumberField("ID", 4)}
	b := []shp.Field{shp.StringField("NOME", 40), shp.NumberField("ID", 2)}

	got := WidenFields(a, b)
	assert.Equal(t, uint8(40), got[0].Size)
	assert.Equal(t, uint8(4), got[1].Size)
	assert.Equal(t, uint8(10), a[0].Size)
}
