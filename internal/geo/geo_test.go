package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wktSIRGASGeographic = `GEOGCS["SIRGAS 2000",DATUM["Sistema_de_Referencia_Geocentrico_para_las_AmericaS_2000",SPHEROID["GRS 1980",6378137,298.257222101,AUTHORITY["EPSG","7019"]],TOWGS84[0,0,0,0,0,0,0],AUTHORITY["EPSG","6674"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4674"]]`

	wktESRIUTM23S = `PROJCS["SIRGAS_2000_UTM_Zone_23S",GEOGCS["GCS_SIRGAS_2000",DATUM["D_SIRGAS_2000",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",500000.0],PARAMETER["False_Northing",10000000.0],PARAMETER["Central_Meridian",-45.0],PARAMETER["Scale_Factor",0.9996],PARAMETER["Latitude_Of_Origin",0.0],UNIT["Meter",1.0]]`

	wktESRISAD69 = `GEOGCS["GCS_South_American_1969",DATUM["D_South_American_1969",SPHEROID["GRS_1967_Truncated",6378160.0,298.25]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

	wktWGS84UTM22S = `PROJCS["WGS 84 / UTM zone 22S",
    GEOGCS["WGS 84",
        DATUM["WGS_1984",
            SPHEROID["WGS 84",6378137,298.257223563]],
        PRIMEM["Greenwich",0],
        UNIT["degree",0.0174532925199433]],
    PROJECTION["Transverse_Mercator"],
    PARAMETER["latitude_of_origin",0],
    PARAMETER["central_meridian",-51],
    PARAMETER["scale_factor",0.9996],
    PARAMETER["false_easting",500000],
    PARAMETER["false_northing",10000000],
    UNIT["metre",1],
    AXIS["Easting",EAST],
    AXIS["Northing",NORTH]]`
)

func TestParsePRJ(t *testing.T) {
	tests := []struct {
		name      string
		prj       string
		wantEPSG  int
		wantDatum string
		wantGeog  bool
	}{
		{"OGC SIRGAS geographic", wktSIRGASGeographic, 4674, "SIRGAS 2000", true},
		{"ESRI SIRGAS UTM 23S", wktESRIUTM23S, 31983, "SIRGAS 2000", false},
		{"ESRI SAD69 geographic", wktESRISAD69, 4618, "SAD69", true},
		{"OGC WGS84 UTM 22S multiline", wktWGS84UTM22S, 32722, "WGS 84", false},
		{"plain EPSG code", "EPSG:31982", 31982, "SIRGAS 2000", false},
		{"bare number", " 4326\n", 4326, "WGS 84", true},
		{"output prj", string(TargetPRJ()), 4674, "SIRGAS 2000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crs, err := ParsePRJ([]byte(tt.prj))
			require.NoError(t, err)
			assert.Equal(t, tt.wantEPSG, crs.EPSG)
			assert.Equal(t, tt.wantDatum, crs.Datum.Name)
			assert.Equal(t, tt.wantGeog, crs.Geographic())
		})
	}
}

func TestParsePRJErrors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		_, err := ParsePRJ([]byte(`GEOGCS["broken",DATUM["x"`))
		var syntaxErr *WKTSyntaxError
		assert.True(t, errors.As(err, &syntaxErr), "got %v", err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParsePRJ([]byte("  "))
		var syntaxErr *WKTSyntaxError
		assert.True(t, errors.As(err, &syntaxErr))
	})

	t.Run("unknown datum", func(t *testing.T) {
		_, err := ParsePRJ([]byte(`GEOGCS["Corrego Alegre",DATUM["Corrego_Alegre_1970_72",SPHEROID["International 1924",6378388,297]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`))
		var unsupported *UnsupportedCRSError
		assert.True(t, errors.As(err, &unsupported), "got %v", err)
	})

	t.Run("polyconic", func(t *testing.T) {
		_, err := ParsePRJ([]byte(`PROJCS["SIRGAS 2000 / Brazil Polyconic",GEOGCS["SIRGAS 2000",DATUM["SIRGAS_2000",SPHEROID["GRS 1980",6378137,298.257222101]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],PROJECTION["Polyconic"],PARAMETER["central_meridian",-54],UNIT["metre",1]]`))
		var unsupported *UnsupportedCRSError
		assert.True(t, errors.As(err, &unsupported), "got %v", err)
	})

	t.Run("unsupported EPSG", func(t *testing.T) {
		_, err := ParsePRJ([]byte("EPSG:3857"))
		var unsupported *UnsupportedCRSError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, 3857, unsupported.EPSG)
	})
}

func TestCRSFromEPSGZones(t *testing.T) {
	tests := []struct {
		code  int
		cm    float64
		south bool
	}{
		{31971, -81, false},
		{31976, -51, false},
		{31977, -81, true},
		{31983, -45, true},
		{31985, -33, true},
		{32722, -51, true},
		{32619, -69, false},
		{29193, -45, true},
		{29168, -75, false},
	}

	for _, tt := range tests {
		crs, err := CRSFromEPSG(tt.code)
		require.NoError(t, err, tt.code)
		require.NotNil(t, crs.Projection)
		assert.Equal(t, tt.cm, crs.Projection.CentralMeridian, tt.code)
		assert.Equal(t, tt.south, crs.Projection.FalseNorthing == 10000000, tt.code)
	}
}

func TestTransverseMercatorKnownValues(t *testing.T) {
	tm := UTM(23, true)

	// On the central meridian easting equals the false easting.
	x, y := tm.Forward(-45, 0, GRS80)
	assert.InDelta(t, 500000, x, 1e-6)
	assert.InDelta(t, 10000000, y, 1e-6)

	// São Paulo, Praça da Sé.
	x, y = tm.Forward(-46.6333, -23.5505, GRS80)
	assert.InDelta(t, 333288, x, 1)
	assert.InDelta(t, 7394588, y, 1)
}

func TestTransverseMercatorProjString(t *testing.T) {
	assert.Equal(t,
		"+proj=etmerc +lat_0=0 +lon_0=-45 +k_0=0.9996 +x_0=500000 +y_0=10000000 +ellps=GRS80 +units=m",
		UTM(23, true).ProjString(GRS80))
	assert.Contains(t, UTM(22, true).ProjString(GRS67), "+ellps=aust_SA")
	assert.NoError(t, UTM(22, true).Validate(GRS67))
}

func TestTransverseMercatorPROJReference(t *testing.T) {
	// PROJ: echo 12 55 | proj +proj=utm +zone=32 +ellps=GRS80
	x, y := UTM(32, false).Forward(12, 55, GRS80)
	assert.InDelta(t, 691875.63, x, 0.01)
	assert.InDelta(t, 6098907.83, y, 0.01)
}

func TestTransverseMercatorRoundTrip(t *testing.T) {
	tm := UTM(22, true)
	for _, p := range [][2]float64{{-51, -15}, {-53.9, -3.2}, {-48.1, -29.7}, {-50.5, 1.5}} {
		x, y := tm.Forward(p[0], p[1], GRS80)
		lon, lat := tm.Inverse(x, y, GRS80)
		assert.InDelta(t, p[0], lon, 1e-7)
		assert.InDelta(t, p[1], lat, 1e-7)
	}
}

func TestTransformerUTMToTarget(t *testing.T) {
	src, err := CRSFromEPSG(31983)
	require.NoError(t, err)

	tr, err := NewTransformer(src, Target())
	require.NoError(t, err)
	assert.False(t, tr.Identity())

	x, y := src.Projection.Forward(-47.9, -15.8, GRS80)
	g, err := tr.Geometry(NewPoint(x, y))
	require.NoError(t, err)
	assert.InDelta(t, -47.9, g.Parts[0][0].X, 1e-7)
	assert.InDelta(t, -15.8, g.Parts[0][0].Y, 1e-7)
}

func TestTransformerWGS84IsIdentity(t *testing.T) {
	wgs, err := CRSFromEPSG(4326)
	require.NoError(t, err)

	tr, err := NewTransformer(wgs, Target())
	require.NoError(t, err)
	assert.True(t, tr.Identity())

	lon, lat := tr.Apply(-47.9, -15.8)
	assert.Equal(t, -47.9, lon)
	assert.Equal(t, -15.8, lat)
}

func TestTransformerSAD69Shift(t *testing.T) {
	sad, err := CRSFromEPSG(4618)
	require.NoError(t, err)

	tr, err := NewTransformer(sad, Target())
	require.NoError(t, err)

	lon, lat := tr.Apply(-47.9, -15.8)
	// The SAD69 to SIRGAS 2000 shift is in the order of 50 metres.
	dLon := (lon + 47.9) * 111320 * math.Cos(15.8*math.Pi/180)
	dLat := (lat + 15.8) * 110574
	dist := math.Hypot(dLon, dLat)
	assert.Greater(t, dist, 20.0)
	assert.Less(t, dist, 100.0)
}

func TestTransformerRejectsOutOfRange(t *testing.T) {
	tr, err := NewTransformer(Target(), Target())
	require.NoError(t, err)

	// UTM coordinates read as degrees.
	_, err = tr.Geometry(NewPoint(333288, 7394588))
	var rangeErr *CoordinateRangeError
	assert.True(t, errors.As(err, &rangeErr))
}

func TestTransformerTargetMustBeGeographic(t *testing.T) {
	utm, err := CRSFromEPSG(31983)
	require.NoError(t, err)
	_, err = NewTransformer(Target(), utm)
	assert.Error(t, err)
}

func TestGeometryHelpers(t *testing.T) {
	mp := Geometry{Kind: KindMultiPoint, Parts: [][]Point{{{1, 2}, {3, 4}, {5, -1}}}}
	assert.Equal(t, 3, mp.NumPoints())
	assert.Equal(t, Bounds{MinLon: 1, MaxLon: 5, MinLat: -1, MaxLat: 4}, mp.Bounds())

	pts := mp.Explode()
	require.Len(t, pts, 3)
	assert.Equal(t, KindPoint, pts[2].Kind)
	assert.Equal(t, Point{5, -1}, pts[2].Parts[0][0])

	assert.True(t, Geometry{Kind: KindPolygon}.Empty())
	assert.True(t, Geometry{}.Empty())
	assert.False(t, NewPoint(0, 0).Empty())

	cw := []Point{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	assert.Less(t, SignedArea(cw), 0.0)
}

func TestBounds(t *testing.T) {
	b, err := ParseBounds("-48.5, -16, -47, -15")
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinLon: -48.5, MinLat: -16, MaxLon: -47, MaxLat: -15}, b)
	assert.True(t, b.Contains(-47.9, -15.8))
	assert.True(t, b.Intersects(Bounds{MinLon: -47.5, MaxLon: -46, MinLat: -15.5, MaxLat: -14}))
	assert.False(t, b.Intersects(Bounds{MinLon: -46, MaxLon: -45, MinLat: -15.5, MaxLat: -14}))

	_, err = ParseBounds("1,2,3")
	assert.Error(t, err)
	_, err = ParseBounds("3,2,1,4")
	assert.Error(t, err)
}

func TestFilterByBounds(t *testing.T) {
	geoms := []Geometry{
		NewPoint(-47.9, -15.8),
		{Kind: KindPolygon, Parts: [][]Point{{{-60, -10}, {-60, -9}, {-59, -9}, {-60, -10}}}},
		{},
		NewPoint(-48.0, -15.9),
		{Kind: KindLine, Parts: [][]Point{{{-49, -15.85}, {-47.5, -15.85}}}},
	}
	clip := Bounds{MinLon: -48.2, MaxLon: -47.6, MinLat: -16, MaxLat: -15.7}

	idx := NewFeatureIndex(geoms)
	assert.Equal(t, 4, idx.Size())
	assert.Equal(t, []int{0, 3, 4}, idx.Query(clip))
	assert.Equal(t, []int{0, 3, 4}, FilterByBounds(geoms, clip))
}
