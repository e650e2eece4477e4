// Package geo handles coordinate reference systems for CAR layers: reading
// .prj definitions, reprojecting to SIRGAS 2000 geographic coordinates and
// spatial filtering of feature envelopes.
//
// Only the systems found in SICAR exports are supported: geographic SIRGAS
// 2000, WGS 84 and SAD69, and their UTM projections over Brazil.
package geo

import (
	"fmt"
)

// TargetEPSG is the CRS every output layer is written in (SIRGAS 2000).
const TargetEPSG = 4674

// CRS is a coordinate reference system.
type CRS struct {
	EPSG       int // 0 when the definition matched no known code
	Name       string
	Datum      Datum
	Projection *TransverseMercator // nil for geographic coordinates in degrees
}

// Geographic reports whether coordinates are longitude/latitude degrees.
func (c CRS) Geographic() bool {
	return c.Projection == nil
}

func (c CRS) String() string {
	if c.EPSG != 0 {
		return fmt.Sprintf("EPSG:%d (%s)", c.EPSG, c.Name)
	}
	return c.Name
}

// Equivalent reports whether two systems produce identical coordinates.
func (c CRS) Equivalent(other CRS) bool {
	if c.Datum.Name != other.Datum.Name {
		return false
	}
	if c.Projection == nil || other.Projection == nil {
		return c.Projection == nil && other.Projection == nil
	}
	return *c.Projection == *other.Projection
}

var geographicCRS = map[int]CRS{
	4674: {EPSG: 4674, Name: "SIRGAS 2000", Datum: SIRGAS2000},
	4326: {EPSG: 4326, Name: "WGS 84", Datum: DatumWGS84},
	4618: {EPSG: 4618, Name: "SAD69", Datum: SAD69},
}

// CRSFromEPSG returns a supported CRS by EPSG code.
func CRSFromEPSG(code int) (CRS, error) {
	if c, ok := geographicCRS[code]; ok {
		return c, nil
	}

	var (
		datum Datum
		zone  int
		south bool
	)
	switch {
	case code >= 31971 && code <= 31976: // SIRGAS 2000 / UTM zone 17N-22N
		datum, zone = SIRGAS2000, code-31954
	case code >= 31977 && code <= 31985: // SIRGAS 2000 / UTM zone 17S-25S
		datum, zone, south = SIRGAS2000, code-31960, true
	case code >= 32617 && code <= 32622: // WGS 84 / UTM zone 17N-22N
		datum, zone = DatumWGS84, code-32600
	case code >= 32717 && code <= 32725: // WGS 84 / UTM zone 17S-25S
		datum, zone, south = DatumWGS84, code-32700, true
	case code >= 29168 && code <= 29172: // SAD69 / UTM zone 18N-22N
		datum, zone = SAD69, code-29150
	case code >= 29187 && code <= 29195: // SAD69 / UTM zone 17S-25S
		datum, zone, south = SAD69, code-29170, true
	default:
		return CRS{}, &UnsupportedCRSError{EPSG: code, Reason: "not a SIRGAS 2000, WGS 84 or SAD69 system over Brazil"}
	}

	hemi := "N"
	if south {
		hemi = "S"
	}
	tm := UTM(zone, south)
	return CRS{
		EPSG:       code,
		Name:       fmt.Sprintf("%s / UTM zone %d%s", datum.Name, zone, hemi),
		Datum:      datum,
		Projection: &tm,
	}, nil
}

// Target returns the output CRS.
func Target() CRS {
	return geographicCRS[TargetEPSG]
}

// targetPRJ is the ESRI WKT written next to every output shapefile.
const targetPRJ = `GEOGCS["GCS_SIRGAS_2000",DATUM["D_SIRGAS_2000",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// TargetPRJ returns the .prj content of the output CRS.
func TargetPRJ() []byte {
	return []byte(targetPRJ)
}

// identifyEPSG finds the EPSG code of a parsed definition, if any.
func identifyEPSG(c CRS) int {
	for code, g := range geographicCRS {
		if c.Equivalent(g) {
			return code
		}
	}
	if c.Projection == nil {
		return 0
	}
	for _, r := range [][2]int{{31971, 31985}, {32617, 32622}, {32717, 32725}, {29168, 29172}, {29187, 29195}} {
		for code := r[0]; code <= r[1]; code++ {
			known, err := CRSFromEPSG(code)
			if err == nil && c.Equivalent(known) {
				return code
			}
		}
	}
	return 0
}
