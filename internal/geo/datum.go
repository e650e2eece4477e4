package geo

import "math"

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Ellipsoid is a reference ellipsoid given by semi-major axis and inverse
// flattening, with its PROJ +ellps identifier.
type Ellipsoid struct {
	Name string
	Proj string
	A    float64
	InvF float64
}

var (
	GRS80 = Ellipsoid{Name: "GRS 1980", Proj: "GRS80", A: 6378137.0, InvF: 298.257222101}
	WGS84 = Ellipsoid{Name: "WGS 84", Proj: "WGS84", A: 6378137.0, InvF: 298.257223563}
	// PROJ lists the South American 1969 ellipsoid as aust_SA.
	GRS67 = Ellipsoid{Name: "GRS 1967 Modified", Proj: "aust_SA", A: 6378160.0, InvF: 298.25}
)

// e2 returns the first eccentricity squared.
func (e Ellipsoid) e2() float64 {
	f := 1 / e.InvF
	return f * (2 - f)
}

// Datum is a geodetic datum with a three-parameter shift to SIRGAS 2000.
type Datum struct {
	Name      string
	Ellipsoid Ellipsoid
	Shift     [3]float64 // dX, dY, dZ in metres, to SIRGAS 2000
}

var (
	SIRGAS2000 = Datum{Name: "SIRGAS 2000", Ellipsoid: GRS80}
	// WGS 84 and SIRGAS 2000 agree within centimetres; no shift is applied.
	DatumWGS84 = Datum{Name: "WGS 84", Ellipsoid: WGS84}
	// IBGE parameters for SAD69 to SIRGAS 2000.
	SAD69 = Datum{Name: "SAD69", Ellipsoid: GRS67, Shift: [3]float64{-67.35, 3.88, -38.22}}
)

func (d Datum) shifted() bool {
	return d.Shift != [3]float64{}
}

// Datum shifts are three-parameter geocentric translations, which go-spatial/proj
// does not implement.

func toGeocentric(lon, lat float64, ell Ellipsoid) (x, y, z float64) {
	e2 := ell.e2()
	phi, lam := lat*deg2rad, lon*deg2rad
	sinPhi := math.Sin(phi)
	n := ell.A / math.Sqrt(1-e2*sinPhi*sinPhi)
	x = n * math.Cos(phi) * math.Cos(lam)
	y = n * math.Cos(phi) * math.Sin(lam)
	z = n * (1 - e2) * sinPhi
	return x, y, z
}

func fromGeocentric(x, y, z float64, ell Ellipsoid) (lon, lat float64) {
	e2 := ell.e2()
	p := math.Hypot(x, y)
	lam := math.Atan2(y, x)
	phi := math.Atan2(z, p*(1-e2))
	for i := 0; i < 6; i++ {
		sinPhi := math.Sin(phi)
		n := ell.A / math.Sqrt(1-e2*sinPhi*sinPhi)
		h := p/math.Cos(phi) - n
		phi = math.Atan2(z, p*(1-e2*n/(n+h)))
	}
	return lam * rad2deg, phi * rad2deg
}

// shiftDatum moves geographic coordinates between datums through
// geocentric space. Shifts are relative to SIRGAS 2000.
func shiftDatum(lon, lat float64, from, to Datum) (float64, float64) {
	x, y, z := toGeocentric(lon, lat, from.Ellipsoid)
	x += from.Shift[0] - to.Shift[0]
	y += from.Shift[1] - to.Shift[1]
	z += from.Shift[2] - to.Shift[2]
	return fromGeocentric(x, y, z, to.Ellipsoid)
}
