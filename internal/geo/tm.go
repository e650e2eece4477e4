package geo

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/go-spatial/proj/core"
	"github.com/go-spatial/proj/support"

	// registers the etmerc conversion
	_ "github.com/go-spatial/proj/operations"
)

// TransverseMercator holds projection parameters in degrees and metres.
type TransverseMercator struct {
	LatOrigin       float64
	CentralMeridian float64
	ScaleFactor     float64
	FalseEasting    float64
	FalseNorthing   float64
}

// UTM returns the parameters of a UTM zone.
func UTM(zone int, south bool) TransverseMercator {
	tm := TransverseMercator{
		CentralMeridian: float64(zone*6 - 183),
		ScaleFactor:     0.9996,
		FalseEasting:    500000,
	}
	if south {
		tm.FalseNorthing = 10000000
	}
	return tm
}

// ProjString renders the parameters as a PROJ definition on ell.
//
//	UTM(23, true).ProjString(GRS80)
//	// +proj=etmerc +lat_0=0 +lon_0=-45 +k_0=0.9996 +x_0=500000 +y_0=10000000 +ellps=GRS80 +units=m
func (tm TransverseMercator) ProjString(ell Ellipsoid) string {
	return fmt.Sprintf("+proj=etmerc +lat_0=%s +lon_0=%s +k_0=%s +x_0=%s +y_0=%s +ellps=%s +units=m",
		plain(tm.LatOrigin), plain(tm.CentralMeridian), plain(tm.ScaleFactor),
		plain(tm.FalseEasting), plain(tm.FalseNorthing), ell.Proj)
}

// plain formats without an exponent, whose '+' would split a PROJ token.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// conversions caches one PROJ operation per definition. Operations hold
// only their setup constants and are shared between goroutines.
var conversions sync.Map // string -> core.IConvertLPToXY

func (tm TransverseMercator) conversion(ell Ellipsoid) (core.IConvertLPToXY, error) {
	def := tm.ProjString(ell)
	if op, ok := conversions.Load(def); ok {
		return op.(core.IConvertLPToXY), nil
	}

	ps, err := support.NewProjString(def)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", def, err)
	}
	_, opx, err := core.NewSystem(ps)
	if err != nil {
		return nil, fmt.Errorf("set up %q: %w", def, err)
	}
	op, ok := opx.(core.IConvertLPToXY)
	if !ok {
		return nil, fmt.Errorf("%q is not a map projection", def)
	}
	actual, _ := conversions.LoadOrStore(def, op)
	return actual.(core.IConvertLPToXY), nil
}

// Forward projects geographic degrees to easting/northing. Both results
// are NaN when the projection cannot be set up or the point is outside
// its domain.
func (tm TransverseMercator) Forward(lon, lat float64, ell Ellipsoid) (x, y float64) {
	op, err := tm.conversion(ell)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	xy, err := op.Forward(&core.CoordLP{Lam: support.DDToR(lon), Phi: support.DDToR(lat)})
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return xy.X, xy.Y
}

// Inverse converts easting/northing to geographic degrees, with the same
// NaN convention as Forward.
func (tm TransverseMercator) Inverse(x, y float64, ell Ellipsoid) (lon, lat float64) {
	op, err := tm.conversion(ell)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	lp, err := op.Inverse(&core.CoordXY{X: x, Y: y})
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return support.RToDD(lp.Lam), support.RToDD(lp.Phi)
}

// Validate reports whether PROJ accepts the parameters on ell.
func (tm TransverseMercator) Validate(ell Ellipsoid) error {
	_, err := tm.conversion(ell)
	return err
}
