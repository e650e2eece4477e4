package geo

import (
	"fmt"
)

// UnsupportedCRSError indicates a coordinate reference system the
// reprojection engine cannot handle
type UnsupportedCRSError struct {
	EPSG   int
	Name   string
	Reason string
}

func (e *UnsupportedCRSError) Error() string {
	switch {
	case e.EPSG != 0:
		return fmt.Sprintf("unsupported CRS EPSG:%d: %s", e.EPSG, e.Reason)
	case e.Name != "":
		return fmt.Sprintf("unsupported CRS %q: %s", e.Name, e.Reason)
	default:
		return fmt.Sprintf("unsupported CRS: %s", e.Reason)
	}
}

// WKTSyntaxError indicates a malformed .prj definition
type WKTSyntaxError struct {
	Offset int
	Reason string
}

func (e *WKTSyntaxError) Error() string {
	return fmt.Sprintf("WKT syntax error at offset %d: %s", e.Offset, e.Reason)
}

// CoordinateRangeError indicates a transformed coordinate outside the
// geographic domain, usually a .prj that does not describe the data
type CoordinateRangeError struct {
	X, Y float64
}

func (e *CoordinateRangeError) Error() string {
	return fmt.Sprintf("coordinate (%g, %g) outside geographic range", e.X, e.Y)
}
