package shapefile

import (
	"fmt"
)

// DecodeError indicates a .shp/.dbf pair that could not be read
type DecodeError struct {
	Record int // 0 when the failure is not tied to a record
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Record > 0 {
		return fmt.Sprintf("decode shapefile record %d: %v", e.Record, e.Err)
	}
	return fmt.Sprintf("decode shapefile: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnsupportedShapeError indicates a shape type with no geometry mapping
type UnsupportedShapeError struct {
	ShapeType string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported shape type: %s", e.ShapeType)
}

// MixedGeometryError indicates records of different geometry kinds in one layer
type MixedGeometryError struct {
	Want, Got string
}

func (e *MixedGeometryError) Error() string {
	return fmt.Sprintf("mixed geometry kinds in layer: %s and %s", e.Want, e.Got)
}
