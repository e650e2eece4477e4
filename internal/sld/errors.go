package sld

import (
	"fmt"
)

// UnsupportedGeometryKindError indicates a geometry kind with no symbolizer.
// For catalog themes this is a data bug in the reference table.
type UnsupportedGeometryKindError struct {
	Kind string
}

func (e *UnsupportedGeometryKindError) Error() string {
	return fmt.Sprintf("unsupported geometry kind: %q", e.Kind)
}

// InvalidColorError indicates a malformed hex color
type InvalidColorError struct {
	Field string // fill or stroke
	Value string
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid %s color: %q (want #rrggbb)", e.Field, e.Value)
}
