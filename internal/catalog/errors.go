package catalog

import (
	"fmt"
)

// ThemeNotFoundError indicates a theme name absent from the catalog
type ThemeNotFoundError struct {
	Name string
}

func (e *ThemeNotFoundError) Error() string {
	return fmt.Sprintf("theme not found in catalog: %q", e.Name)
}

// GroupNotFoundError indicates a thematic group absent from the catalog
type GroupNotFoundError struct {
	Group string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("group not found in catalog: %q", e.Group)
}

// ErrInvalidTheme indicates a table entry that violates catalog rules.
// It is only produced while building a catalog, never at lookup time.
type ErrInvalidTheme struct {
	Theme  string
	Reason string
}

func (e *ErrInvalidTheme) Error() string {
	if e.Theme != "" {
		return fmt.Sprintf("invalid theme %q: %s", e.Theme, e.Reason)
	}
	return fmt.Sprintf("invalid theme: %s", e.Reason)
}
