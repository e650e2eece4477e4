// Package catalog holds the thematic reference model of the CAR (Cadastro
// Ambiental Rural): which themes exist, how they are grouped into output
// folders and how each one is drawn.
//
// A Catalog is immutable once built. The process-wide instance returned by
// Default is constructed once and shared read-only by every caller.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// GeometryKind is the symbolizer family a theme is drawn with.
type GeometryKind string

const (
	KindPolygon GeometryKind = "polygon"
	KindPoint   GeometryKind = "point"
)

// Valid reports whether the kind is one the catalog accepts.
func (k GeometryKind) Valid() bool {
	return k == KindPolygon || k == KindPoint
}

// Color is an RGB hex triplet in the form "#rrggbb".
type Color string

// Valid reports whether c is a well-formed "#rrggbb" triplet.
func (c Color) Valid() bool {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// Hex returns the color without the leading '#', lower-cased.
func (c Color) Hex() string {
	return strings.ToLower(strings.TrimPrefix(string(c), "#"))
}

// ThemeDefinition describes one CAR theme.
type ThemeDefinition struct {
	Name       string       // Canonical name, also the output file basename (e.g. "Area_do_Imovel")
	Label      string       // Title as written by SICAR (e.g. "Área do Imóvel")
	Group      string       // Folder the theme is written to
	GroupOrder int          // Listing order of the group
	Kind       GeometryKind // polygon or point
	Fill       *Color       // nil means outline only
	Stroke     Color
	Aliases    []string // Additional filename patterns recognized for this theme
}

// HasFill reports whether the theme is drawn with a fill.
func (t ThemeDefinition) HasFill() bool {
	return t.Fill != nil
}

// Group describes a thematic group (one output folder).
type Group struct {
	Name  string // Folder name (e.g. "Reserva_Legal")
	Title string // Display title (e.g. "Reserva Legal")
	Order int
}

// GroupSpec is the table form of a group and its themes, in declaration order.
type GroupSpec struct {
	Group
	Themes []ThemeSpec
}

// ThemeSpec is the table form of a theme. Group fields are filled from the
// enclosing GroupSpec.
type ThemeSpec struct {
	Name    string
	Label   string
	Kind    GeometryKind
	Fill    string // empty means no fill
	Stroke  string
	Aliases []string
}

// PaletteEntry is one row of the color palette used for legends.
type PaletteEntry struct {
	Theme  string
	Fill   *Color
	Stroke Color
}

// Catalog is the immutable theme table.
type Catalog struct {
	themes  []ThemeDefinition // declaration order
	byName  map[string]int
	groups  []Group // declaration order
	byGroup map[string][]int
}

// New builds a catalog from table specs, validating every entry.
//
// Declaration order is preserved: it drives Themes, ThemesInGroup, Palette
// and the first-match rule of the identifier.
func New(specs ...GroupSpec) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]int),
		byGroup: make(map[string][]int),
	}

	for _, gs := range specs {
		if gs.Name == "" {
			return nil, &ErrInvalidTheme{Reason: "group with empty name"}
		}
		if _, dup := c.byGroup[gs.Name]; dup {
			return nil, &ErrInvalidTheme{Reason: fmt.Sprintf("duplicate group %q", gs.Name)}
		}
		c.groups = append(c.groups, gs.Group)
		c.byGroup[gs.Name] = nil

		for _, ts := range gs.Themes {
			def, err := buildTheme(gs.Group, ts)
			if err != nil {
				return nil, err
			}
			if _, dup := c.byName[def.Name]; dup {
				return nil, &ErrInvalidTheme{Theme: def.Name, Reason: "duplicate theme name"}
			}
			c.byName[def.Name] = len(c.themes)
			c.byGroup[gs.Name] = append(c.byGroup[gs.Name], len(c.themes))
			c.themes = append(c.themes, def)
		}
	}

	return c, nil
}

func buildTheme(g Group, ts ThemeSpec) (ThemeDefinition, error) {
	if ts.Name == "" {
		return ThemeDefinition{}, &ErrInvalidTheme{Reason: fmt.Sprintf("theme with empty name in group %q", g.Name)}
	}
	if !ts.Kind.Valid() {
		return ThemeDefinition{}, &ErrInvalidTheme{Theme: ts.Name, Reason: fmt.Sprintf("unknown geometry kind %q", ts.Kind)}
	}

	stroke := Color(strings.ToLower(ts.Stroke))
	if !stroke.Valid() {
		return ThemeDefinition{}, &ErrInvalidTheme{Theme: ts.Name, Reason: fmt.Sprintf("invalid stroke color %q", ts.Stroke)}
	}

	var fill *Color
	if ts.Fill != "" {
		f := Color(strings.ToLower(ts.Fill))
		if !f.Valid() {
			return ThemeDefinition{}, &ErrInvalidTheme{Theme: ts.Name, Reason: fmt.Sprintf("invalid fill color %q", ts.Fill)}
		}
		fill = &f
	}

	label := ts.Label
	if label == "" {
		label = strings.ReplaceAll(ts.Name, "_", " ")
	}

	return ThemeDefinition{
		Name:       ts.Name,
		Label:      label,
		Group:      g.Name,
		GroupOrder: g.Order,
		Kind:       ts.Kind,
		Fill:       fill,
		Stroke:     stroke,
		Aliases:    append([]string(nil), ts.Aliases...),
	}, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the catalog built from the CAR reference table.
// The table is validated by tests; a broken table panics on first use.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := New(carReferenceModel...)
		if err != nil {
			panic(fmt.Sprintf("catalog: invalid reference table: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the theme with the given canonical name.
func (c *Catalog) Lookup(name string) (ThemeDefinition, error) {
	idx, ok := c.byName[name]
	if !ok {
		return ThemeDefinition{}, &ThemeNotFoundError{Name: name}
	}
	return c.themes[idx], nil
}

// Themes returns every theme in declaration order.
func (c *Catalog) Themes() []ThemeDefinition {
	out := make([]ThemeDefinition, len(c.themes))
	copy(out, c.themes)
	return out
}

// Index returns the declaration position of a theme, or -1.
func (c *Catalog) Index(name string) int {
	if idx, ok := c.byName[name]; ok {
		return idx
	}
	return -1
}

// Groups returns group names ordered by group order ascending.
// Groups sharing an order keep declaration order.
func (c *Catalog) Groups() []string {
	groups := make([]Group, len(c.groups))
	copy(groups, c.groups)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Order < groups[j].Order
	})

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

// Group returns the group metadata for a folder name.
func (c *Catalog) Group(name string) (Group, error) {
	for _, g := range c.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return Group{}, &GroupNotFoundError{Group: name}
}

// ThemesInGroup returns the themes of a group in declaration order.
func (c *Catalog) ThemesInGroup(group string) ([]ThemeDefinition, error) {
	idxs, ok := c.byGroup[group]
	if !ok {
		return nil, &GroupNotFoundError{Group: group}
	}
	out := make([]ThemeDefinition, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, c.themes[idx])
	}
	return out, nil
}

// Palette returns theme colors in declaration order.
func (c *Catalog) Palette() []PaletteEntry {
	out := make([]PaletteEntry, 0, len(c.themes))
	for _, t := range c.themes {
		out = append(out, PaletteEntry{Theme: t.Name, Fill: t.Fill, Stroke: t.Stroke})
	}
	return out
}

// Len returns the number of themes.
func (c *Catalog) Len() int {
	return len(c.themes)
}
