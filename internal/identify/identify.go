// Package identify classifies shapefiles found in a CAR archive against the
// thematic catalog.
//
// A layer name is matched heuristically: the normalized basename is compared
// with the normalized canonical name and aliases of every theme, first by
// equality and then by substring containment in either direction. Among
// containment matches the first theme in catalog declaration order wins.
// New name variants are handled by adding aliases to the catalog table, not
// by adding code here.
//
// SICAR also exports group-level layers, one per catalog group, whose
// features carry their theme in a "tema" column:
//
//	Area_de_Preservacao_Permanente.shp           tema = "Área de Preservação Permanente de Veredas"
//	MARCADORES_Area_de_Preservacao_Permanente.shp tema = "Área de Preservação Permanente de Veredas"
//
// Such names are reported through Match.Group instead of being stretched
// onto whichever theme happens to contain them, and each tema value is
// classified with MatchLabel, which only accepts an exact normalized label,
// name or alias.
package identify

import (
	"strings"

	"github.com/terrabrasil/carkit/internal/catalog"
)

// MinReverseLength is the shortest normalized basename that may match a
// theme by being contained in the theme's name.
const MinReverseLength = 4

// MarkerPrefix opens the names of SICAR point-marker group layers.
const MarkerPrefix = "marcadores"

// Match is the classification of one shapefile basename.
type Match struct {
	Basename string
	Theme    *catalog.ThemeDefinition // nil when unrecognized

	// Group is set, with Theme nil, when the basename names a whole catalog
	// group; Marker when it names the group's point-marker layer.
	Group  string
	Marker bool
}

// Matched reports whether the basename was recognized.
func (m Match) Matched() bool {
	return m.Theme != nil
}

type themePatterns struct {
	theme    catalog.ThemeDefinition
	patterns []string
	label    string
}

// Identifier matches basenames against a catalog. It is immutable and safe
// for concurrent use.
type Identifier struct {
	themes []themePatterns
	groups []groupPattern
}

type groupPattern struct {
	name    string
	pattern string
}

// New prepares the normalized patterns of every catalog theme.
func New(cat *catalog.Catalog) *Identifier {
	id := &Identifier{}
	for _, th := range cat.Themes() {
		tp := themePatterns{theme: th}
		for _, p := range append([]string{th.Name}, th.Aliases...) {
			if n := Normalize(p); n != "" {
				tp.patterns = append(tp.patterns, n)
			}
		}
		tp.label = Normalize(th.Label)
		id.themes = append(id.themes, tp)
	}

	// A group that shares its name with a theme is that theme.
	for _, g := range cat.Groups() {
		n := Normalize(g)
		if n == "" || id.exact(n) != nil {
			continue
		}
		id.groups = append(id.groups, groupPattern{name: g, pattern: n})
	}
	return id
}

func (id *Identifier) exact(name string) *catalog.ThemeDefinition {
	for i := range id.themes {
		for _, p := range id.themes[i].patterns {
			if p == name {
				th := id.themes[i].theme
				return &th
			}
		}
	}
	return nil
}

// Match classifies a single basename (no directory, no extension).
func (id *Identifier) Match(basename string) Match {
	m := Match{Basename: basename}

	name := Normalize(basename)
	if name == "" {
		return m
	}

	// Exact pass: canonical names always map to themselves.
	if th := id.exact(name); th != nil {
		m.Theme = th
		return m
	}

	if g, marker, ok := id.group(name); ok {
		m.Group, m.Marker = g, marker
		return m
	}

	for i := range id.themes {
		for _, p := range id.themes[i].patterns {
			if strings.Contains(name, p) ||
				(len(name) >= MinReverseLength && strings.Contains(p, name)) {
				th := id.themes[i].theme
				m.Theme = &th
				return m
			}
		}
	}

	return m
}

// group recognizes "<group>", "marcadores_<group>" and either one followed
// by an export code such as "_2023" or "_a1b2c3".
func (id *Identifier) group(name string) (string, bool, bool) {
	marker := strings.HasPrefix(name, MarkerPrefix+"_")
	rest := strings.TrimPrefix(name, MarkerPrefix+"_")
	for _, g := range id.groups {
		if rest == g.pattern {
			return g.name, marker, true
		}
		if tail, ok := strings.CutPrefix(rest, g.pattern+"_"); ok && exportCode(tail) {
			return g.name, marker, true
		}
	}
	return "", false, false
}

func exportCode(s string) bool {
	digit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'f', r == '_':
		default:
			return false
		}
	}
	return digit
}

// MatchLabel classifies the value of a feature's tema column. Only an exact
// normalized match against a theme's label, canonical name or alias counts.
func (id *Identifier) MatchLabel(value string) Match {
	m := Match{Basename: value}
	name := Normalize(value)
	if name == "" {
		return m
	}
	for i := range id.themes {
		if id.themes[i].label == name {
			th := id.themes[i].theme
			m.Theme = &th
			return m
		}
	}
	m.Theme = id.exact(name)
	return m
}

// Identify classifies every basename, preserving input order.
func (id *Identifier) Identify(basenames []string) []Match {
	out := make([]Match, len(basenames))
	for i, b := range basenames {
		out[i] = id.Match(b)
	}
	return out
}
