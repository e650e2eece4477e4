package sld

import (
	"github.com/terrabrasil/carkit/internal/catalog"
)

// LegendName is the layer name of the catalog legend document.
const LegendName = "Legenda_CAR"

// Legend renders one SLD document with a rule per catalog theme, in
// declaration order, colored from the catalog palette.
func (g *Generator) Legend(cat *catalog.Catalog) ([]byte, error) {
	themes := cat.Themes()
	palette := cat.Palette()

	rules := make([]rule, 0, len(palette))
	for i, entry := range palette {
		th := themes[i]
		req := Request{
			Name:   entry.Theme,
			Kind:   th.Kind,
			Fill:   entry.Fill,
			Stroke: entry.Stroke,
		}
		r, err := g.rule(entry.Theme, &description{Title: th.Label}, req)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return encode(newDocument(LegendName, userStyle{
		Name:             LegendName,
		Description:      &description{Title: "Legenda CAR"},
		FeatureTypeStyle: featureTypeStyle{Rules: rules},
	}))
}

// Legend renders the catalog legend with the default style.
func Legend(cat *catalog.Catalog) ([]byte, error) {
	return defaultGenerator.Legend(cat)
}
