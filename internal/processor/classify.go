package processor

import (
	"fmt"

	"github.com/terrabrasil/carkit/internal/catalog"
	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/identify"
	"github.com/terrabrasil/carkit/internal/logger"
	"github.com/terrabrasil/carkit/internal/metrics"
	"github.com/terrabrasil/carkit/internal/shapefile"
)

// temaField is the SICAR column holding each feature's theme label.
const temaField = "tema"

// markerSuffix names the output layer that keeps the points of a marker
// group layer apart from the polygons of the same theme.
const markerSuffix = "_Marcadores"

// layerPart is the share of a decoded layer assigned to one theme.
type layerPart struct {
	src    layerOutcome
	theme  catalog.ThemeDefinition
	name   string // output layer name
	layer  *shapefile.Layer
	bounds geo.Bounds
	seq    int // position among the parts of the same source
}

// classify assigns decoded layers to themes. A layer with a tema column is
// split by its values; any other layer follows its basename. Unreadable
// layers named after a theme or group are skipped, while unreadable or
// unassignable others go back as candidates for the other folder.
// recognized reports whether any layer was tied to the catalog.
func (p *Processor) classify(outcomes []layerOutcome, res *Result, log logger.Logger) (parts []layerPart, other []*identify.Candidate, recognized bool) {
	for _, o := range outcomes {
		if !o.ok() {
			if o.job.named() {
				recognized = true
				p.skipLayer(res, log, o.job.cand.Basename, o.skip)
			} else {
				other = append(other, o.job.cand)
			}
			continue
		}

		if split := p.splitByTema(o, res, log); len(split) > 0 {
			recognized = true
			parts = append(parts, split...)
			continue
		}

		if th := o.job.match.Theme; th != nil {
			recognized = true
			parts = append(parts, p.newPart(o, *th, o.layer, 0))
			continue
		}

		if o.job.match.Group != "" {
			log.Debug("group layer without usable tema column", map[string]interface{}{
				"basename": o.job.cand.Basename,
				"group":    o.job.match.Group,
			})
		}
		other = append(other, o.job.cand)
	}
	return parts, other, recognized
}

// splitByTema partitions a layer by the values of its tema column, in order
// of first appearance. Values naming no catalog theme are reported and
// their features left out. Nil means the layer has no tema column or none
// of its values matched, so the basename decides.
func (p *Processor) splitByTema(o layerOutcome, res *Result, log logger.Logger) []layerPart {
	col := o.layer.FieldIndex(temaField)
	if col < 0 {
		return nil
	}

	var (
		values []string
		blank  int
	)
	byValue := make(map[string][]shapefile.Feature)
	for _, f := range o.layer.Features {
		v := o.charset.Decode(f.Attributes[col])
		if v == "" {
			blank++
			continue
		}
		if _, seen := byValue[v]; !seen {
			values = append(values, v)
		}
		byValue[v] = append(byValue[v], f)
	}

	var (
		parts   []layerPart
		unknown []string
	)
	for _, v := range values {
		m := p.ident.MatchLabel(v)
		if !m.Matched() {
			unknown = append(unknown, v)
			continue
		}
		layer := *o.layer
		layer.Features = byValue[v]
		if len(parts) > 0 {
			layer.Nulls, layer.Deleted = 0, 0
		}
		parts = append(parts, p.newPart(o, *m.Theme, &layer, len(parts)))
	}
	if len(parts) == 0 {
		return nil
	}

	basename := o.job.cand.Basename
	for _, v := range unknown {
		n := len(byValue[v])
		res.warn(basename, UnrecognizedTheme, fmt.Sprintf("tema %q matches no catalog theme; %d features left out", v, n))
		metrics.ObserveLayer(metrics.LayerUnrecognized)
		log.Warn("unrecognized tema", map[string]interface{}{
			"basename": basename,
			"tema":     v,
			"features": n,
		})
	}
	if blank > 0 {
		res.warn(basename, UnrecognizedTheme, fmt.Sprintf("%d features without tema left out", blank))
	}

	log.Debug("layer split by tema", map[string]interface{}{
		"basename": basename,
		"themes":   len(parts),
	})
	return parts
}

// newPart applies the theme-dependent steps: multipoint explosion for point
// themes and the marker layer name for points of a polygon theme.
func (p *Processor) newPart(o layerOutcome, th catalog.ThemeDefinition, layer *shapefile.Layer, seq int) layerPart {
	if p.opts.ExplodeMultiPoint && th.Kind == catalog.KindPoint && layer.Kind == geo.KindMultiPoint {
		explode(layer)
	}

	name := th.Name
	if o.job.match.Marker && layer.Kind.IsPoint() && th.Kind == catalog.KindPolygon {
		name += markerSuffix
	}

	return layerPart{
		src:    o,
		theme:  th,
		name:   name,
		layer:  layer,
		bounds: layerBounds(layer),
		seq:    seq,
	}
}
