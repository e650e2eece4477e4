package processor

import (
	"bytes"
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/identify"
	"github.com/terrabrasil/carkit/internal/shapefile"
)

// layerJob is one complete shapefile and what its basename says about it.
type layerJob struct {
	order int // position among the archive's candidates
	cand  *identify.Candidate
	match identify.Match
}

// named reports whether the basename alone ties the layer to the catalog,
// as a theme or as a group layer.
func (j layerJob) named() bool {
	return j.match.Theme != nil || j.match.Group != ""
}

func (j layerJob) label() string {
	if j.match.Theme != nil {
		return j.match.Theme.Name
	}
	return j.match.Group
}

// decodedLayer is a layer normalized to the target CRS.
type decodedLayer struct {
	layer   *shapefile.Layer
	charset shapefile.Charset
	source  geo.CRS
}

type layerOutcome struct {
	job layerJob
	decodedLayer
	skip string // non-empty: the layer was left out for this reason
	err  error  // cancellation
}

func (o layerOutcome) ok() bool {
	return o.err == nil && o.skip == ""
}

// decodeLayer runs the theme-independent part of the per-layer pipeline.
//
// The steps, in order:
//
//  1. Decode the .shp/.dbf pair. Null and empty shapes are dropped, as are
//     rows flagged deleted in the table.
//  2. Read the source CRS from the .prj. A missing .prj means SIRGAS 2000
//     when Options.AssumeCRSWhenMissing is set.
//  3. Reproject every vertex to SIRGAS 2000 geographic coordinates.
//  4. Keep only the features whose envelope meets Options.Clip, if set.
//
// Theme-dependent steps (tema split, multipoint explosion, output naming)
// happen afterwards in classify, once the attribute table is known.
//
// Problems are reported as a skip reason, never as an error, so one bad
// layer never stops the archive:
//
//	out := p.decodeLayer(ctx, job)
//	switch {
//	case out.err != nil:  // ctx cancelled before the job started
//	case out.skip != "": // e.g. "missing .prj", "unreadable geometry: ..."
//	default:             // out.layer is in SIRGAS 2000 degrees
//	}
//
// decodeLayer only reads the job and the processor's immutable state and
// is called concurrently from runLayers.
func (p *Processor) decodeLayer(ctx context.Context, job layerJob) layerOutcome {
	_, span := tracer.Start(ctx, "carproc.layer", trace.WithAttributes(
		attribute.String("layer.basename", job.cand.Basename),
		attribute.String("layer.theme", job.label()),
	))
	defer span.End()

	out := layerOutcome{job: job}
	skip := func(format string, args ...interface{}) layerOutcome {
		out.skip = fmt.Sprintf(format, args...)
		span.SetStatus(codes.Error, out.skip)
		return out
	}

	layer, err := shapefile.Decode(job.cand.Parts[identify.ExtSHP], job.cand.Parts[identify.ExtDBF])
	if err != nil {
		return skip("unreadable geometry: %v", err)
	}
	if len(layer.Features) == 0 {
		return skip("layer has no geometry")
	}

	source, err := p.sourceCRS(job.cand)
	if err != nil {
		return skip("%v", err)
	}

	t, err := geo.NewTransformer(source, geo.Target())
	if err != nil {
		return skip("%v", err)
	}
	for i := range layer.Features {
		g, err := t.Geometry(layer.Features[i].Geometry)
		if err != nil {
			return skip("cannot reproject from %s: %v", source, err)
		}
		layer.Features[i].Geometry = g
	}
	if !t.Identity() {
		p.log.Debug("layer reprojected", map[string]interface{}{
			"basename": job.cand.Basename,
			"from":     source.String(),
			"to":       geo.Target().String(),
		})
	}

	if p.opts.Clip != nil {
		keep := geo.FilterByBounds(layer.Geometries(), *p.opts.Clip)
		if len(keep) == 0 {
			return skip("no feature intersects %s", p.opts.Clip)
		}
		features := make([]shapefile.Feature, len(keep))
		for i, k := range keep {
			features[i] = layer.Features[k]
		}
		layer.Features = features
	}

	span.SetAttributes(attribute.Int("layer.features", len(layer.Features)))

	out.layer = layer
	out.charset = shapefile.CharsetFromCPG(job.cand.Parts[identify.ExtCPG])
	out.source = source
	return out
}

// sourceCRS reads the layer's .prj. A missing or blank .prj means the
// target CRS when AssumeCRSWhenMissing is set; any other definition must
// be one geo.ParsePRJ recognizes, such as
//
//	PROJCS["SIRGAS_2000_UTM_Zone_23S", ... PROJECTION["Transverse_Mercator"], ...]
//	GEOGCS["SAD69", DATUM["South_American_Datum_1969", ...], ...]
func (p *Processor) sourceCRS(c *identify.Candidate) (geo.CRS, error) {
	prj := bytes.TrimSpace(c.Parts[identify.ExtPRJ])
	if len(prj) == 0 {
		if !p.opts.AssumeCRSWhenMissing {
			return geo.CRS{}, fmt.Errorf("missing .prj")
		}
		return geo.Target(), nil
	}

	crs, err := geo.ParsePRJ(prj)
	if err != nil {
		return geo.CRS{}, fmt.Errorf("unsupported coordinate reference system: %w", err)
	}
	return crs, nil
}

// explode turns a multipoint layer into a point layer, repeating the
// attributes of a record for each of its points:
//
//	MULTIPOINT((-45.60 -23.10), (-45.59 -23.10))  TIPO=perene
//	  -> POINT(-45.60 -23.10)  TIPO=perene
//	     POINT(-45.59 -23.10)  TIPO=perene
func explode(layer *shapefile.Layer) {
	var features []shapefile.Feature
	for _, f := range layer.Features {
		for _, g := range f.Geometry.Explode() {
			features = append(features, shapefile.Feature{Geometry: g, Attributes: f.Attributes})
		}
	}
	layer.Features = features
	layer.Kind = geo.KindPoint
}

func layerBounds(layer *shapefile.Layer) geo.Bounds {
	var b geo.Bounds
	for i, f := range layer.Features {
		if i == 0 {
			b = f.Geometry.Bounds()
			continue
		}
		b = b.Union(f.Geometry.Bounds())
	}
	return b
}
