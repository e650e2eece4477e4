// Package processor turns a raw SICAR archive into an organized, styled one.
//
// A run scans the archive in memory, classifies every shapefile by its
// basename, normalizes matched layers to SIRGAS 2000 and writes them under
// their group folder with a generated SLD. Unrecognized layers are copied
// unstyled to a catch-all folder. Per-layer problems become warnings in the
// Result; only an unusable archive fails the run.
package processor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/terrabrasil/carkit/internal/catalog"
	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/identify"
	"github.com/terrabrasil/carkit/internal/logger"
	"github.com/terrabrasil/carkit/internal/metrics"
	"github.com/terrabrasil/carkit/internal/shapefile"
	"github.com/terrabrasil/carkit/internal/sld"
)

var tracer = otel.Tracer("github.com/terrabrasil/carkit/internal/processor")

// Processor is stateless between runs; one value may serve concurrent
// calls.
type Processor struct {
	cat   *catalog.Catalog
	ident *identify.Identifier
	style *sld.Generator
	opts  Options
	log   logger.Logger
}

// New creates a processor over cat. A nil catalog means catalog.Default()
// and a nil logger discards output.
func New(cat *catalog.Catalog, opts Options, log logger.Logger) *Processor {
	if cat == nil {
		cat = catalog.Default()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	opts = opts.normalized()
	return &Processor{
		cat:   cat,
		ident: identify.New(cat),
		style: sld.NewGenerator(opts.Style),
		opts:  opts,
		log:   log,
	}
}

// Options returns the effective options.
func (p *Processor) Options() Options {
	return p.opts
}

// Process transforms raw archive bytes. On error no archive is returned;
// a *FatalInputError describes unusable input.
func (p *Processor) Process(ctx context.Context, raw []byte) (*Result, []byte, error) {
	return p.ProcessNamed(ctx, p.opts.SourceName, raw)
}

// ProcessNamed is Process with the input archive's file name, used to find
// the receipt code.
func (p *Processor) ProcessNamed(ctx context.Context, sourceName string, raw []byte) (*Result, []byte, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "carproc.Process", trace.WithAttributes(
		attribute.Int("archive.bytes", len(raw)),
		attribute.String("archive.name", sourceName),
	))
	defer span.End()

	res, out, err := p.run(ctx, sourceName, raw)
	elapsed := time.Since(start)

	if err != nil {
		status := metrics.StatusFatal
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = metrics.StatusCancelled
		}
		metrics.ObserveRun(status, elapsed, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.log.WithError(err).Error("archive processing failed", map[string]interface{}{
			"source": sourceName,
			"status": status,
		})
		return nil, nil, err
	}

	res.Duration = elapsed
	metrics.ObserveRun(metrics.StatusOK, elapsed, res.FeaturesTotal)
	span.SetAttributes(
		attribute.Int("result.themes", res.ThemesProcessed),
		attribute.Int("result.features", res.FeaturesTotal),
		attribute.Int("result.warnings", len(res.Errors)),
	)
	p.log.Info("archive processed", map[string]interface{}{
		"run_id":   res.ID.String(),
		"themes":   res.ThemesProcessed,
		"features": res.FeaturesTotal,
		"warnings": len(res.Errors),
		"duration": elapsed.String(),
	})
	return res, out, nil
}

func (p *Processor) run(ctx context.Context, sourceName string, raw []byte) (*Result, []byte, error) {
	if p.opts.MaxArchiveBytes > 0 && int64(len(raw)) > p.opts.MaxArchiveBytes {
		return nil, nil, &FatalInputError{Reason: fmt.Sprintf("archive exceeds %d bytes", p.opts.MaxArchiveBytes)}
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, nil, &FatalInputError{Reason: "not a valid ZIP archive", Err: err}
	}
	inv, err := identify.Scan(zr, identify.ScanOptions{MaxEntryBytes: p.opts.MaxArchiveBytes})
	if err != nil {
		return nil, nil, &FatalInputError{Reason: "unreadable archive entry", Err: err}
	}

	complete := inv.Complete()
	if len(complete) == 0 {
		return nil, nil, &FatalInputError{Reason: "no complete shapefile in archive"}
	}

	res := &Result{
		ID:             uuid.New(),
		GeneratedFiles: []string{},
		Errors:         []LayerWarning{},
		Layers:         []LayerSummary{},
	}
	log := p.log.WithFields(map[string]interface{}{"run_id": res.ID.String()})
	log.Info("processing archive", map[string]interface{}{
		"source":     sourceName,
		"bytes":      len(raw),
		"shapefiles": len(inv.Candidates),
	})

	for _, c := range inv.Incomplete() {
		p.skipLayer(res, log, c.Basename, "missing .dbf")
	}

	jobs := make([]layerJob, len(complete))
	for i, c := range complete {
		jobs[i] = layerJob{order: i, cand: c, match: p.ident.Match(c.Basename)}
	}

	outcomes := runLayers(ctx, jobs, p.opts.Workers, p.decodeLayer)
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("processing cancelled: %w", err)
	}

	parts, unmatched, recognized := p.classify(outcomes, res, log)
	if !recognized {
		return nil, nil, &FatalInputError{Reason: "no recognizable shapefile in archive"}
	}

	sort.SliceStable(parts, func(i, j int) bool {
		a, b := parts[i], parts[j]
		if a.theme.GroupOrder != b.theme.GroupOrder {
			return a.theme.GroupOrder < b.theme.GroupOrder
		}
		if ai, bi := p.cat.Index(a.theme.Name), p.cat.Index(b.theme.Name); ai != bi {
			return ai < bi
		}
		if a.src.job.order != b.src.job.order {
			return a.src.job.order < b.src.job.order
		}
		return a.seq < b.seq
	})

	themes := p.mergeLayers(parts, res, log)
	if len(themes) == 0 {
		return nil, nil, &FatalInputError{Reason: "no valid shapefile in archive", Err: warningsError(res.Errors)}
	}

	decoded := make([]decodedLayer, len(parts))
	for i, part := range parts {
		decoded[i] = decodedLayer{layer: part.layer, charset: part.src.charset, source: part.src.source}
	}
	res.Receipt = findReceipt(sourceName, inv.Companions, inv.EntryNames, decoded)

	var buf bytes.Buffer
	w := &archiveWriter{zw: zip.NewWriter(&buf), res: res}
	for _, tl := range themes {
		if err := p.writeTheme(w, tl, log); err != nil {
			return nil, nil, err
		}
	}
	if res.ThemesProcessed == 0 {
		return nil, nil, &FatalInputError{Reason: "no valid shapefile in archive", Err: warningsError(res.Errors)}
	}
	p.writeUnrecognized(w, unmatched, log)

	if err := w.close(); err != nil {
		return nil, nil, fmt.Errorf("write output archive: %w", err)
	}
	return res, buf.Bytes(), nil
}

func (p *Processor) skipLayer(res *Result, log logger.Logger, basename, reason string) {
	res.warn(basename, LayerSkipped, reason)
	metrics.ObserveLayer(metrics.LayerSkipped)
	log.Warn("layer skipped", map[string]interface{}{
		"basename": basename,
		"reason":   reason,
	})
}

// writeTheme encodes one output layer with its .prj, .cpg, .sld and
// optional .geojson.
func (p *Processor) writeTheme(w *archiveWriter, tl *themeLayer, log logger.Logger) error {
	files, err := shapefile.Encode(tl.layer)
	if err != nil {
		for _, src := range tl.sources {
			p.skipLayer(w.res, log, src.src.job.cand.Basename, fmt.Sprintf("cannot encode layer: %v", err))
		}
		return nil
	}

	base := path.Join(tl.theme.Group, tl.name)
	w.add(base+identify.ExtSHP, files.SHP)
	w.add(base+identify.ExtSHX, files.SHX)
	w.add(base+identify.ExtDBF, files.DBF)
	w.add(base+identify.ExtPRJ, geo.TargetPRJ())
	if len(tl.cpg) > 0 {
		w.add(base+identify.ExtCPG, tl.cpg)
	}

	if p.opts.IncludeSLD {
		doc, err := p.style.Generate(styleRequest(tl.theme, tl.layer.Kind))
		if err != nil {
			return fmt.Errorf("style theme %s: %w", tl.theme.Name, err)
		}
		w.add(base+".sld", doc)
	}

	if p.opts.IncludeGeoJSON {
		doc, err := shapefile.ToGeoJSON(tl.layer, tl.charset)
		if err != nil {
			return fmt.Errorf("geojson for theme %s: %w", tl.theme.Name, err)
		}
		w.add(base+".geojson", doc)
	}

	w.res.ThemesProcessed++
	w.res.FeaturesTotal += len(tl.layer.Features)
	for _, src := range tl.sources {
		bounds := src.bounds
		w.res.Layers = append(w.res.Layers, LayerSummary{
			Basename:   src.src.job.cand.Basename,
			Theme:      tl.theme.Name,
			Group:      tl.theme.Group,
			Features:   len(src.layer.Features),
			SourceEPSG: src.src.source.EPSG,
			Bounds:     &bounds,
		})
		metrics.ObserveLayer(metrics.LayerProcessed)
	}
	return nil
}

// writeUnrecognized copies unmatched layers byte for byte into the other
// folder, ordered by basename.
func (p *Processor) writeUnrecognized(w *archiveWriter, cands []*identify.Candidate, log logger.Logger) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Basename < cands[j].Basename
	})

	used := make(map[string]int)
	for _, c := range cands {
		name := c.Basename
		key := strings.ToLower(name)
		used[key]++
		if n := used[key]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}

		for _, ext := range identify.PartExtensions {
			if data, ok := c.Parts[ext]; ok {
				w.add(path.Join(p.opts.OtherFolder, name+ext), data)
			}
		}

		w.res.warn(c.Basename, UnrecognizedTheme, "no catalog theme matches; copied unstyled to "+p.opts.OtherFolder)
		metrics.ObserveLayer(metrics.LayerUnrecognized)
		log.Warn("unrecognized theme", map[string]interface{}{
			"basename": c.Basename,
			"path":     c.Path,
		})
	}
}

// styleRequest picks the symbolizer from the geometry actually present:
// point layers of polygon themes get point styling and lines are drawn
// as unfilled polygons.
func styleRequest(theme catalog.ThemeDefinition, kind geo.Kind) sld.Request {
	switch {
	case kind.IsPoint():
		return sld.ForTheme(theme, catalog.KindPoint)
	case kind == geo.KindLine:
		req := sld.ForTheme(theme, catalog.KindPolygon)
		req.Fill = nil
		return req
	default:
		return sld.ForTheme(theme, catalog.KindPolygon)
	}
}

func warningsError(ws []LayerWarning) error {
	if len(ws) == 0 {
		return nil
	}
	msgs := make([]string, len(ws))
	for i, w := range ws {
		msgs[i] = w.String()
	}
	return errors.New(strings.Join(msgs, "; "))
}
