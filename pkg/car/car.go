package car

import (
	"context"

	"github.com/terrabrasil/carkit/internal/catalog"
	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/identify"
	"github.com/terrabrasil/carkit/internal/logger"
	"github.com/terrabrasil/carkit/internal/processor"
	"github.com/terrabrasil/carkit/internal/sld"
)

type (
	Result          = processor.Result
	LayerWarning    = processor.LayerWarning
	LayerSummary    = processor.LayerSummary
	WarningKind     = processor.WarningKind
	FatalInputError = processor.FatalInputError
	Options         = processor.Options

	Catalog         = catalog.Catalog
	ThemeDefinition = catalog.ThemeDefinition
	GeometryKind    = catalog.GeometryKind
	Color           = catalog.Color

	Bounds = geo.Bounds
	Style  = sld.Style
	Match  = identify.Match
	Logger = logger.Logger
)

const (
	KindPolygon = catalog.KindPolygon
	KindPoint   = catalog.KindPoint

	LayerSkipped      = processor.LayerSkipped
	UnrecognizedTheme = processor.UnrecognizedTheme
)

// Processor transforms raw SICAR archives.
type Processor interface {
	// Process organizes raw archive bytes. Errors are fatal: no archive is
	// returned. Per-layer problems are listed in Result.Errors instead.
	Process(ctx context.Context, raw []byte) (*Result, []byte, error)

	// ProcessNamed is Process with the archive's file name, searched for
	// the CAR receipt code.
	ProcessNamed(ctx context.Context, name string, raw []byte) (*Result, []byte, error)
}

// Option configures NewProcessor.
type Option func(*config)

type config struct {
	cat  *catalog.Catalog
	opts processor.Options
	log  logger.Logger
}

// WithOptions replaces all processing options.
func WithOptions(opts Options) Option {
	return func(c *config) { c.opts = opts }
}

// WithCatalog processes against a custom theme catalog.
func WithCatalog(cat *Catalog) Option {
	return func(c *config) { c.cat = cat }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(c *config) { c.log = l }
}

// WithSLD toggles the .sld written next to every styled layer.
func WithSLD(include bool) Option {
	return func(c *config) { c.opts.IncludeSLD = include }
}

// WithGeoJSON toggles an additional .geojson per styled layer.
func WithGeoJSON(include bool) Option {
	return func(c *config) { c.opts.IncludeGeoJSON = include }
}

// WithClip keeps only features whose envelope intersects b.
func WithClip(b Bounds) Option {
	return func(c *config) { c.opts.Clip = &b }
}

// WithWorkers sets how many layers are decoded concurrently.
func WithWorkers(n int) Option {
	return func(c *config) { c.opts.Workers = n }
}

// WithStyle tunes the generated SLD documents.
func WithStyle(s Style) Option {
	return func(c *config) { c.opts.Style = s }
}

// NewProcessor creates a Processor with DefaultOptions and the built-in
// catalog, modified by opts.
func NewProcessor(opts ...Option) Processor {
	c := &config{opts: processor.DefaultOptions()}
	for _, o := range opts {
		o(c)
	}
	return processor.New(c.cat, c.opts, c.log)
}

// DefaultOptions returns the default processing options.
func DefaultOptions() Options {
	return processor.DefaultOptions()
}

// DefaultCatalog returns the built-in CAR theme catalog.
func DefaultCatalog() *Catalog {
	return catalog.Default()
}

// Identify classifies shapefile basenames against the built-in catalog.
func Identify(basenames ...string) []Match {
	return identify.New(catalog.Default()).Identify(basenames)
}

// GenerateSLD renders the default style of a catalog theme drawn as kind.
func GenerateSLD(theme string, kind GeometryKind) ([]byte, error) {
	def, err := catalog.Default().Lookup(theme)
	if err != nil {
		return nil, err
	}
	return sld.Generate(sld.ForTheme(def, kind))
}

// Legend renders one SLD document with a rule per catalog theme.
func Legend() ([]byte, error) {
	return sld.Legend(catalog.Default())
}
