package processor

import (
	"runtime"

	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/sld"
)

// DefaultOtherFolder receives layers that match no catalog theme.
const DefaultOtherFolder = "Outros"

// Options controls one Processor.
type Options struct {
	// IncludeSLD writes a <Theme>.sld next to every styled layer.
	IncludeSLD bool

	// IncludeGeoJSON also writes each styled layer as <Theme>.geojson.
	IncludeGeoJSON bool

	// AssumeCRSWhenMissing treats a layer without .prj as already being in
	// SIRGAS 2000. When false such layers are skipped with a warning.
	AssumeCRSWhenMissing bool

	// ExplodeMultiPoint splits multipoint records of point themes into one
	// record per point.
	ExplodeMultiPoint bool

	// Workers is the number of layers decoded concurrently.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// OtherFolder is the output folder for unrecognized layers.
	OtherFolder string

	// Clip, when set, keeps only features whose envelope intersects it.
	Clip *geo.Bounds

	// SourceName is the input archive file name, searched first for the
	// receipt code. Process uses it; ProcessNamed overrides it per call.
	SourceName string

	// MaxArchiveBytes caps the input archive and every decompressed entry
	// (0: no cap).
	MaxArchiveBytes int64

	// Style tunes the generated SLD documents.
	Style sld.Style
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeSLD:           true,
		AssumeCRSWhenMissing: true,
		ExplodeMultiPoint:    true,
		Workers:              runtime.NumCPU(),
		OtherFolder:          DefaultOtherFolder,
		MaxArchiveBytes:      512 << 20,
		Style:                sld.DefaultStyle(),
	}
}

func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.OtherFolder == "" {
		o.OtherFolder = DefaultOtherFolder
	}
	return o
}
