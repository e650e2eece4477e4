package processor

import (
	"time"

	"github.com/google/uuid"

	"github.com/terrabrasil/carkit/internal/geo"
)

// WarningKind classifies a non-fatal per-layer problem.
type WarningKind string

const (
	// LayerSkipped: the layer is incomplete or unreadable and was left out.
	LayerSkipped WarningKind = "layer_skipped"
	// UnrecognizedTheme: no catalog theme matched; copied unstyled.
	UnrecognizedTheme WarningKind = "unrecognized_theme"
)

// LayerWarning is one entry of Result.Errors.
type LayerWarning struct {
	Basename string      `json:"basename"`
	Kind     WarningKind `json:"kind"`
	Reason   string      `json:"reason"`
}

func (w LayerWarning) String() string {
	return w.Basename + ": " + w.Reason
}

// LayerSummary describes one input layer written to the output.
type LayerSummary struct {
	Basename   string      `json:"basename"`
	Theme      string      `json:"theme"`
	Group      string      `json:"group"`
	Features   int         `json:"features"`
	SourceEPSG int         `json:"source_epsg,omitempty"`
	Bounds     *geo.Bounds `json:"bounds,omitempty"`
}

// Result summarizes one run.
type Result struct {
	ID              uuid.UUID      `json:"id"`
	Receipt         *string        `json:"receipt"`
	ThemesProcessed int            `json:"themes_processed"`
	FeaturesTotal   int            `json:"features_total"`
	GeneratedFiles  []string       `json:"generated_files"`
	Errors          []LayerWarning `json:"errors"`
	Layers          []LayerSummary `json:"layers"`
	Duration        time.Duration  `json:"duration"`
}

// Filename is the name the output archive is delivered under.
func (r *Result) Filename() string {
	if r.Receipt != nil && *r.Receipt != "" {
		return *r.Receipt + "_processado.zip"
	}
	return "CAR_Processado_processado.zip"
}

func (r *Result) warn(basename string, kind WarningKind, reason string) {
	r.Errors = append(r.Errors, LayerWarning{Basename: basename, Kind: kind, Reason: reason})
}
