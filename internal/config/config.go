// Package config loads carproc settings from a YAML file, a .env file and
// CARPROC_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/processor"
	"github.com/terrabrasil/carkit/internal/sld"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Style      StyleConfig      `mapstructure:"style"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// ProcessingConfig maps onto processor.Options.
type ProcessingConfig struct {
	IncludeSLD           bool   `mapstructure:"include_sld"`
	IncludeGeoJSON       bool   `mapstructure:"include_geojson"`
	AssumeCRSWhenMissing bool   `mapstructure:"assume_crs_when_missing"`
	ExplodeMultiPoint    bool   `mapstructure:"explode_multipoint"`
	Workers              int    `mapstructure:"workers"`
	OtherFolder          string `mapstructure:"other_folder"`
	MaxArchiveMB         int64  `mapstructure:"max_archive_mb"`
	ClipBBox             string `mapstructure:"clip_bbox"` // minLon,minLat,maxLon,maxLat
}

// StyleConfig maps onto sld.Style.
type StyleConfig struct {
	PolygonStrokeWidth float64 `mapstructure:"polygon_stroke_width"`
	FillOpacity        float64 `mapstructure:"fill_opacity"`
	PointSize          float64 `mapstructure:"point_size"`
	PointStrokeWidth   float64 `mapstructure:"point_stroke_width"`
}

type MetricsConfig struct {
	Listen string `mapstructure:"listen"` // empty disables the /metrics endpoint
	Path   string `mapstructure:"path"`
}

// SLDStyle returns the configured symbolizer style.
func (c *Config) SLDStyle() sld.Style {
	return sld.Style{
		PolygonStrokeWidth: c.Style.PolygonStrokeWidth,
		FillOpacity:        c.Style.FillOpacity,
		PointSize:          c.Style.PointSize,
		PointStrokeWidth:   c.Style.PointStrokeWidth,
	}
}

// ProcessorOptions returns the processor options described by the config.
func (c *Config) ProcessorOptions() (processor.Options, error) {
	opts := processor.Options{
		IncludeSLD:           c.Processing.IncludeSLD,
		IncludeGeoJSON:       c.Processing.IncludeGeoJSON,
		AssumeCRSWhenMissing: c.Processing.AssumeCRSWhenMissing,
		ExplodeMultiPoint:    c.Processing.ExplodeMultiPoint,
		Workers:              c.Processing.Workers,
		OtherFolder:          c.Processing.OtherFolder,
		MaxArchiveBytes:      c.Processing.MaxArchiveMB << 20,
		Style:                c.SLDStyle(),
	}

	if bbox := strings.TrimSpace(c.Processing.ClipBBox); bbox != "" {
		b, err := geo.ParseBounds(bbox)
		if err != nil {
			return processor.Options{}, fmt.Errorf("processing.clip_bbox: %w", err)
		}
		opts.Clip = &b
	}
	return opts, nil
}
