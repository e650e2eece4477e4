package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/sld"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "carproc", cfg.App.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Processing.IncludeSLD)
	assert.True(t, cfg.Processing.AssumeCRSWhenMissing)
	assert.Equal(t, "Outros", cfg.Processing.OtherFolder)
	assert.Equal(t, int64(512), cfg.Processing.MaxArchiveMB)
	assert.Equal(t, sld.DefaultStyle(), cfg.SLDStyle())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
processing:
  include_sld: false
  workers: 2
  clip_bbox: "-48,-16,-47,-15"
style:
  point_size: 3
`)
	t.Setenv("CARPROC_PROCESSING_WORKERS", "5")
	t.Setenv("CARPROC_METRICS_LISTEN", ":9102")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Processing.IncludeSLD)
	assert.Equal(t, 5, cfg.Processing.Workers)
	assert.Equal(t, ":9102", cfg.Metrics.Listen)
	assert.Equal(t, 3.0, cfg.Style.PointSize)
	assert.Equal(t, 0.8, cfg.Style.PolygonStrokeWidth)

	opts, err := cfg.ProcessorOptions()
	require.NoError(t, err)
	assert.False(t, opts.IncludeSLD)
	assert.True(t, opts.ExplodeMultiPoint)
	assert.Equal(t, 5, opts.Workers)
	assert.Equal(t, int64(512<<20), opts.MaxArchiveBytes)
	require.NotNil(t, opts.Clip)
	assert.Equal(t, geo.Bounds{MinLon: -48, MinLat: -16, MaxLon: -47, MaxLat: -15}, *opts.Clip)
	assert.Equal(t, 3.0, opts.Style.PointSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", "logging:\n  level: loud\n"},
		{"log format", "logging:\n  format: xml\n"},
		{"workers", "processing:\n  workers: -1\n"},
		{"other folder", "processing:\n  other_folder: a/b\n"},
		{"clip bbox", "processing:\n  clip_bbox: \"1,2,3\"\n"},
		{"opacity", "style:\n  fill_opacity: 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestProcessorOptionsWithoutClip(t *testing.T) {
	cfg := &Config{Processing: ProcessingConfig{Workers: 1, MaxArchiveMB: 1}}
	opts, err := cfg.ProcessorOptions()
	require.NoError(t, err)
	assert.Nil(t, opts.Clip)
	assert.Equal(t, int64(1<<20), opts.MaxArchiveBytes)
}
