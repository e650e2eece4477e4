package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/logger"
)

// EnvPrefix prefixes every environment override, e.g.
// CARPROC_PROCESSING_WORKERS=4.
const EnvPrefix = "CARPROC"

// Load reads the configuration. An empty path searches ./configs and the
// working directory for config.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads .env from the working directory when present. Variables
// already set in the environment win.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "carproc")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("processing.include_sld", true)
	v.SetDefault("processing.include_geojson", false)
	v.SetDefault("processing.assume_crs_when_missing", true)
	v.SetDefault("processing.explode_multipoint", true)
	v.SetDefault("processing.workers", 0)
	v.SetDefault("processing.other_folder", "Outros")
	v.SetDefault("processing.max_archive_mb", 512)
	v.SetDefault("processing.clip_bbox", "")

	v.SetDefault("style.polygon_stroke_width", 0.8)
	v.SetDefault("style.fill_opacity", 0.7)
	v.SetDefault("style.point_size", 6)
	v.SetDefault("style.point_stroke_width", 1.5)

	v.SetDefault("metrics.listen", "")
	v.SetDefault("metrics.path", "/metrics")
}

// applyDefaults fills values a config file may have blanked out.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "carproc"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Processing.OtherFolder == "" {
		cfg.Processing.OtherFolder = "Outros"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validateConfig(cfg *Config) error {
	if _, err := logger.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: must be json or console, got %q", cfg.Logging.Format)
	}

	if cfg.Processing.Workers < 0 {
		return fmt.Errorf("processing.workers: must not be negative")
	}
	if cfg.Processing.MaxArchiveMB < 0 {
		return fmt.Errorf("processing.max_archive_mb: must not be negative")
	}
	if strings.ContainsAny(cfg.Processing.OtherFolder, `/\`) {
		return fmt.Errorf("processing.other_folder: must be a single folder name")
	}
	if bbox := strings.TrimSpace(cfg.Processing.ClipBBox); bbox != "" {
		if _, err := geo.ParseBounds(bbox); err != nil {
			return fmt.Errorf("processing.clip_bbox: %w", err)
		}
	}

	s := cfg.Style
	if s.PolygonStrokeWidth < 0 || s.PointSize < 0 || s.PointStrokeWidth < 0 {
		return fmt.Errorf("style: widths and sizes must not be negative")
	}
	if s.FillOpacity < 0 || s.FillOpacity > 1 {
		return fmt.Errorf("style.fill_opacity: must be within [0,1]")
	}
	return nil
}
