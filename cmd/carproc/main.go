// Command carproc organizes a raw SICAR archive from disk.
//
//	carproc -in SP-3550308-XXXX.zip -out ./saida
//	carproc -in car.zip -geojson -bbox -47.2,-23.1,-46.9,-22.8
//	carproc -legend legenda.sld
//
// The processed archive is written to -out and the run summary is printed
// to stdout as JSON. Settings come from configs/config.yaml, .env and
// CARPROC_* variables; flags override them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/terrabrasil/carkit/internal/config"
	"github.com/terrabrasil/carkit/internal/geo"
	"github.com/terrabrasil/carkit/internal/logger"
	"github.com/terrabrasil/carkit/internal/metrics"
	"github.com/terrabrasil/carkit/pkg/car"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "config file (default: search ./configs and .)")
		in         = flag.String("in", "", "raw SICAR ZIP archive")
		out        = flag.String("out", ".", "directory for the processed archive")
		noSLD      = flag.Bool("no-sld", false, "do not write .sld styles")
		withJSON   = flag.Bool("geojson", false, "also write a .geojson per layer")
		bbox       = flag.String("bbox", "", "keep only features inside minLon,minLat,maxLon,maxLat")
		workers    = flag.Int("workers", 0, "layers decoded concurrently (0: config value)")
		legend     = flag.String("legend", "", "write the catalog legend SLD to this file and exit")
	)
	flag.Parse()

	if *legend != "" {
		return writeLegend(*legend)
	}
	if *in == "" {
		fmt.Fprintln(os.Stderr, "carproc: -in is required")
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "carproc: %v\n", err)
		return 1
	}

	log, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "carproc: %v\n", err)
		return 1
	}
	log = log.WithFields(map[string]interface{}{"app": cfg.App.Name, "env": cfg.App.Environment})

	opts, err := cfg.ProcessorOptions()
	if err != nil {
		log.Error("invalid processing options", map[string]interface{}{"error": err.Error()})
		return 1
	}
	if *noSLD {
		opts.IncludeSLD = false
	}
	if *withJSON {
		opts.IncludeGeoJSON = true
	}
	if *workers > 0 {
		opts.Workers = *workers
	}
	if *bbox != "" {
		b, err := geo.ParseBounds(*bbox)
		if err != nil {
			log.Error("invalid -bbox", map[string]interface{}{"error": err.Error()})
			return 2
		}
		opts.Clip = &b
	}

	if cfg.Metrics.Listen != "" {
		serveMetrics(cfg.Metrics.Listen, cfg.Metrics.Path, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := *in
	fetch := car.FetcherFunc(func(context.Context, string) ([]byte, error) {
		return os.ReadFile(source)
	})
	code := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	p := car.NewProcessor(car.WithOptions(opts), car.WithLogger(log))

	res, err := car.NewService(fetch, p, car.FileSink{Dir: *out}).Run(ctx, code)
	if err != nil {
		var fatal *car.FatalInputError
		if errors.As(err, &fatal) {
			log.Error("archive rejected", map[string]interface{}{"reason": fatal.Reason, "source": source})
		} else {
			log.Error("processing failed", map[string]interface{}{"error": err.Error(), "source": source})
		}
		return 1
	}

	log.Info("archive written", map[string]interface{}{
		"path":     filepath.Join(*out, res.Filename()),
		"themes":   res.ThemesProcessed,
		"features": res.FeaturesTotal,
		"warnings": len(res.Errors),
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Error("write summary", map[string]interface{}{"error": err.Error()})
		return 1
	}
	return 0
}

func writeLegend(path string) int {
	doc, err := car.Legend()
	if err == nil {
		err = os.WriteFile(path, doc, 0o644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "carproc: legend: %v\n", err)
		return 1
	}
	return 0
}

func serveMetrics(addr, path string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("serving metrics", map[string]interface{}{"addr": addr, "path": path})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()
}
