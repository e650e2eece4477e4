package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/terrabrasil/carkit/pkg/car"
)

func main() {
	files, err := filepath.Glob("downloads/*.zip")
	if err != nil {
		log.Fatal(err)
	}

	// Processors are safe for concurrent use; one per run is not needed.
	// Each archive already decodes its layers in parallel, so keep the
	// per-archive pool small when many archives run at once.
	p := car.NewProcessor(car.WithWorkers(2))
	svc := car.NewService(car.FileFetcher{Dir: "downloads"}, p, car.FileSink{Dir: "processados"})

	start := time.Now()
	sem := make(chan struct{}, 4)
	var wg sync.WaitGroup

	for _, f := range files {
		code := strings.TrimSuffix(filepath.Base(f), ".zip")

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := svc.Run(context.Background(), code)
			if err != nil {
				log.Printf("%s: %v", code, err)
				return
			}
			fmt.Printf("%s: %d themes in %v\n", code, res.ThemesProcessed, res.Duration)
		}()
	}
	wg.Wait()

	fmt.Printf("Processed %d archives in %v\n", len(files), time.Since(start))
}
