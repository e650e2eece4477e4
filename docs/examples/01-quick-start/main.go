package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/terrabrasil/carkit/pkg/car"
)

func main() {
	raw, err := os.ReadFile("SHAPE_1234567.zip")
	if err != nil {
		log.Fatal(err)
	}

	// Create processor
	p := car.NewProcessor()

	res, out, err := p.ProcessNamed(context.Background(), "SHAPE_1234567.zip", raw)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Themes: %d\n", res.ThemesProcessed)
	fmt.Printf("Features: %d\n", res.FeaturesTotal)
	for _, w := range res.Errors {
		fmt.Printf("Warning: %s\n", w)
	}

	if err := os.WriteFile(res.Filename(), out, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Written: %s\n", res.Filename())
}
