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

	// Keep only features around the municipality of interest
	area := car.Bounds{
		MinLon: -47.20, MinLat: -23.10,
		MaxLon: -46.90, MaxLat: -22.80,
	}

	p := car.NewProcessor(car.WithClip(area))
	res, out, err := p.Process(context.Background(), raw)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d features inside [%.2f,%.2f] to [%.2f,%.2f]\n",
		res.FeaturesTotal, area.MinLon, area.MinLat, area.MaxLon, area.MaxLat)

	if err := os.WriteFile("recorte.zip", out, 0o644); err != nil {
		log.Fatal(err)
	}
}
