package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/terrabrasil/carkit/pkg/car"
)

func main() {
	raw, err := os.ReadFile("SHAPE_1234567.zip")
	if err != nil {
		log.Fatal(err)
	}

	res, _, err := car.NewProcessor(car.WithSLD(false)).Process(context.Background(), raw)
	if err != nil {
		log.Fatal(err)
	}

	// Count features per group folder
	perGroup := make(map[string]int)
	for _, l := range res.Layers {
		perGroup[l.Group] += l.Features
	}

	groups := make([]string, 0, len(perGroup))
	for g := range perGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, g := range groups {
		fmt.Printf("%-35s %6d\n", g, perGroup[g])
	}

	fmt.Println()
	for _, l := range res.Layers {
		fmt.Printf("%s -> %s (EPSG:%d, %d features)\n", l.Basename, l.Theme, l.SourceEPSG, l.Features)
		if l.Bounds != nil {
			fmt.Printf("    [%.5f,%.5f] to [%.5f,%.5f]\n",
				l.Bounds.MinLon, l.Bounds.MinLat, l.Bounds.MaxLon, l.Bounds.MaxLat)
		}
	}
}
