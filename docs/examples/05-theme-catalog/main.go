package main

import (
	"fmt"
	"log"

	"github.com/terrabrasil/carkit/pkg/car"
)

func main() {
	cat := car.DefaultCatalog()

	for _, group := range cat.Groups() {
		themes, err := cat.ThemesInGroup(group)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%s (%d themes)\n", group, len(themes))
		for _, t := range themes {
			fill := "outline only"
			if t.HasFill() {
				fill = string(*t.Fill)
			}
			fmt.Printf("  %-55s %-7s %s\n", t.Name, t.Kind, fill)
		}
	}

	// How SICAR file names are recognized
	names := []string{"AREA_IMOVEL_1", "APP_TOTAL", "MARCADORES_Area_de_Preservacao_Permanente", "hidrografia_extra"}
	for _, m := range car.Identify(names...) {
		switch {
		case m.Matched():
			fmt.Printf("%s -> %s/%s\n", m.Basename, m.Theme.Group, m.Theme.Name)
		case m.Group != "":
			fmt.Printf("%s -> group %s, split by its tema column\n", m.Basename, m.Group)
		default:
			fmt.Printf("%s -> unrecognized\n", m.Basename)
		}
	}
}
