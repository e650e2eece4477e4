package main

import (
	"fmt"
	"log"
	"os"

	"github.com/terrabrasil/carkit/pkg/car"
)

func main() {
	// Style for a single theme
	doc, err := car.GenerateSLD("Reserva_Legal_Proposta", car.KindPolygon)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("Reserva_Legal_Proposta.sld", doc, 0o644); err != nil {
		log.Fatal(err)
	}

	// Point themes use a circle mark
	doc, err = car.GenerateSLD("Nascente_ou_Olho_dagua_Perene", car.KindPoint)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(doc))

	// One document with a rule per theme
	legend, err := car.Legend()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("legenda.sld", legend, 0o644); err != nil {
		log.Fatal(err)
	}
}
