package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/terrabrasil/carkit/pkg/car"
)

func main() {
	p := car.NewProcessor()

	// Archives previously downloaded from SICAR, named <code>.zip
	fetcher := car.FetcherFunc(func(_ context.Context, code string) ([]byte, error) {
		return os.ReadFile(filepath.Join("downloads", filepath.Base(code)+".zip"))
	})

	http.HandleFunc("/car/{code}", func(w http.ResponseWriter, r *http.Request) {
		svc := car.NewService(fetcher, p, car.HTTPSink{W: w})

		_, err := svc.Run(r.Context(), r.PathValue("code"))
		var fatal *car.FatalInputError
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist):
			http.Error(w, "unknown CAR code", http.StatusNotFound)
		case errors.As(err, &fatal):
			http.Error(w, fatal.Reason, http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	log.Fatal(http.ListenAndServe(":8080", nil))
}
