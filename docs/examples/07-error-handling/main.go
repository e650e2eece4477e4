package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/terrabrasil/carkit/pkg/car"
)

func process(path string) (*car.Result, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("archive not found: %s", path)
		}
		return nil, nil, err
	}

	res, out, err := car.NewProcessor().ProcessNamed(context.Background(), path, raw)
	if err != nil {
		// Fatal: not a ZIP, or nothing usable inside
		var fatal *car.FatalInputError
		if errors.As(err, &fatal) {
			return nil, nil, fmt.Errorf("%s rejected: %s", path, fatal.Reason)
		}
		return nil, nil, err
	}

	// Per-layer problems never fail the run
	for _, w := range res.Errors {
		switch w.Kind {
		case car.LayerSkipped:
			log.Printf("Skipped %s: %s", w.Basename, w.Reason)
		case car.UnrecognizedTheme:
			log.Printf("Copied %s without style", w.Basename)
		}
	}

	return res, out, nil
}

func main() {
	res, _, err := process("SHAPE_1234567.zip")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	fmt.Printf("Processed %d themes\n", res.ThemesProcessed)

	// A download that returned an HTML error page instead of a ZIP
	if _, _, err := process("pagina_de_erro.html"); err != nil {
		log.Printf("Expected error: %v", err)
	}
}
