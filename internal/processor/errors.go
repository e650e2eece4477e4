package processor

import "fmt"

// FatalInputError aborts a whole run: the input is not a readable archive,
// exceeds the size cap, or holds no usable shapefile. No output archive is
// produced.
type FatalInputError struct {
	Reason string
	Err    error
}

func (e *FatalInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fatal input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("fatal input: %s", e.Reason)
}

func (e *FatalInputError) Unwrap() error {
	return e.Err
}
