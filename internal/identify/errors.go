package identify

import (
	"fmt"
)

// ArchiveError indicates an archive entry that could not be read
type ArchiveError struct {
	Entry string
	Err   error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive entry %q: %v", e.Entry, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}
