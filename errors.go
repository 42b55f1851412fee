package mapsources

import (
	"errors"
	"fmt"
)

// ErrMapFuncPanic is wrapped by a MappingError when the map function panicked.
var ErrMapFuncPanic = errors.New("map function panicked")

// MappingError reports a failure of the map function on one source entry.
type MappingError struct {
	Index  int    // position of the entry in sources
	Source string // the entry passed to the map function
	Path   string // path of the file being rewritten
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("error mapping source %d (%q) of %s: %v", e.Index, e.Source, e.Path, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
