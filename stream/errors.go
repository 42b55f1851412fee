package stream

import (
	"fmt"

	"github.com/tarungka/mapsources/internal/models"
)

// OperatorError is returned by a pipeline when an operator fails on a file.
// The file is not forwarded downstream.
type OperatorError struct {
	Operator string
	File     *models.File
	Err      error
}

func (e *OperatorError) Error() string {
	if e.File == nil {
		return fmt.Sprintf("operator %s failed: %v", e.Operator, e.Err)
	}
	return fmt.Sprintf("operator %s failed on %s: %v", e.Operator, e.File.Path, e.Err)
}

func (e *OperatorError) Unwrap() error {
	return e.Err
}
