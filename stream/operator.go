package stream

import (
	"context"

	"github.com/tarungka/mapsources/internal/models"
)

// Operator is the base interface for all stream operators. An operator
// receives exactly one file and returns exactly one file or an error.
type Operator interface {
	// ID returns the unique identifier of the operator.
	ID() string
	// Process processes a file and returns the processed file.
	Process(ctx context.Context, file *models.File) (*models.File, error)
}
