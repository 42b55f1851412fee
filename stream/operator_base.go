package stream

import (
	"context"

	"github.com/tarungka/mapsources/internal/models"
)

// BaseOperator is a base struct for stream operators.
type BaseOperator struct {
	// The unique identifier of the operator.
	id string
}

// NewBaseOperator creates a new BaseOperator.
func NewBaseOperator(id string) *BaseOperator {
	return &BaseOperator{
		id: id,
	}
}

// ID returns the unique identifier of the operator.
func (o *BaseOperator) ID() string {
	return o.id
}

// Process passes the file through untouched.
func (o *BaseOperator) Process(ctx context.Context, file *models.File) (*models.File, error) {
	return file, nil
}
