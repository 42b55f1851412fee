package stream

import (
	"context"

	"github.com/tarungka/mapsources/internal/models"
)

// MapFunction is a function that maps a file to another file.
type MapFunction func(file *models.File) (*models.File, error)

// MapOperator is an operator that applies a function to each file in the stream.
type MapOperator struct {
	BaseOperator
	mapFn MapFunction
}

// NewMapOperator creates a new MapOperator.
func NewMapOperator(id string, mapFn MapFunction) *MapOperator {
	return &MapOperator{
		BaseOperator: *NewBaseOperator(id),
		mapFn:        mapFn,
	}
}

// Process processes a file.
func (o *MapOperator) Process(ctx context.Context, file *models.File) (*models.File, error) {
	return o.mapFn(file)
}
