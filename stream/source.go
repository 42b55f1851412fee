package stream

import (
	"context"

	"github.com/tarungka/mapsources/internal/models"
)

// Source is an interface for file sources.
type Source interface {
	// Read sends files on out until the source is exhausted or ctx is done.
	// The caller owns out and closes it after Read returns.
	Read(ctx context.Context, out chan<- *models.File) error
	// Close closes the source.
	Close() error
}

// SliceSource emits a fixed list of files in order.
type SliceSource struct {
	files []*models.File
}

// NewSliceSource creates a new SliceSource.
func NewSliceSource(files ...*models.File) *SliceSource {
	return &SliceSource{
		files: files,
	}
}

// Read sends every file, stopping early when ctx is cancelled.
func (s *SliceSource) Read(ctx context.Context, out chan<- *models.File) error {
	for _, file := range s.files {
		select {
		case out <- file:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close closes the source.
func (s *SliceSource) Close() error {
	return nil
}
