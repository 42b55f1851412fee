package stream

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tarungka/mapsources/internal/models"
)

// Sink is an interface for file sinks.
type Sink interface {
	// Write consumes files from in until it is closed or ctx is done.
	Write(ctx context.Context, in <-chan *models.File) error
	// Close closes the sink.
	Close() error
}

// drain calls fn for every file of in, honoring cancellation.
func drain(ctx context.Context, in <-chan *models.File, fn func(*models.File) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case file, ok := <-in:
			if !ok {
				return nil
			}
			if err := fn(file); err != nil {
				return err
			}
		}
	}
}

// CollectSink keeps every file it receives, in arrival order.
type CollectSink struct {
	mu    sync.Mutex
	files []*models.File
}

// NewCollectSink creates a new CollectSink.
func NewCollectSink() *CollectSink {
	return &CollectSink{}
}

// Write collects the files.
func (s *CollectSink) Write(ctx context.Context, in <-chan *models.File) error {
	return drain(ctx, in, func(file *models.File) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.files = append(s.files, file)
		return nil
	})
}

// Files returns the files collected so far.
func (s *CollectSink) Files() []*models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.File, len(s.files))
	copy(out, s.files)
	return out
}

// Close closes the sink.
func (s *CollectSink) Close() error {
	return nil
}

// LogSink logs every file it receives.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Write logs the files.
func (s *LogSink) Write(ctx context.Context, in <-chan *models.File) error {
	return drain(ctx, in, func(file *models.File) error {
		if file == nil {
			s.logger.Warn().Msg("Sink received a nil file")
			return nil
		}
		event := s.logger.Info().Str("file_id", file.ID.String()).Str("path", file.Path)
		if file.HasSources() {
			event = event.Strs("sources", file.SourceMap.Sources)
		}
		event.Msg("Sink")
		return nil
	})
}

// Close closes the sink.
func (s *LogSink) Close() error {
	return nil
}
