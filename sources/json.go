package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/tarungka/mapsources/internal/models"
)

// JSONSource decodes a stream of JSON file records, one value after the other.
type JSONSource struct {
	name    string
	decoder *json.Decoder
	closer  io.Closer
}

// NewJSONSource reads records from r. If r is an io.Closer it is closed by Close.
func NewJSONSource(name string, r io.Reader) *JSONSource {
	s := &JSONSource{
		name:    name,
		decoder: json.NewDecoder(r),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Read decodes records and sends them on out until EOF or cancellation.
func (s *JSONSource) Read(ctx context.Context, out chan<- *models.File) error {
	for n := 0; ; n++ {
		file := &models.File{}
		if err := s.decoder.Decode(file); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().Str("source", s.name).Int("records", n).Msg("Reached end of input")
				return nil
			}
			return fmt.Errorf("error decoding record %d from %s: %w", n, s.name, err)
		}
		if err := file.EnsureID(); err != nil {
			return err
		}
		log.Trace().Str("source", s.name).Str("file_id", file.ID.String()).Str("path", file.Path).Msg("Decoded record")

		select {
		case out <- file:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *JSONSource) Name() string { return s.name }

func (s *JSONSource) Info() string {
	return fmt.Sprintf("Name:%s|Type:json", s.name)
}

// Close closes the underlying reader when it is closable.
func (s *JSONSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
