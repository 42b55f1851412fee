package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/tarungka/mapsources/internal/models"
)

// JSONSink writes each file as a single line of JSON.
type JSONSink struct {
	name    string
	writer  *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink writes records to w.
func NewJSONSink(name string, w io.Writer) *JSONSink {
	writer := bufio.NewWriter(w)
	return &JSONSink{
		name:    name,
		writer:  writer,
		encoder: json.NewEncoder(writer),
	}
}

// Write encodes files until in is closed. Each record is flushed right away
// so downstream readers see it without waiting for the end of the stream.
func (s *JSONSink) Write(ctx context.Context, in <-chan *models.File) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case file, ok := <-in:
			if !ok {
				log.Debug().Str("sink", s.name).Msg("Input channel closed")
				return nil
			}
			if err := s.encoder.Encode(file); err != nil {
				return fmt.Errorf("error encoding %s to %s: %w", file.Path, s.name, err)
			}
			if err := s.writer.Flush(); err != nil {
				return fmt.Errorf("error flushing %s: %w", s.name, err)
			}
		}
	}
}

func (s *JSONSink) Name() string { return s.name }

func (s *JSONSink) Info() string {
	return fmt.Sprintf("Name:%s|Type:json", s.name)
}

// Close flushes anything still buffered.
func (s *JSONSink) Close() error {
	return s.writer.Flush()
}
