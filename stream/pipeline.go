package stream

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/tarungka/mapsources/internal/models"
	"golang.org/x/sync/errgroup"
)

// Pipeline is a stream processing pipeline. Stages are connected with
// unbuffered channels so a stage never reads ahead of its consumer.
type Pipeline struct {
	source    Source
	operators []Operator
	sink      Sink
	logger    zerolog.Logger

	received atomic.Uint64 // files read from the source
	emitted  atomic.Uint64 // files handed to the sink
	failed   atomic.Uint64 // operator failures
}

// PipelineStats holds counters for a pipeline run.
type PipelineStats struct {
	Received uint64
	Emitted  uint64
	Failed   uint64
}

// NewPipeline creates a new Pipeline.
func NewPipeline(source Source, sink Sink) *Pipeline {
	return &Pipeline{
		source: source,
		sink:   sink,
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger used for stage events.
func (p *Pipeline) WithLogger(logger zerolog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// AddOperator adds an operator to the pipeline.
func (p *Pipeline) AddOperator(operator Operator) *Pipeline {
	p.operators = append(p.operators, operator)
	return p
}

// Stats returns the counters of the pipeline.
func (p *Pipeline) Stats() PipelineStats {
	return PipelineStats{
		Received: p.received.Load(),
		Emitted:  p.emitted.Load(),
		Failed:   p.failed.Load(),
	}
}

// Run runs the pipeline until the source is exhausted, an operator fails or
// ctx is cancelled. The first error stops every stage and is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	defer func() {
		if err := p.source.Close(); err != nil {
			p.logger.Err(err).Msg("Error when closing the source")
		}
		if err := p.sink.Close(); err != nil {
			p.logger.Err(err).Msg("Error when closing the sink")
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	sourceChan := make(chan *models.File)
	g.Go(func() error {
		defer close(sourceChan)
		return p.source.Read(ctx, sourceChan)
	})

	var in <-chan *models.File = p.count(ctx, g, sourceChan, &p.received)
	for _, operator := range p.operators {
		stageIn, out := in, make(chan *models.File)
		g.Go(func() error {
			defer close(out)
			err := runOperator(ctx, operator, stageIn, out)
			var opErr *OperatorError
			if errors.As(err, &opErr) {
				p.failed.Add(1)
				p.logger.Err(err).Str("operator", operator.ID()).Msg("Operator failed")
			}
			return err
		})
		in = out
	}

	sinkChan := p.count(ctx, g, in, &p.emitted)
	g.Go(func() error {
		return p.sink.Write(ctx, sinkChan)
	})

	return g.Wait()
}

// count forwards in to a new channel, incrementing c for every file.
func (p *Pipeline) count(ctx context.Context, g *errgroup.Group, in <-chan *models.File, c *atomic.Uint64) <-chan *models.File {
	out := make(chan *models.File)
	g.Go(func() error {
		defer close(out)
		return drain(ctx, in, func(file *models.File) error {
			select {
			case out <- file:
				c.Add(1)
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})
	return out
}

// runOperator applies op to every file of in, in order, sending results to out.
func runOperator(ctx context.Context, op Operator, in <-chan *models.File, out chan<- *models.File) error {
	return drain(ctx, in, func(file *models.File) error {
		processed, err := op.Process(ctx, file)
		if err != nil {
			return &OperatorError{Operator: op.ID(), File: file, Err: err}
		}
		select {
		case out <- processed:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// Apply runs op over in on its own goroutine. The returned file channel is
// closed when in is exhausted or processing stops; the error channel then
// yields at most one error and is closed.
func Apply(ctx context.Context, op Operator, in <-chan *models.File) (<-chan *models.File, <-chan error) {
	out := make(chan *models.File)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(out)
		if err := runOperator(ctx, op, in, out); err != nil {
			errc <- err
		}
	}()
	return out, errc
}
