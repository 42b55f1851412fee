// Package mapsources rewrites the sources list of the source map attached to
// each file of a stream.
//
// Every entry of sourceMap.sources is passed through a MapFunc together with
// the owning file, and the result is stored back at the same index with
// backslashes turned into forward slashes. Files without a source map, or
// whose map has no sources, pass through untouched.
package mapsources

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tarungka/mapsources/internal/models"
	"github.com/tarungka/mapsources/stream"
)

// OperatorID identifies the rewriter inside a stream.Pipeline.
const OperatorID = "map-sources"

// MapFunc returns the replacement for a single source path of file.
type MapFunc func(sourcePath string, file *models.File) (string, error)

// Rewriter is the stream operator that rewrites source map sources.
type Rewriter struct {
	stream.BaseOperator
	mapFn    MapFunc // nil means identity
	logger   zerolog.Logger
	observer Observer
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMapFunc sets the function applied to each source path. A nil function
// leaves the identity in place.
func WithMapFunc(fn MapFunc) Option {
	return func(r *Rewriter) {
		r.mapFn = fn
	}
}

// WithLogger sets the logger used for per file events.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Rewriter) {
		r.logger = logger
	}
}

// WithObserver sets the observer notified of every outcome.
func WithObserver(observer Observer) Option {
	return func(r *Rewriter) {
		r.observer = observer
	}
}

// New creates a Rewriter.
func New(opts ...Option) *Rewriter {
	r := &Rewriter{
		BaseOperator: *stream.NewBaseOperator(OperatorID),
		logger:       zerolog.Nop(),
		observer:     nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.observer == nil {
		r.observer = nopObserver{}
	}
	return r
}

// Normalize converts every backslash of p to a forward slash.
func Normalize(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Process rewrites the sources of file in place and returns it. When the map
// function fails on any entry the file is left as it was and a *MappingError
// is returned instead.
func (r *Rewriter) Process(ctx context.Context, file *models.File) (*models.File, error) {
	if file == nil || file.SourceMap == nil {
		r.observer.FileSkipped(SkipNoSourceMap)
		return file, nil
	}
	sources := file.SourceMap.Sources
	if sources == nil {
		r.observer.FileSkipped(SkipNoSources)
		return file, nil
	}

	rewritten := make([]string, len(sources))
	for i, sourcePath := range sources {
		raw, err := r.apply(sourcePath, file)
		if err != nil {
			r.observer.FileFailed()
			return nil, &MappingError{Index: i, Source: sourcePath, Path: file.Path, Err: err}
		}
		rewritten[i] = Normalize(raw)
		r.logger.Trace().Str("file_id", file.ID.String()).Str("from", sourcePath).Str("to", rewritten[i]).Msg("Rewrote source")
	}
	copy(sources, rewritten)

	r.observer.FileRewritten(len(sources))
	r.logger.Debug().Str("file_id", file.ID.String()).Str("path", file.Path).Int("sources", len(sources)).Msg("Rewrote source map sources")
	return file, nil
}

// apply calls the map function, turning a panic into an error.
func (r *Rewriter) apply(sourcePath string, file *models.File) (raw string, err error) {
	if r.mapFn == nil {
		return sourcePath, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrMapFuncPanic, rec)
		}
	}()
	return r.mapFn(sourcePath, file)
}

// Transform is the channel form of the rewriter. See stream.Apply.
func (r *Rewriter) Transform(ctx context.Context, in <-chan *models.File) (<-chan *models.File, <-chan error) {
	return stream.Apply(ctx, r, in)
}

var _ stream.Operator = (*Rewriter)(nil)
