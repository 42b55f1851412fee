package mapsources

import "github.com/tarungka/mapsources/internal/models"

// FromValue creates a Rewriter from a loosely typed candidate map function.
// Values that cannot be called as a map function, nil included, are ignored
// and the rewriter falls back to identity plus separator normalization.
func FromValue(v any, opts ...Option) *Rewriter {
	return New(append([]Option{WithMapFunc(AsMapFunc(v))}, opts...)...)
}

// AsMapFunc adapts the supported function shapes to a MapFunc. It returns
// nil for anything else.
func AsMapFunc(v any) MapFunc {
	switch fn := v.(type) {
	case MapFunc:
		return fn
	case func(string, *models.File) (string, error):
		return fn
	case func(string, *models.File) string:
		if fn == nil {
			return nil
		}
		return func(sourcePath string, file *models.File) (string, error) {
			return fn(sourcePath, file), nil
		}
	case func(string) (string, error):
		if fn == nil {
			return nil
		}
		return func(sourcePath string, _ *models.File) (string, error) {
			return fn(sourcePath)
		}
	case func(string) string:
		if fn == nil {
			return nil
		}
		return func(sourcePath string, _ *models.File) (string, error) {
			return fn(sourcePath), nil
		}
	default:
		return nil
	}
}
