package models

import (
	"encoding/json"
	"fmt"

	uuid "github.com/google/uuid"
	"github.com/tarungka/mapsources/internal/logger"
)

// SourceMap is the source map attached to a File. Only the fields that are
// carried through the pipeline are modelled, nothing here is validated.
// Fields without a typed counterpart are kept in Extra and written back as
// they came in.
type SourceMap struct {
	Version    int      `json:"version"`
	File       string   `json:"file"`
	SourceRoot string   `json:"sourceRoot"`
	Sources    []string `json:"sources"` // nil when the map has no sources
	Names      []string `json:"names"`
	Mappings   string   `json:"mappings"`

	Extra   map[string]json.RawMessage `json:"-"`
	present map[string]bool            // typed keys seen when decoding
}

// File is a single in-flight artifact moving through a pipeline. Contents and
// any other attribute the pipeline does not read travel untouched in Extra.
type File struct {
	ID        uuid.UUID  `json:"-"` // a UUID v7 to identify the file in logs
	Cwd       string     `json:"cwd"`
	Base      string     `json:"base"`
	Path      string     `json:"path"`
	SourceMap *SourceMap `json:"sourceMap"` // nil when no map is attached

	Extra   map[string]json.RawMessage `json:"-"`
	present map[string]bool
}

// HasSources reports whether the file carries a source map with a sources list.
func (f *File) HasSources() bool {
	return f != nil && f.SourceMap != nil && f.SourceMap.Sources != nil
}

// Relative returns the path of the file relative to its base.
func (f *File) Relative() string {
	if f.Base == "" || len(f.Path) <= len(f.Base) || f.Path[:len(f.Base)] != f.Base {
		return f.Path
	}
	rel := f.Path[len(f.Base):]
	for len(rel) > 0 && (rel[0] == '/' || rel[0] == '\\') {
		rel = rel[1:]
	}
	return rel
}

func (f *File) String() string {
	return fmt.Sprintf("File<%s %q>", f.ID, f.Relative())
}

// NewFile creates a file rooted at base. The id is assigned here so that
// every file can be followed across stages in the logs.
func NewFile(cwd, base, path string) (*File, error) {
	id, err := uuid.NewV7()
	if err != nil {
		logger.AdHocLogger.Err(err).Msg("error when creating a new file")
		return nil, err
	}
	return &File{
		ID:   id,
		Cwd:  cwd,
		Base: base,
		Path: path,
	}, nil
}

// EnsureID assigns an id to files that were built without NewFile, e.g. decoded
// from a stream.
func (f *File) EnsureID() error {
	if f.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("error assigning file id: %w", err)
	}
	f.ID = id
	return nil
}
