package mapsources

// SkipReason tells why a file went through without a rewrite.
type SkipReason string

const (
	SkipNoSourceMap SkipReason = "no_source_map"
	SkipNoSources   SkipReason = "no_sources"
)

// Observer is notified of the outcome of every file.
type Observer interface {
	FileSkipped(reason SkipReason)
	FileRewritten(sources int)
	FileFailed()
}

type nopObserver struct{}

func (nopObserver) FileSkipped(SkipReason) {}
func (nopObserver) FileRewritten(int)      {}
func (nopObserver) FileFailed()            {}
