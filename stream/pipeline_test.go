package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarungka/mapsources/internal/logger"
	"github.com/tarungka/mapsources/internal/models"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func makeFiles(n int) []*models.File {
	files := make([]*models.File, n)
	for i := range files {
		files[i] = &models.File{Path: fmt.Sprintf("/src/file%d.js", i)}
	}
	return files
}

// countingSource emits files forever and counts how many were accepted downstream
type countingSource struct {
	sent atomic.Int64
}

func (s *countingSource) Read(ctx context.Context, out chan<- *models.File) error {
	for i := 0; ; i++ {
		select {
		case out <- &models.File{Path: fmt.Sprintf("/gen/%d.js", i)}:
			s.sent.Add(1)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *countingSource) Close() error { return nil }

// stalledSink never reads
type stalledSink struct{}

func (stalledSink) Write(ctx context.Context, in <-chan *models.File) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledSink) Close() error { return nil }

func TestPipeline_PassThrough(t *testing.T) {
	files := makeFiles(5)
	sink := NewCollectSink()
	p := NewPipeline(NewSliceSource(files...), sink).AddOperator(NewBaseOperator("noop"))

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, files, sink.Files())
	assert.Equal(t, PipelineStats{Received: 5, Emitted: 5}, p.Stats())
}

func TestPipeline_NoOperators(t *testing.T) {
	files := makeFiles(3)
	sink := NewCollectSink()

	require.NoError(t, NewPipeline(NewSliceSource(files...), sink).Run(context.Background()))

	assert.Equal(t, files, sink.Files())
}

func TestPipeline_OperatorsRunInOrder(t *testing.T) {
	sink := NewCollectSink()
	appendTag := func(tag string) MapFunction {
		return func(f *models.File) (*models.File, error) {
			f.Path += tag
			return f, nil
		}
	}
	p := NewPipeline(NewSliceSource(makeFiles(2)...), sink).
		AddOperator(NewMapOperator("first", appendTag(".a"))).
		AddOperator(NewMapOperator("second", appendTag(".b")))

	require.NoError(t, p.Run(context.Background()))

	got := sink.Files()
	require.Len(t, got, 2)
	assert.Equal(t, "/src/file0.js.a.b", got[0].Path)
	assert.Equal(t, "/src/file1.js.a.b", got[1].Path)
}

func TestPipeline_OperatorErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	sink := NewCollectSink()
	p := NewPipeline(NewSliceSource(makeFiles(4)...), sink).
		AddOperator(NewMapOperator("fail-on-2", func(f *models.File) (*models.File, error) {
			if f.Path == "/src/file2.js" {
				return nil, boom
			}
			return f, nil
		}))

	err := p.Run(context.Background())

	require.ErrorIs(t, err, boom)
	var opErr *OperatorError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "fail-on-2", opErr.Operator)
	assert.Equal(t, "/src/file2.js", opErr.File.Path)
	assert.Contains(t, err.Error(), "operator fail-on-2 failed on /src/file2.js")

	for _, f := range sink.Files() {
		assert.NotEqual(t, "/src/file2.js", f.Path)
	}
	assert.LessOrEqual(t, len(sink.Files()), 2)
	assert.Equal(t, uint64(1), p.Stats().Failed)
}

func TestPipeline_Backpressure(t *testing.T) {
	source := &countingSource{}
	p := NewPipeline(source, stalledSink{}).AddOperator(NewBaseOperator("noop"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := p.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// one file can sit in each stage between the source and the stalled sink
	assert.LessOrEqual(t, source.sent.Load(), int64(4))
	assert.Equal(t, uint64(0), p.Stats().Emitted)
	assert.Equal(t, uint64(0), p.Stats().Failed)
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPipeline(&countingSource{}, NewCollectSink()).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestApply(t *testing.T) {
	in := make(chan *models.File)
	go func() {
		defer close(in)
		for _, f := range makeFiles(3) {
			in <- f
		}
	}()

	out, errc := Apply(context.Background(), NewBaseOperator("noop"), in)

	var paths []string
	for f := range out {
		paths = append(paths, f.Path)
	}
	assert.NoError(t, <-errc)
	assert.Equal(t, []string{"/src/file0.js", "/src/file1.js", "/src/file2.js"}, paths)
}

func TestApply_Error(t *testing.T) {
	boom := errors.New("boom")
	in := make(chan *models.File, 2)
	for _, f := range makeFiles(2) {
		in <- f
	}
	close(in)

	out, errc := Apply(context.Background(), NewMapOperator("fail", func(*models.File) (*models.File, error) {
		return nil, boom
	}), in)

	for range out {
		t.Fatal("no file expected")
	}
	assert.ErrorIs(t, <-errc, boom)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	file := &models.File{Path: "/src/a.js", SourceMap: &models.SourceMap{Sources: []string{"a.ts"}}}

	err := NewPipeline(NewSliceSource(file), NewLogSink(logger.New("test", &buf, false))).Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"path":"/src/a.js"`)
	assert.Contains(t, buf.String(), `"sources":["a.ts"]`)
}

func TestLogSink_NilFile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(NewSliceSource(nil, &models.File{Path: "/src/a.js"}), NewLogSink(logger.New("test", &buf, false)))

	require.NotPanics(t, func() {
		require.NoError(t, p.Run(context.Background()))
	})
	assert.Contains(t, buf.String(), "Sink received a nil file")
	assert.Contains(t, buf.String(), `"path":"/src/a.js"`)
}
