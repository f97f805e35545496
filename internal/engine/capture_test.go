package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChunkSource hands out a fixed list of chunks, closes drained
// after the last one, and then blocks until the capture context ends.
type scriptedChunkSource struct {
	chunks  [][]byte
	next    int
	drained chan struct{}
}

func newScriptedChunkSource(chunks ...[]byte) *scriptedChunkSource {
	return &scriptedChunkSource{chunks: chunks, drained: make(chan struct{})}
}

func (s *scriptedChunkSource) ReadChunk(ctx context.Context) ([]byte, error) {
	if s.next < len(s.chunks) {
		chunk := s.chunks[s.next]
		s.next++
		return chunk, nil
	}
	// Signal once that every scripted chunk has been consumed. The
	// previous chunk is already queued by the time this call happens.
	select {
	case <-s.drained:
	default:
		close(s.drained)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

// TestRecorder_CapturesAndDrains verifies the produced chunks come back
// concatenated in order on Stop.
func TestRecorder_CapturesAndDrains(t *testing.T) {
	source := newScriptedChunkSource([]byte("abc"), []byte("def"), []byte("ghi"))
	rec := NewRecorder(source, 16)

	rec.Start(context.Background())
	select {
	case <-source.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("capture loop never consumed the scripted chunks")
	}

	got := rec.Stop()
	assert.Equal(t, []byte("abcdefghi"), got, "Stop() must drain the queued chunks in order.")
	assert.False(t, rec.Recording(), "Recorder should be idle after Stop().")
}

// TestRecorder_StartIsIdempotent verifies a second Start while recording
// is a no-op instead of spawning a second capture loop.
func TestRecorder_StartIsIdempotent(t *testing.T) {
	source := newScriptedChunkSource([]byte("one"))
	rec := NewRecorder(source, 16)

	rec.Start(context.Background())
	rec.Start(context.Background())
	require.True(t, rec.Recording(), "Recorder should be running after Start().")

	select {
	case <-source.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("capture loop never consumed the scripted chunk")
	}

	got := rec.Stop()
	assert.Equal(t, []byte("one"), got, "A duplicate Start must not duplicate captured audio.")
}

// TestRecorder_StopIsIdempotent verifies Stop on an idle recorder
// returns nil without blocking.
func TestRecorder_StopIsIdempotent(t *testing.T) {
	rec := NewRecorder(newScriptedChunkSource(), 16)

	assert.Nil(t, rec.Stop(), "Stop() on an idle recorder returns nil.")

	rec.Start(context.Background())
	rec.Stop()
	assert.Nil(t, rec.Stop(), "A second Stop() returns nil.")
}

// TestRecorder_DropsOldestWhenFull verifies a saturated queue sheds the
// oldest chunk rather than blocking the producer.
func TestRecorder_DropsOldestWhenFull(t *testing.T) {
	source := newScriptedChunkSource([]byte("a"), []byte("b"), []byte("c"))
	rec := NewRecorder(source, 2)

	rec.Start(context.Background())
	select {
	case <-source.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("capture loop never consumed the scripted chunks")
	}

	got := rec.Stop()
	assert.Equal(t, []byte("bc"), got, "The oldest chunk is dropped when the queue is full.")
}

// TestRecorder_SourceEOF verifies capture ends quietly when the source is
// exhausted for good.
func TestRecorder_SourceEOF(t *testing.T) {
	rec := NewRecorder(eofSource{}, 4)

	rec.Start(context.Background())
	got := rec.Stop()

	assert.Nil(t, got, "An immediately exhausted source yields no audio.")
}

type eofSource struct{}

func (eofSource) ReadChunk(context.Context) ([]byte, error) { return nil, io.EOF }
