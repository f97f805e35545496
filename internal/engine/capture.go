package engine

import (
	"context"
	"sync"
)

// ChunkSource yields successive fixed-size chunks of captured audio.
// Implementations return io.EOF when the underlying stream ends.
type ChunkSource interface {
	ReadChunk(ctx context.Context) ([]byte, error)
}

// Recorder captures audio on a background goroutine into a bounded queue
// and hands the accumulated bytes back on Stop. Start and Stop are
// idempotent; calling either in the state it already established is a
// no-op. When the queue is full the oldest chunk is dropped so capture
// never blocks the producer.
type Recorder struct {
	source   ChunkSource
	capacity int

	mu      sync.Mutex
	chunks  chan []byte
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewRecorder returns a recorder buffering up to capacity chunks.
func NewRecorder(source ChunkSource, capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	return &Recorder{source: source, capacity: capacity}
}

// Start begins capturing. Calling Start on a running recorder does
// nothing.
func (r *Recorder) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.chunks = make(chan []byte, r.capacity)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	go r.capture(ctx, r.chunks, r.done)
}

// Stop halts capture and drains the queue into a single buffer. Calling
// Stop on an idle recorder returns nil.
func (r *Recorder) Stop() []byte {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	cancel, chunks, done := r.cancel, r.chunks, r.done
	r.running = false
	r.cancel = nil
	r.chunks = nil
	r.done = nil
	r.mu.Unlock()

	cancel()
	<-done

	var audio []byte
	for {
		select {
		case chunk := <-chunks:
			audio = append(audio, chunk...)
		default:
			return audio
		}
	}
}

// Recording reports whether capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Recorder) capture(ctx context.Context, chunks chan []byte, done chan struct{}) {
	defer close(done)
	for {
		chunk, err := r.source.ReadChunk(ctx)
		if err != nil {
			// io.EOF, context cancellation, and device errors all end
			// capture; whatever was queued is still drained by Stop.
			return
		}
		select {
		case chunks <- chunk:
		default:
			// Queue full: drop the oldest chunk to make room.
			select {
			case <-chunks:
			default:
			}
			select {
			case chunks <- chunk:
			default:
			}
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
