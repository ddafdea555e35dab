package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/queue"
)

var _ queue.DisposableWeigher[time.Duration] = (*Frame)(nil)

// payloadPool recycles frame payload buffers.
var payloadPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// Frame is the item pushed through the queue under test. It records the
// producer that created it so consumers can check exactly-once delivery.
type Frame struct {
	ID       uuid.UUID
	Producer int
	Seq      int
	Duration time.Duration
	Payload  []byte

	released *atomic.Int64 // shared release counter, may be nil
}

// newFrame allocates a frame with a pooled payload of size bytes.
func newFrame(producer, seq, size int, d time.Duration, released *atomic.Int64) *Frame {
	f := &Frame{
		ID:       uuid.New(),
		Producer: producer,
		Seq:      seq,
		Duration: d,
		released: released,
	}
	if size > 0 {
		buf := payloadPool.Get().(*[]byte)
		if cap(*buf) < size {
			*buf = make([]byte, size)
		}
		f.Payload = (*buf)[:size]
	}
	return f
}

// Weight returns the frame duration.
func (f *Frame) Weight() time.Duration { return f.Duration }

// Dispose returns the payload to the pool. The queue calls it for frames it
// evicts or clears; consumers call it once they are done with a frame.
func (f *Frame) Dispose() error {
	if f.Payload != nil {
		buf := f.Payload[:0]
		payloadPool.Put(&buf)
		f.Payload = nil
	}
	if f.released != nil {
		f.released.Add(1)
	}
	return nil
}

// disposeFrames disposes every frame and combines the errors.
func disposeFrames(frames ...*Frame) error {
	var err error
	for _, f := range frames {
		err = multierr.Append(err, f.Dispose())
	}
	return err
}
