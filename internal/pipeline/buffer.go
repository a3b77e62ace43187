package pipeline

import (
	"time"
)

// streamBuffer accumulates texts until the batch is full or its timer fires.
// It is owned by the Stream loop and needs no locking.
type streamBuffer struct {
	window  time.Duration
	maxSize int

	pending []string
	timer   *time.Timer
}

func newStreamBuffer(window time.Duration, maxSize int) *streamBuffer {
	return &streamBuffer{window: window, maxSize: maxSize}
}

// add appends a text to the buffer. The first text starts the flush timer.
// Returns true if the buffer is full and needs flushing.
func (b *streamBuffer) add(text string) bool {
	b.pending = append(b.pending, text)
	if len(b.pending) == 1 {
		b.timer = time.NewTimer(b.window)
	}
	return b.maxSize > 0 && len(b.pending) >= b.maxSize
}

// flushCh returns the timer's channel, or nil if no timer is active.
func (b *streamBuffer) flushCh() <-chan time.Time {
	if b.timer == nil {
		return nil
	}
	return b.timer.C
}

// drain returns the pending texts and resets the buffer.
func (b *streamBuffer) drain() []string {
	texts := b.pending
	b.pending = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	return texts
}
