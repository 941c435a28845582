package trace

import (
	"io"
	"sync"
)

// RingTracer remembers the most recent events only. It is meant to be
// dumped after a module aborts.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	seen  uint64 // events accepted so far
	level Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.seen%uint64(len(t.buf))] = *ev
	t.seen++
	t.mu.Unlock()
}

// Snapshot copies the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	first := uint64(0)
	if t.seen > size {
		first = t.seen - size
	}
	out := make([]Event, 0, t.seen-first)
	for i := first; i < t.seen; i++ {
		out = append(out, t.buf[i%size])
	}
	return out
}

// Dropped is the number of events overwritten by newer ones.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if size := uint64(len(t.buf)); t.seen > size {
		return t.seen - size
	}
	return 0
}

// Dump writes the retained events to w in format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
