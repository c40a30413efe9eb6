package trace

import (
	"io"
	"sync"
)

// DefaultRingSize is the number of call events kept when no size is given.
const DefaultRingSize = 4096

// RingTracer holds the most recent call events of a run in memory. When a
// run fails, the tail leading up to the failure can be dumped after the fact
// without paying for a stream during the recursion.
type RingTracer struct {
	mu    sync.RWMutex
	buf   []Event
	next  int // slot the next event lands in
	count int // events held, at most len(buf)
	level Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit keeps ev, overwriting the oldest event once the ring is full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev) {
		return
	}

	t.mu.Lock()
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
	t.mu.Unlock()
}

// Snapshot copies the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Event, 0, t.count)
	oldest := (t.next - t.count + len(t.buf)) % len(t.buf)
	for i := 0; i < t.count; i++ {
		out = append(out, t.buf[(oldest+i)%len(t.buf)])
	}
	return out
}

// Dump writes the held call events to w, one formatted line each.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
