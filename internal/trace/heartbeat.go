package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a beat at a fixed interval while a tracked run is in
// progress. A trace that shows beats but no new call spans points at a
// recursion that stopped making progress.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	started  time.Time
	done     chan struct{}
	stopped  sync.WaitGroup
	once     sync.Once
}

// StartHeartbeat returns nil when tracer is disabled or interval is not
// positive. Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}

	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		started:  time.Now(),
		done:     make(chan struct{}),
	}
	h.stopped.Add(1)
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer h.stopped.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for beat := uint64(1); ; beat++ {
		select {
		case <-h.done:
			return
		case now := <-ticker.C:
			h.tracer.Emit(h.event(beat, now))
		}
	}
}

func (h *Heartbeat) event(beat uint64, now time.Time) *Event {
	return &Event{
		Time:   now,
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeRun,
		GID:    GoroutineID(),
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d after %s", beat, now.Sub(h.started).Round(time.Millisecond)),
	}
}

// Stop ends the beats and waits for the last one to be emitted. It is safe
// to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.stopped.Wait()
}
