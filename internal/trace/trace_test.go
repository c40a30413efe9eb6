package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"off", LevelOff},
		{"", LevelOff},
		{"ERROR", LevelError},
		{"run", LevelRun},
		{"call", LevelCall},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("ParseLevel(verbose) should fail")
	}
}

func TestLevelShouldEmit(t *testing.T) {
	run := &Event{Kind: KindSpanBegin, Scope: ScopeRun}
	call := &Event{Kind: KindSpanBegin, Scope: ScopeCall}
	failed := &Event{Kind: KindSpanEnd, Scope: ScopeCall, Failed: true}

	if LevelError.ShouldEmit(run) || LevelError.ShouldEmit(call) || !LevelError.ShouldEmit(failed) {
		t.Fatalf("LevelError should only pass failed spans")
	}
	if !LevelRun.ShouldEmit(run) || LevelRun.ShouldEmit(call) || !LevelRun.ShouldEmit(failed) {
		t.Fatalf("LevelRun should pass run spans and failures")
	}
	if !LevelCall.ShouldEmit(call) {
		t.Fatalf("LevelCall should pass call spans")
	}
	if LevelOff.ShouldEmit(&Event{Kind: KindHeartbeat}) {
		t.Fatalf("LevelOff should drop heartbeats")
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("tracer at LevelOff should be disabled")
	}
}

func TestStreamTracerIndentsCalls(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelCall, FormatText)

	run := Begin(tr, ScopeRun, 0, 0, 0, "fib")
	root := Begin(tr, ScopeCall, 1, 0, 0, "fib(1)")
	child := Begin(tr, ScopeCall, 2, 1, 1, "fib(0)")
	child.End("0", false)
	root.End("boom", true)
	run.End("", true)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "    → #2 fib(0)") {
		t.Fatalf("child begin not indented by depth: %q", lines[2])
	}
	if !strings.Contains(lines[4], "✗ #1 fib(1) (boom)") {
		t.Fatalf("failed end not marked: %q", lines[4])
	}
}

func TestNDJSONFormat(t *testing.T) {
	data := FormatEvent(&Event{Kind: KindSpanEnd, Scope: ScopeCall, SpanID: 3, ParentID: 1, Depth: 2, Name: "f(1)", Failed: true}, FormatNDJSON)
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["kind"] != "end" || got["scope"] != "call" || got["failed"] != true {
		t.Fatalf("unexpected event: %v", got)
	}
	if got["depth"] != float64(2) {
		t.Fatalf("depth = %v, want 2", got["depth"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelCall)
	for i := 1; i <= 5; i++ {
		tr.Emit(&Event{Kind: KindPoint, Scope: ScopeCall, SpanID: uint64(i)})
	}
	events := tr.Snapshot()
	if len(events) != 3 {
		t.Fatalf("snapshot has %d events, want 3", len(events))
	}
	for i, want := range []uint64{3, 4, 5} {
		if events[i].SpanID != want {
			t.Fatalf("events[%d].SpanID = %d, want %d", i, events[i].SpanID, want)
		}
	}
}

func TestMultiTracerDumpsRing(t *testing.T) {
	var stream bytes.Buffer
	ring := NewRingTracer(8, LevelCall)
	multi := NewMultiTracer(LevelCall, NewStreamTracer(&stream, LevelCall, FormatText), ring)
	multi.Emit(&Event{Kind: KindPoint, Scope: ScopeRun, Name: "hello"})

	var dump bytes.Buffer
	if err := multi.Dump(&dump, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(dump.String(), "hello") || !strings.Contains(stream.String(), "hello") {
		t.Fatalf("event missing: stream=%q dump=%q", stream.String(), dump.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context should yield Nop")
	}
	ring := NewRingTracer(1, LevelRun)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not recovered from context")
	}
}

func TestRingTracerBeforeWrap(t *testing.T) {
	tr := NewRingTracer(4, LevelCall)
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopeCall, SpanID: 1})
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopeCall, SpanID: 2})
	events := tr.Snapshot()
	if len(events) != 2 || events[0].SpanID != 1 || events[1].SpanID != 2 {
		t.Fatalf("snapshot = %+v, want spans 1 and 2", events)
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want StorageMode
		err  bool
	}{
		{"", ModeStream, false},
		{"stream", ModeStream, false},
		{" Ring ", ModeRing, false},
		{"both", ModeBoth, false},
		{"disk", ModeStream, true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		if (err != nil) != tc.err || got != tc.want {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v (error %v)", tc.in, got, err, tc.want, tc.err)
		}
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"":              FormatText,
		"-":             FormatText,
		"calls.log":     FormatText,
		"calls.ndjson":  FormatNDJSON,
		"out/RUN.JSONL": FormatNDJSON,
	}
	for path, want := range cases {
		if got := formatFor(path); got != want {
			t.Fatalf("formatFor(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestHeartbeatStop(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("disabled tracer should not get a heartbeat")
	}
	ring := NewRingTracer(16, LevelRun)
	h := StartHeartbeat(ring, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop()
	n := len(ring.Snapshot())
	if n == 0 {
		t.Fatalf("no heartbeat was emitted")
	}
	time.Sleep(5 * time.Millisecond)
	if len(ring.Snapshot()) != n {
		t.Fatalf("heartbeat kept emitting after Stop")
	}
	for _, ev := range ring.Snapshot() {
		if ev.Kind != KindHeartbeat || !strings.HasPrefix(ev.Detail, "#") {
			t.Fatalf("unexpected event %+v", ev)
		}
	}
}
