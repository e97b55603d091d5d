package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(strings.ToUpper(name))
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if lvl.String() != name {
			t.Errorf("round trip %q -> %q", name, lvl)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("unknown level must fail")
	}
}

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	got := ring.Snapshot()
	if len(got) != 3 {
		t.Fatalf("snapshot len = %d", len(got))
	}
	for i, want := range []string{"c", "d", "e"} {
		if got[i].Name != want {
			t.Errorf("snapshot[%d] = %q, want %q", i, got[i].Name, want)
		}
	}
	if got[0].Seq >= got[2].Seq {
		t.Error("sequence numbers must grow")
	}
}

func TestRingKeepsEverythingAtErrorLevel(t *testing.T) {
	ring := NewRingTracer(8, LevelError)
	span := Begin(ring, ScopeFile, "file:a.dust", 0)
	span.End("ok")
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("ring at error level must keep begin/end, got %d", n)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "← file:a.dust (ok)") {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestStreamFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatText)
	outer := Begin(st, ScopePass, "parse", 0)
	inner := Begin(st, ScopeFile, "file:x.dust", outer.ID())
	if inner.ID() != 0 {
		t.Error("file span must be disabled at phase level")
	}
	inner.End("")
	outer.WithExtra("files", "1").WithExtra("errors", "0").End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "[pass] → parse") {
		t.Errorf("begin line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "← parse (done) {errors=0, files=1}") {
		t.Errorf("end line = %q", lines[1])
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(st, ScopeNode, "guard", "x is T", 7)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	if got["kind"] != "point" || got["scope"] != "node" || got["name"] != "guard" {
		t.Errorf("event = %v", got)
	}
	if got["parent_id"] != float64(7) {
		t.Errorf("parent_id = %v", got["parent_id"])
	}
}

func TestMultiSharesSeq(t *testing.T) {
	a := NewRingTracer(4, LevelDebug)
	b := NewRingTracer(4, LevelDebug)
	m := NewMultiTracer(LevelDebug, a, b)
	m.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: "x"})

	ea, eb := a.Snapshot(), b.Snapshot()
	if len(ea) != 1 || len(eb) != 1 || ea[0].Seq != eb[0].Seq {
		t.Errorf("fan-out mismatch: %+v %+v", ea, eb)
	}
	if m.Ring() != a {
		t.Error("Ring must return the first ring tracer")
	}
	if err := m.Close(); err != nil {
		t.Error(err)
	}
}

func TestNewConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give Nop: %v %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeDriver, "check", 0).End("")
	if buf.Len() == 0 {
		t.Error("stream half of both-mode must write")
	}
	if m, ok := tr.(*MultiTracer); !ok || len(m.Ring().Snapshot()) != 2 {
		t.Error("ring half of both-mode must record")
	}

	if _, err := New(Config{Level: LevelPhase, Mode: StorageMode(42)}); err == nil {
		t.Error("unknown mode must fail")
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Error("ParseMode must reject unknown modes")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat = %v %v", f, err)
	}
}

func TestContextPropagation(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != ring {
		t.Fatal("FromContext must return attached tracer")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must be Nop")
	}

	ctx, outer := BeginCtx(ctx, ScopeDriver, "check")
	_, inner := BeginCtx(ctx, ScopeFile, "file:a.dust")
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("events = %d", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Errorf("inner parent = %d, want %d", events[1].ParentID, outer.ID())
	}
}

func TestDisabledSpanStillTimes(t *testing.T) {
	span := Begin(Nop, ScopePass, "parse", 0)
	time.Sleep(time.Millisecond)
	if span.End("") <= 0 {
		t.Error("End must report elapsed time even when tracing is off")
	}
	var nilSpan *Span
	if nilSpan.End("") != 0 || nilSpan.ID() != 0 {
		t.Error("nil span must be inert")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(ring, 2*time.Millisecond)
	if h == nil {
		t.Fatal("heartbeat must start for enabled tracer")
	}
	deadline := time.Now().Add(time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	events := ring.Snapshot()
	if len(events) == 0 || events[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded: %+v", events)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Error("heartbeat on Nop must be nil")
	}
}

func TestHeartbeatNamesOpenFiles(t *testing.T) {
	ring := NewRingTracer(64, LevelPhase)
	// час: тикер не сработает, beat вызываем руками
	h := StartHeartbeat(ring, time.Hour)
	defer h.Stop()
	if h.Level() != LevelDetail {
		t.Fatalf("heartbeat level = %v, want detail so file spans reach it", h.Level())
	}

	a := BeginFile(h, ScopeFile, "parse", "a.dust", 0)
	b := BeginFile(h, ScopeFile, "parse", "b.dust", 0)
	now := time.Now()
	files := h.InFlight(now)
	if len(files) != 2 || !strings.HasPrefix(files[0], "parse a.dust ") || !strings.HasPrefix(files[1], "parse b.dust ") {
		t.Fatalf("in flight = %q", files)
	}

	h.beat(now)
	events := ring.Snapshot()
	if len(events) != 1 {
		t.Fatalf("ring at phase level must keep only the heartbeat, got %+v", events)
	}
	if ev := events[0]; ev.Kind != KindHeartbeat || ev.Name != "heartbeat" || !strings.Contains(ev.Extra["files"], "parse a.dust") {
		t.Errorf("heartbeat = %+v", ev)
	}

	h.beat(now.Add(stuckFactor * time.Hour))
	last := ring.Snapshot()[1]
	if last.Name != "stuck" || !strings.Contains(last.Extra["files"], "b.dust") {
		t.Errorf("long-open file must be reported stuck: %+v", last)
	}

	a.End("")
	b.End("")
	if files := h.InFlight(time.Now()); len(files) != 0 {
		t.Errorf("ended spans still in flight: %q", files)
	}
	h.beat(time.Now())
	if last := ring.Snapshot()[2]; last.Name != "heartbeat" || last.Extra != nil {
		t.Errorf("idle heartbeat = %+v", last)
	}
}

func TestHeartbeatKeepsErrorLevel(t *testing.T) {
	h := StartHeartbeat(NewRingTracer(8, LevelError), time.Hour)
	defer h.Stop()
	if h.Level() != LevelError {
		t.Errorf("level = %v, error level must pass through", h.Level())
	}
}

func TestNewWrapsHeartbeat(t *testing.T) {
	tr, err := New(Config{Level: LevelPhase, Mode: ModeRing, Heartbeat: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*Heartbeat); !ok {
		t.Fatalf("tracer = %T, want *Heartbeat", tr)
	}
	if RingOf(tr) == nil {
		t.Error("RingOf must see through the heartbeat")
	}
	if err := tr.Close(); err != nil {
		t.Error(err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Heartbeat: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()
	if RingOf(tr) == nil {
		t.Error("RingOf must see through heartbeat and multi")
	}
	if RingOf(Nop) != nil {
		t.Error("Nop has no ring")
	}
}

func TestFileSpanCarriesPath(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	_, span := BeginFileCtx(ctx, ScopeFile, "parse", "dir/a.dust")
	span.WithExtra("exprs", "3").End("dir/a.dust")

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("events = %d", len(events))
	}
	if events[0].Extra["file"] != "dir/a.dust" || events[1].Extra["file"] != "dir/a.dust" {
		t.Errorf("file extra missing: %+v", events)
	}
	if _, ok := events[0].Extra["exprs"]; ok {
		t.Error("end-only extras must not leak into the begin event")
	}
}

func TestRingUnfinished(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	parse := BeginFile(ring, ScopeFile, "parse", "a.dust", 0)
	Begin(ring, ScopeDriver, "check", 0).End("")
	BeginFile(ring, ScopeFile, "parse", "b.dust", 0).End("")

	open := ring.Unfinished()
	if len(open) != 1 || open[0].Name != "parse" || open[0].Extra["file"] != "a.dust" {
		t.Fatalf("unfinished = %+v", open)
	}
	parse.End("")
	if open := ring.Unfinished(); len(open) != 0 {
		t.Errorf("unfinished after end = %+v", open)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestStreamCountsLostEvents(t *testing.T) {
	errFull := errors.New("disk full")
	st := NewStreamTracer(failingWriter{errFull}, LevelDebug, FormatText)
	for n := 0; n < 3; n++ {
		Point(st, ScopePass, "cache-hit", "a.dust", 0)
	}

	err := st.Flush()
	if err == nil || !strings.Contains(err.Error(), "3 events lost") || !errors.Is(err, errFull) {
		t.Fatalf("flush = %v", err)
	}
	if err := st.Flush(); err != nil {
		t.Errorf("lost events must be reported once, got %v", err)
	}
}
