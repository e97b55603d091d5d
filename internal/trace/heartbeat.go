package trace

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Heartbeat wraps a tracer and watches spans that carry a file (see
// BeginFile). Every interval it emits a heartbeat listing the files still
// open; once one of them has been open longer than the stuck threshold the
// event is named "stuck" instead of "heartbeat".
type Heartbeat struct {
	Tracer

	interval   time.Duration
	stuckAfter time.Duration

	mu      sync.Mutex
	open    map[uint64]openFile
	seq     uint64
	stopCh  chan struct{}
	wg      sync.WaitGroup
	stopped bool
}

type openFile struct {
	name  string // "read", "parse", "lex"
	path  string
	since time.Time
}

// stuckFactor: файл считается зависшим после стольких интервалов.
const stuckFactor = 10

// StartHeartbeat wraps tracer and starts the heartbeat goroutine. It returns
// nil for a disabled tracer or a non-positive interval.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		Tracer:     tracer,
		interval:   interval,
		stuckAfter: stuckFactor * interval,
		open:       make(map[uint64]openFile),
		stopCh:     make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Level reports at least LevelDetail so file spans reach the watcher even
// when the wrapped tracer records only phases; the wrapped tracer still
// filters by its own level. LevelError stays as is: it records everything.
func (h *Heartbeat) Level() Level {
	inner := h.Tracer.Level()
	if inner == LevelError {
		return inner
	}
	return max(inner, LevelDetail)
}

// Emit tracks file spans and forwards the event.
func (h *Heartbeat) Emit(ev *Event) {
	if path := ev.Extra[extraFile]; path != "" {
		h.mu.Lock()
		switch ev.Kind {
		case KindSpanBegin:
			h.open[ev.SpanID] = openFile{name: ev.Name, path: path, since: ev.Time}
		case KindSpanEnd:
			delete(h.open, ev.SpanID)
		}
		h.mu.Unlock()
	}
	h.Tracer.Emit(ev)
}

// InFlight describes the open file spans, oldest first: "parse a.dust 1.2s".
func (h *Heartbeat) InFlight(now time.Time) []string {
	files, _ := h.snapshot(now)
	return files
}

func (h *Heartbeat) snapshot(now time.Time) ([]string, bool) {
	h.mu.Lock()
	open := make([]openFile, 0, len(h.open))
	for _, f := range h.open {
		open = append(open, f)
	}
	h.mu.Unlock()

	slices.SortFunc(open, func(a, b openFile) int {
		if c := a.since.Compare(b.since); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})
	out := make([]string, len(open))
	stuck := false
	for i, f := range open {
		age := now.Sub(f.since)
		if age >= h.stuckAfter {
			stuck = true
		}
		out[i] = fmt.Sprintf("%s %s %s", f.name, f.path, age.Round(time.Millisecond))
	}
	return out, stuck
}

// beat emits one heartbeat event as of now.
func (h *Heartbeat) beat(now time.Time) {
	h.mu.Lock()
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	files, stuck := h.snapshot(now)
	ev := &Event{
		Time:   now,
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    getGoroutineID(),
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d", seq),
	}
	if stuck {
		ev.Name = "stuck"
	}
	if len(files) > 0 {
		ev.Extra = map[string]string{"files": strings.Join(files, "; ")}
	}
	h.Tracer.Emit(ev)
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			h.beat(now)
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the heartbeat goroutine and waits for it. Safe on nil and when
// called twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stopCh)
	h.wg.Wait()
}

// Close stops the heartbeat and closes the wrapped tracer.
func (h *Heartbeat) Close() error {
	h.Stop()
	return h.Tracer.Close()
}
