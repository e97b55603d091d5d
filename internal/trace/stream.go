package trace

import (
	"fmt"
	"io"
	"sync"
)

// StreamTracer writes events immediately to an io.Writer.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format

	lost    int   // событий не записано
	lostErr error // первая ошибка записи
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format}
}

// Emit writes an event to the output. Ошибка записи не прерывает разбор:
// событие считается потерянным, Flush потом об этом сообщит.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
	if _, err := t.w.Write(FormatEvent(ev, t.format)); err != nil {
		if t.lost == 0 {
			t.lostErr = err
		}
		t.lost++
	}
}

// Flush calls the writer's Flush if it has one. Lost events are reported
// once, by the first Flush after they happened.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lost > 0 {
		err := fmt.Errorf("trace: %d events lost: %w", t.lost, t.lostErr)
		t.lost, t.lostErr = 0, nil
		return err
	}
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer if it implements io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
