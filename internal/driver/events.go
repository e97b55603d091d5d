package driver

import "time"

// Stage describes a per-file phase of the front end.
type Stage string

const (
	// StageRead loads the file from disk.
	StageRead Stage = "read"
	// StageCache looks the file up in the diagnostics cache.
	StageCache Stage = "cache"
	// StageParse is lexing plus parsing.
	StageParse Stage = "parse"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed or produced errors.
	StatusError Status = "error"
	// StatusCached indicates the result came from the diagnostics cache.
	StatusCached Status = "cached"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Final reports whether no further events follow for the file.
func (e Event) Final() bool {
	switch {
	case e.Status == StatusCached:
		return true
	case e.Status == StatusError:
		return e.Stage == StageRead || e.Stage == StageParse
	case e.Status == StatusDone:
		return e.Stage == StageParse
	}
	return false
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: ParseDir emits from its workers.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
