package driver

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad is manifest loading and module declaration.
	StageLoad Stage = "load"
	// StageDeclare is phase 1: holders and logger fields.
	StageDeclare Stage = "declgen"
	// StageInitialize is phase 2: logger initializers.
	StageInitialize Stage = "initgen"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the module is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the module is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the module is done.
	StatusDone Status = "done"
	// StatusError indicates the module was aborted.
	StatusError Status = "error"
)

// Event reports progress for a module (or for the whole run when Module is empty).
type Event struct {
	Module  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
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

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
