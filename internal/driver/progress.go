package driver

import "time"

// Stage describes a pipeline phase.
type Stage string

const (
	StageCollect Stage = "collect"
	StageParse   Stage = "parse"
	StageBind    Stage = "bind"
	StageAnalyze Stage = "analyze"
	StageFix     Stage = "fix"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
// File is relative to the project root.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Findings int
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. It may be called from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
