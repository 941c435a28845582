package trace

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// LogTracer writes events as structured zerolog records. Span ends are
// logged with their duration; everything else at debug level.
type LogTracer struct {
	mu     sync.Mutex
	w      io.Writer
	logger zerolog.Logger
	level  Level
	starts map[uint64]int64 // span ID -> begin time (unix nanos)
}

func NewLogTracer(w io.Writer, level Level) *LogTracer {
	return &LogTracer{
		w:      w,
		logger: zerolog.New(w).With().Timestamp().Str("component", "treant").Logger(),
		level:  level,
		starts: make(map[uint64]int64),
	}
}

func (t *LogTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var e *zerolog.Event
	switch ev.Kind {
	case KindSpanBegin:
		t.starts[ev.SpanID] = ev.Time.UnixNano()
		e = t.logger.Debug()
	case KindSpanEnd:
		e = t.logger.Info()
		if start, ok := t.starts[ev.SpanID]; ok {
			e = e.Int64("duration_ns", ev.Time.UnixNano()-start)
			delete(t.starts, ev.SpanID)
		}
	default:
		e = t.logger.Debug()
	}
	e = e.Uint64("seq", ev.Seq).
		Str("kind", ev.Kind.String()).
		Str("scope", ev.Scope.String()).
		Uint64("span", ev.SpanID)
	if ev.Module != "" {
		e = e.Str("module", ev.Module)
	}
	if ev.ParentID != 0 {
		e = e.Uint64("parent", ev.ParentID)
	}
	if ev.Detail != "" {
		e = e.Str("detail", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		dict := zerolog.Dict()
		for k, v := range ev.Extra {
			dict = dict.Str(k, v)
		}
		e = e.Dict("extra", dict)
	}
	e.Msg(ev.Name)
}

func (t *LogTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return flushWriter(t.w)
}

func (t *LogTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	return closeWriter(t.w)
}

func (t *LogTracer) Level() Level { return t.level }

func (t *LogTracer) Enabled() bool { return t.level > LevelOff }
