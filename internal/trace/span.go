package trace

import (
	"context"
	"time"

	"go.uber.org/atomic"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// Span is one timed piece of work. Spans whose tracer is off or whose scope
// is filtered out by the tracer level record nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	module  string
	started time.Time
	tags    map[string]string
}

// Start opens a span below the innermost span of ctx. The returned context
// makes the new span the parent of anything started from it.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	c := load(ctx)
	s := open(c.tracer, scope, name, c.parent, c.module)
	if s.id == 0 {
		return ctx, s
	}
	c.parent = s.id
	return store(ctx, c), s
}

// Child opens a span directly below s without touching any context.
func (s *Span) Child(scope Scope, name string) *Span {
	if !s.live() {
		return &Span{}
	}
	return open(s.tracer, scope, name, s.id, s.module)
}

func open(t Tracer, scope Scope, name string, parent uint64, module string) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Inc(),
		parent:  parent,
		scope:   scope,
		name:    name,
		module:  module,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) live() bool { return s != nil && s.id != 0 }

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      seqCounter.Inc(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Module:   s.module,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.tags
	}
	return ev
}

// WithExtra attaches key=value to the end event of s.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.tags == nil {
		s.tags = map[string]string{}
	}
	s.tags[key] = value
	return s
}

// End closes s and reports how long it ran; 0 for a span that records
// nothing.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	return now.Sub(s.started)
}

// ID is 0 for spans that record nothing.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Mark records an instant event inside s.
func (s *Span) Mark(scope Scope, name, detail string) {
	if !s.live() || !s.tracer.Level().ShouldEmit(scope) {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      seqCounter.Inc(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: s.id,
		Module:   s.module,
		Name:     name,
		Detail:   detail,
	})
}

// Point records an instant event below the innermost span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	c := load(ctx)
	if !c.tracer.Enabled() || !c.tracer.Level().ShouldEmit(scope) {
		return
	}
	c.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      seqCounter.Inc(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: c.parent,
		Module:   c.module,
		Name:     name,
		Detail:   detail,
	})
}
