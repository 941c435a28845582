package trace

import "context"

type carrierKey struct{}

// carrier is everything a span needs from its caller: where to emit, which
// span encloses it and which module the work belongs to.
type carrier struct {
	tracer Tracer
	parent uint64
	module string
}

func load(ctx context.Context) carrier {
	var c carrier
	if ctx != nil {
		c, _ = ctx.Value(carrierKey{}).(carrier)
	}
	if c.tracer == nil {
		c.tracer = Nop
	}
	return c
}

func store(ctx context.Context, c carrier) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, carrierKey{}, c)
}

// FromContext returns the tracer installed by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer { return load(ctx).tracer }

// WithTracer installs t for every span started from the returned context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	c := load(ctx)
	c.tracer = t
	if t == nil {
		c.tracer = Nop
	}
	return store(ctx, c)
}

// WithModule tags spans started from the returned context with module.
func WithModule(ctx context.Context, module string) context.Context {
	c := load(ctx)
	c.module = module
	return store(ctx, c)
}

// ModuleOf returns the module set by WithModule.
func ModuleOf(ctx context.Context) string { return load(ctx).module }

// ParentOf returns the ID of the innermost span started with Start, 0 at the
// root.
func ParentOf(ctx context.Context) uint64 { return load(ctx).parent }
