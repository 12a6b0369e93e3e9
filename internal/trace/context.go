package trace

import "context"

type tracerKey struct{}

type spanKey struct{}

// FromContext returns the Tracer stored by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok && t != nil {
		return t
	}
	return Nop
}

// WithTracer stores t in ctx. A nil t disables tracing for the subtree.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// activeSpan returns the id of the innermost span started with Start, 0 if none.
func activeSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// нулевой id не кладём: выключенный спан не должен перекрывать родителя
func withActiveSpan(ctx context.Context, id uint64) context.Context {
	if ctx == nil || id == 0 {
		return ctx
	}
	return context.WithValue(ctx, spanKey{}, id)
}
