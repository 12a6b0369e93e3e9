// Package trace is the logging layer of uclint: a levelled tracer carried
// through context.Context.
//
// # Usage
//
//	uclint check --trace=- --trace-level=phase Assets/
//
// # Tracers
//
//   - Nop: returned when tracing is off
//   - StreamTracer: writes each event as it arrives
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a scope: ScopeDriver for a whole command, ScopePass for a
// pipeline step (collect, parse, bind, analyze, fix), ScopeFile for work on
// one source file and ScopeDecl for a single declaration. LevelPhase emits
// driver and pass events, LevelDetail adds files, LevelDebug emits everything.
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
