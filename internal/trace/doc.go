// Package trace records what the dust front end is doing: driver runs,
// passes (lex, parse, cache) and per-file work.
//
// Enable tracing via command-line flags:
//
//	dust check --trace=- --trace-level=phase ./src
//
// Tracers:
//
//   - Nop: zero overhead when disabled
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//   - Heartbeat: wraps a tracer and periodically lists files whose spans
//     are still open, reporting "stuck" for ones open too long
//
// Levels gate scopes: phase shows driver and pass events, detail adds per-file
// events, debug shows everything.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
//
// Spans about one source file use BeginFile / BeginFileCtx so the heartbeat
// and RingTracer.Unfinished can name the file.
package trace
