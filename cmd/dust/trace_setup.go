package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dust/internal/trace"
)

type traceState struct {
	tracer trace.Tracer
	ring   *trace.RingTracer
	span   *trace.Span
}

// activeTrace живёт от PersistentPreRunE до teardownTracing в execute.
var activeTrace *traceState

// setupTracing inspects trace-related flags and initializes the tracer.
// Values from dust.toml apply when the flags are not given.
func setupTracing(cmd *cobra.Command) error {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if !root.PersistentFlags().Changed("trace-level") && cfg.Trace.Level != "" {
		levelStr = cfg.Trace.Level
	}
	if !root.PersistentFlags().Changed("trace") && cfg.Trace.Output != "" {
		traceOutput = cfg.Trace.Output
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// If level is off and no output specified, skip tracing
	if level == trace.LevelOff && traceOutput == "" {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return nil
	}
	if level == trace.LevelOff {
		// --trace без уровня: пишем фазы
		level = trace.LevelPhase
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return fmt.Errorf("invalid trace mode: %w", err)
	}
	// файл указан, а режим по умолчанию ring: писать всё равно нужно
	if traceOutput != "" && mode == trace.ModeRing && !root.PersistentFlags().Changed("trace-mode") {
		mode = trace.ModeStream
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		Output:     outputFor(cmd, traceOutput),
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	st := &traceState{tracer: tracer, ring: trace.RingOf(tracer)}

	ctx = trace.WithTracer(ctx, tracer)
	ctx, st.span = trace.BeginCtx(ctx, trace.ScopeDriver, "dust "+cmd.Name())
	cmd.SetContext(ctx)
	activeTrace = st
	return nil
}

// outputFor: "-" пишет в stderr команды, чтобы тесты могли его перехватить.
// Обёртка прячет Close, иначе StreamTracer закроет os.Stderr.
func outputFor(cmd *cobra.Command, path string) io.Writer {
	if path == "-" {
		return struct{ io.Writer }{cmd.ErrOrStderr()}
	}
	return nil
}

// teardownTracing closes the tracer. When the command failed and events were
// kept in a ring, the spans still open and then the ring are dumped to errOut.
func teardownTracing(errOut io.Writer, cmdErr error) {
	st := activeTrace
	activeTrace = nil
	if st == nil {
		return
	}
	detail := "ok"
	if cmdErr != nil {
		detail = cmdErr.Error()
	}
	st.span.End(detail)

	if cmdErr != nil && st.ring != nil {
		writeUnfinished(errOut, st.ring.Unfinished())
		fmt.Fprintln(errOut, "trace: last events before the failure:")
		if err := st.ring.Dump(errOut, trace.FormatText); err != nil {
			fmt.Fprintf(errOut, "trace: dump error: %v\n", err)
		}
	}
	if err := st.tracer.Flush(); err != nil {
		fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
	}
	if err := st.tracer.Close(); err != nil {
		fmt.Fprintf(errOut, "trace: close error: %v\n", err)
	}
}

func writeUnfinished(w io.Writer, open []trace.Event) {
	if len(open) == 0 {
		return
	}
	fmt.Fprintln(w, "trace: unfinished spans:")
	for _, ev := range open {
		if file := ev.Extra["file"]; file != "" {
			fmt.Fprintf(w, "  %s %s\n", ev.Name, file)
		} else {
			fmt.Fprintf(w, "  %s\n", ev.Name)
		}
	}
}
