package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"soul/internal/driver"
	"soul/internal/trace"
)

// setupTracing builds the tracer described by cfg and attaches it to the
// command context. It returns a cleanup function that flushes and closes it.
func setupTracing(cmd *cobra.Command, cfg driver.Config) (func(), error) {
	tcfg, err := cfg.TracerConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace configuration: %w", err)
	}
	if tcfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	activeTracer = tracer

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

var activeTracer trace.Tracer

// dumpTraceOnPanic writes the ring buffer to stderr when a command panics,
// then re-panics.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring, ok := trace.RingOf(activeTracer); ok {
		fmt.Fprintln(os.Stderr, "== trace (last events) ==")
		if err := ring.Dump(os.Stderr, "", trace.FormatText); err != nil {
			fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
		}
	}
	panic(r)
}

// dumpFailedUnits prints the ring-buffered events of every fatal unit.
func dumpFailedUnits(w io.Writer, results []driver.UnitResult) {
	ring, ok := trace.RingOf(activeTracer)
	if !ok {
		return
	}
	for _, r := range results {
		if r.Result == nil || !r.Result.Fatal {
			continue
		}
		fmt.Fprintf(w, "== trace for %s ==\n", r.Result.Unit)
		if err := ring.Dump(w, r.Result.Unit, trace.FormatText); err != nil {
			fmt.Fprintf(w, "trace: dump error: %v\n", err)
			return
		}
	}
}
