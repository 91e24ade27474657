package main

import (
	"fmt"
	"io"
	"time"

	"soul/internal/observ"
)

var passOrder = []string{observ.PassLoad, observ.PassResolve, observ.PassLower, observ.PassInfer}

// printTimings prints the wall time spent in each pass summed over units.
func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	byPass := timer.ByPass()
	for _, pass := range passOrder {
		d, ok := byPass[pass]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%-8s %.1f ms\n", pass, toMillis(d))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
