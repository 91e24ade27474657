package driver

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"soul/internal/diag"
	"soul/internal/observ"
	"soul/internal/source"
	"soul/internal/trace"
)

// UnitResult is the outcome for one input path.
type UnitResult struct {
	Path   string
	Result *Result
}

// CheckUnits loads and checks every path concurrently, at most
// Config.JobCount() units at a time. Each unit gets its own tables and
// fault bag. Results come back in input order. Unreadable units become
// results carrying a single I/O fault; only cancellation and cache errors
// abort the run.
func CheckUnits(ctx context.Context, paths []string, opts Options) ([]UnitResult, error) {
	results := make([]UnitResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	if opts.Timer == nil {
		opts.Timer = observ.NewTimer()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Config.JobCount(), len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			unitOpts := opts
			if obs := opts.Observer; obs != nil {
				unitOpts.Observer = func(ev PhaseEvent) {
					ev.Path = path
					obs(ev)
				}
			}
			unitOpts.Observer.emit(PhaseEvent{Unit: path, Name: observ.PassLoad, Status: PhaseStart})
			started := time.Now()
			idx := opts.Timer.Begin(path, observ.PassLoad)
			unit, digest, err := LoadUnit(path)
			opts.Timer.End(idx, "")
			unitOpts.Observer.emit(PhaseEvent{Unit: path, Name: observ.PassLoad, Status: PhaseEnd, Elapsed: time.Since(started)})
			if err != nil {
				results[i] = UnitResult{Path: path, Result: loadFailure(path, err)}
				return nil
			}
			res, err := Check(gctx, unit, digest, unitOpts)
			if err != nil {
				return err
			}
			// index i is owned by this goroutine
			results[i] = UnitResult{Path: path, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	span.Set("units", strconv.Itoa(len(paths)))
	return results, nil
}

func loadFailure(path string, err error) *Result {
	code, msg := diag.IODecodeError, "failed to decode unit: "
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		code, msg = diag.IOLoadFileError, "failed to load unit: "
	}
	return &Result{
		Unit:   path,
		Faults: []diag.Diagnostic{diag.NewError(code, source.Span{}, msg+err.Error())},
		Fatal:  true,
		Files:  source.NewFileSet(),
	}
}

// Summary counts faults across results.
type Summary struct {
	Units    int
	Fatal    int
	Cached   int
	Faults   int
	Warnings int
}

// Summarize aggregates results.
func Summarize(results []UnitResult) Summary {
	var s Summary
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		s.Units++
		if r.Result.Fatal {
			s.Fatal++
		}
		if r.Result.Cached {
			s.Cached++
		}
		for _, d := range r.Result.Faults {
			switch {
			case d.Severity >= diag.SevError:
				s.Faults++
			case d.Severity == diag.SevWarning:
				s.Warnings++
			}
		}
	}
	return s
}
