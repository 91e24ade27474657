package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"soul/internal/diag"
	"soul/internal/hir"
	"soul/internal/observ"
	"soul/internal/sema"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/trace"
)

// Result is everything the checker produced for one unit.
type Result struct {
	Unit   string              `msgpack:"unit" json:"unit"`
	Digest Digest              `msgpack:"digest" json:"digest"`
	HIR    *hir.Response       `msgpack:"hir" json:"hir"`
	Typed  *sema.TypedResponse `msgpack:"typed" json:"typed"`
	// Faults holds the unit's parse faults followed by every fault the
	// passes emitted, in order. The cache stores the full list;
	// [check].max_faults trims it only on the way out.
	Faults  []diag.Diagnostic `msgpack:"faults" json:"faults"`
	Dropped int               `msgpack:"dropped,omitempty" json:"dropped,omitempty"`
	Fatal   bool              `msgpack:"fatal" json:"fatal"`

	Cached bool            `msgpack:"-" json:"cached,omitempty"`
	Timing observ.Report   `msgpack:"-" json:"timing,omitempty"`
	Files  *source.FileSet `msgpack:"-" json:"-"`
}

// Options control a check run.
type Options struct {
	Config   Config
	Timer    *observ.Timer
	Cache    *DiskCache
	Observer PhaseObserver
	// Timings appends a timing note to each result.
	Timings bool
}

// Check runs resolve, lower and infer over u. Faults never stop the
// pipeline; Result.Fatal tells whether any of them meets the configured
// threshold. Errors are returned only for cache failures and cancellation.
func Check(ctx context.Context, u *Unit, digest Digest, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.Start(trace.WithUnit(ctx, u.Name), trace.ScopeUnit, "check")
	defer span.End("")

	threshold := opts.Config.FatalSeverity()
	if opts.Cache != nil && !digest.IsZero() {
		var cached Result
		hit, err := opts.Cache.Get(digest, &cached)
		if err != nil {
			return nil, fmt.Errorf("cache lookup for %s: %w", u.Name, err)
		}
		if hit {
			cached.Cached = true
			cached.Files = u.FileSet()
			cached.Fatal = hasFatal(cached.Faults, threshold)
			cached.capFaults(opts.Config.Check.MaxFaults)
			span.Set("cached", "true")
			return &cached, nil
		}
	}

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	bag := diag.NewBag(0)
	for _, f := range u.Faults {
		bag.Add(f)
	}
	reporter := diag.BagReporter{Bag: bag}
	phase := func(name string, fn func() string) {
		opts.Observer.emit(PhaseEvent{Unit: u.Name, Name: name, Status: PhaseStart})
		idx := timer.Begin(u.Name, name)
		started := time.Now()
		note := fn()
		timer.End(idx, note)
		opts.Observer.emit(PhaseEvent{Unit: u.Name, Name: name, Status: PhaseEnd, Elapsed: time.Since(started)})
	}

	var (
		resolved *symbols.Result
		lowered  *hir.Response
		typed    *sema.TypedResponse
	)
	phase(observ.PassResolve, func() string {
		resolved = symbols.Resolve(ctx, u.Tree, symbols.Options{Reporter: reporter})
		return strconv.Itoa(resolved.Decls.Len()) + " decls"
	})
	phase(observ.PassLower, func() string {
		lowered = hir.Lower(ctx, u.Tree, resolved, hir.Options{Reporter: reporter})
		return strconv.Itoa(len(lowered.Module.Exprs)-1) + " exprs"
	})
	phase(observ.PassInfer, func() string {
		typed = sema.Infer(ctx, lowered.Module, sema.Options{Reporter: reporter})
		return strconv.Itoa(len(typed.AutoCopies)) + " auto-copies"
	})

	res := &Result{
		Unit:   u.Name,
		Digest: digest,
		HIR:    lowered,
		Typed:  typed,
		Faults: bag.Items(),
		Fatal:  bag.HasFatal(threshold),
		Timing: timer.UnitReport(u.Name),
		Files:  u.FileSet(),
	}
	span.Set("faults", strconv.Itoa(len(res.Faults)))

	if opts.Cache != nil && !digest.IsZero() {
		if err := opts.Cache.Put(digest, res); err != nil {
			return nil, fmt.Errorf("cache store for %s: %w", u.Name, err)
		}
	}
	res.capFaults(opts.Config.Check.MaxFaults)
	if opts.Timings {
		if note, ok := timingNote(u.Name, res.Timing); ok {
			res.Faults = append(res.Faults, note)
		}
	}
	return res, nil
}

// capFaults keeps the first limit faults and counts the rest as dropped.
// Fatal is left as computed over the full list.
func (r *Result) capFaults(limit int) {
	if limit <= 0 || len(r.Faults) <= limit {
		return
	}
	r.Dropped += len(r.Faults) - limit
	r.Faults = r.Faults[:limit:limit]
}

func hasFatal(faults []diag.Diagnostic, threshold diag.Severity) bool {
	for i := range faults {
		if faults[i].Severity.IsFatal(threshold) {
			return true
		}
	}
	return false
}
