package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"soul/internal/diag"
	"soul/internal/diagfmt"
	"soul/internal/driver"
	"soul/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <unit.unit|directory>...",
	Short: "Check prepared units and report faults",
	Long: `Run name resolution, HIR lowering and type inference over every unit and
print the faults. Directories are searched recursively for *.unit files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|golden|json)")
	checkCmd.Flags().Bool("with-notes", false, "include fault notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Int("jobs", 0, "max units checked in parallel (0 = config value)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse results from the persistent disk cache")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type checkFlags struct {
	format    string
	withNotes bool
	pathMode  diagfmt.PathMode
	color     bool
	quiet     bool
	timings   bool
	ui        uiMode
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var (
		f   checkFlags
		err error
	)
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, err
	}
	switch f.format {
	case "pretty", "short", "golden", "json":
	default:
		return f, errInvalidFlag("format", f.format, "pretty|short|golden|json")
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return f, err
	}
	if fullPath {
		f.pathMode = diagfmt.PathModeAbsolute
	}
	if f.color, err = useColor(cmd); err != nil {
		return f, err
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, err
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	return f, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("jobs") {
		if cfg.Check.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return err
		}
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return err
	}
	if diskCache {
		cfg.Cache.Enabled = true
	}

	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := driver.ListUnits(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", driver.UnitExt)
	}

	opts := driver.Options{
		Config:  cfg,
		Timer:   observ.NewTimer(),
		Timings: flags.timings,
	}
	if cfg.Cache.Enabled {
		if opts.Cache, err = driver.OpenDiskCache(cfg.Cache.Dir, "soul"); err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	var results []driver.UnitResult
	if flags.ui.active(flags) {
		results, err = runCheckWithUI(cmd.Context(), paths, opts)
	} else {
		results, err = driver.CheckUnits(cmd.Context(), paths, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := renderResults(out, results, flags); err != nil {
		return err
	}

	dumpFailedUnits(cmd.ErrOrStderr(), results)

	sum := driver.Summarize(results)
	if !flags.quiet && flags.format != "json" {
		printSummary(cmd.ErrOrStderr(), sum)
		if flags.timings {
			printTimings(cmd.ErrOrStderr(), opts.Timer)
		}
	}
	if sum.Fatal > 0 {
		return exitError{code: 1}
	}
	return nil
}

func renderResults(out io.Writer, results []driver.UnitResult, flags checkFlags) error {
	if flags.format == "json" {
		outputs := make([]diagfmt.DiagnosticsOutput, 0, len(results))
		for _, r := range results {
			outputs = append(outputs, diagfmt.BuildDiagnosticsOutput(resultBag(r.Result), r.Result.Files, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         flags.pathMode,
				IncludeNotes:     flags.withNotes,
				Unit:             r.Result.Unit,
			}))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outputs); err != nil {
			return fmt.Errorf("failed to format faults: %w", err)
		}
		return nil
	}

	for _, r := range results {
		res := r.Result
		if len(res.Faults) == 0 && res.Dropped == 0 {
			continue
		}
		var err error
		switch flags.format {
		case "pretty":
			err = diagfmt.Pretty(out, resultBag(res), res.Files, diagfmt.PrettyOpts{
				Color:     flags.color,
				Context:   2,
				PathMode:  flags.pathMode,
				ShowNotes: flags.withNotes,
				Unit:      res.Unit,
			})
		case "short":
			err = diagfmt.Short(out, resultBag(res), res.Files, diagfmt.PrettyOpts{PathMode: flags.pathMode, Unit: res.Unit})
		case "golden":
			if s := diag.FormatGoldenDiagnostics(res.Unit, res.Faults, res.Files, flags.withNotes); s != "" {
				_, err = fmt.Fprintln(out, s)
			}
		}
		if err != nil {
			return fmt.Errorf("failed to format faults for %s: %w", res.Unit, err)
		}
	}
	return nil
}

func resultBag(res *driver.Result) *diag.Bag {
	return diag.BagOf(res.Faults, res.Dropped)
}

func printSummary(w io.Writer, s driver.Summary) {
	parts := []string{plural(s.Units, "unit"), plural(s.Faults, "error"), plural(s.Warnings, "warning")}
	if s.Cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", s.Cached))
	}
	status := "ok"
	if s.Fatal > 0 {
		status = fmt.Sprintf("%d failed", s.Fatal)
	}
	fmt.Fprintf(w, "checked %s: %s\n", strings.Join(parts, ", "), status)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
