package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"soul/internal/driver"
	"soul/internal/hir"
	"soul/internal/observ"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <unit.unit>",
	Short: "Check one unit and write its HIR and typed responses",
	Long: `Check one unit and write the result. The msgpack format is lossless and can
be read back; json adds type labels for reading; hir prints the lowered
module annotated with inferred types.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("format", "hir", "output format (hir|json|msgpack)")
	dumpCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	dumpCmd.Flags().Bool("spans", false, "print statement spans in hir output")
}

func runDump(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	spans, err := cmd.Flags().GetBool("spans")
	if err != nil {
		return err
	}
	var codec *driver.Codec
	if format != "hir" {
		f, err := driver.ParseFormat(format)
		if err != nil {
			return errInvalidFlag("format", format, "hir|json|msgpack")
		}
		codec = &driver.Codec{Format: f, Indent: true}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	unit, digest, err := driver.LoadUnit(args[0])
	if err != nil {
		return err
	}
	res, err := driver.Check(cmd.Context(), unit, digest, driver.Options{Config: cfg, Timer: observ.NewTimer()})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)

	if codec != nil {
		err = codec.Encode(w, res)
	} else {
		err = hir.DumpWithOptions(w, res.HIR.Module, hir.DumpOptions{ExprTypes: res.Typed.ExprTypes, Spans: spans})
	}
	if err != nil {
		return fmt.Errorf("failed to write %s output: %w", format, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if res.Fatal {
		return exitError{code: 1}
	}
	return nil
}
