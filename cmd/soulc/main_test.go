package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soul/internal/ast"
	"soul/internal/diagfmt"
	"soul/internal/driver"
	"soul/internal/testkit"
)

func writeUnit(t *testing.T, dir, name string, build func(tr *testkit.Tree)) string {
	t.Helper()
	tr := testkit.NewTree()
	build(tr)
	path := filepath.Join(dir, name+driver.UnitExt)
	u := &driver.Unit{
		Name:  name,
		Files: []driver.UnitFile{{Path: name + ".soul", Content: []byte(strings.Repeat("x", 128))}},
		Tree:  tr.B,
	}
	if err := driver.WriteUnit(path, u); err != nil {
		t.Fatalf("write unit: %v", err)
	}
	return path
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, driver.ConfigFileName)
	if err := os.WriteFile(path, []byte("[check]\nfatal = \"error\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	writeUnit(t, dir, "clean", func(tr *testkit.Tree) {
		tr.Root(tr.Func("main", nil, ast.NoTypeID, tr.Let("x", tr.Int("1"))))
	})
	writeUnit(t, dir, "faulty", func(tr *testkit.Tree) {
		tr.Root(tr.Func("main", nil, ast.NoTypeID, tr.Let("y", tr.Ident("missing"))))
	})

	stdout, stderr, err := run(t, "check", "--config", cfg, "--color", "off", "--ui", "off", "--format", "short", dir)
	var ee exitError
	if !errors.As(err, &ee) || ee.code != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	if !strings.Contains(stdout, "faulty.soul") || !strings.Contains(stdout, "SEM") {
		t.Fatalf("short output lacks the fault:\n%s", stdout)
	}
	if strings.Contains(stdout, "clean.soul") {
		t.Fatalf("clean unit printed faults:\n%s", stdout)
	}
	if !strings.Contains(stderr, "checked 2 units") || !strings.Contains(stderr, "1 failed") {
		t.Fatalf("unexpected summary:\n%s", stderr)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	path := writeUnit(t, dir, "faulty", func(tr *testkit.Tree) {
		tr.Root(tr.Func("main", nil, ast.NoTypeID, tr.Let("y", tr.Ident("missing"))))
	})

	stdout, _, err := run(t, "check", "--config", cfg, "--ui", "off", "--format", "json", path)
	if err == nil {
		t.Fatal("expected a failing exit status")
	}
	var outputs []diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(stdout), &outputs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if len(outputs) != 1 || outputs[0].Unit != "faulty" || outputs[0].Count == 0 {
		t.Fatalf("unexpected JSON output %+v", outputs)
	}
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	path := writeUnit(t, dir, "clean", func(tr *testkit.Tree) {
		tr.Root(tr.Func("main", nil, ast.NoTypeID, tr.Let("x", tr.Int("1"))))
	})

	stdout, _, err := run(t, "dump", "--config", cfg, "--format", "hir", path)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(stdout, ":: int") {
		t.Fatalf("typed HIR lacks expression types:\n%s", stdout)
	}

	out := filepath.Join(dir, "clean.mp")
	if _, _, err := run(t, "dump", "--config", cfg, "--format", "msgpack", "-o", out, path); err != nil {
		t.Fatalf("dump msgpack: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	res, err := driver.Codec{Format: driver.FormatMsgpack}.Decode(f)
	if err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if res.Unit != "clean" || res.Fatal {
		t.Fatalf("unexpected decoded result %+v", res)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, driver.Summary{Units: 1, Faults: 2, Cached: 1})
	if got, want := buf.String(), "checked 1 unit, 2 errors, 0 warnings, 1 cached: ok\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
