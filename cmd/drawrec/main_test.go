package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with an empty config file so that no
// drawrec.toml above the test directory is picked up.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "drawrec.toml")
	if err := os.WriteFile(cfg, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--config", cfg, "--color", "off"))
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunStdout(t *testing.T) {
	out, _, err := execute(t, "run", "fib", "6", "--stdout", "--no-graph")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"fib(6)-> 8 successfully returned in",
		"Return Value: 8\n",
		"Max Recursion Depth: 5\n",
		"Total Recursive Calls: 25\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestRunArchiveAndReplay(t *testing.T) {
	dir := t.TempDir()
	out, stderr, err := execute(t, "run", "fib", "3", "--stdout=false", "--no-graph", "--archive", "--dir", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "2\n" {
		t.Fatalf("output = %q, want the bare result", out)
	}
	archive := filepath.Join(dir, "fib(3).mp")
	if !strings.Contains(stderr, "wrote "+archive) {
		t.Fatalf("stderr = %q", stderr)
	}

	out, _, err = execute(t, "replay", archive, "--tree")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out, "Total Recursive Calls: 5") || !strings.Contains(out, "└── fib(1)-> 1") {
		t.Fatalf("replay output:\n%s", out)
	}
}

func TestRunUnknownExample(t *testing.T) {
	if _, _, err := execute(t, "run", "nope"); err == nil || !strings.Contains(err.Error(), "unknown example") {
		t.Fatalf("error = %v", err)
	}
}

func TestBatch(t *testing.T) {
	out, stderr, err := execute(t, "batch", "fib:4", "willPanic:2", "hanoi",
		"--stdout=false", "--no-graph", "--trace-level", "error", "--trace-mode", "ring", "--timings")
	if err == nil || err.Error() != "1 of 3 runs failed" {
		t.Fatalf("error = %v", err)
	}
	want := "fib:4 = 3\n" +
		"willPanic:2: panic: Panic! at depth 2 caused by call: willPanic(0)-> !\n" +
		"hanoi = 7\n"
	if out != want {
		t.Fatalf("output mismatch:\n got: %q\nwant: %q", out, want)
	}
	if !strings.Contains(stderr, "--- trace (last events) ---") {
		t.Fatalf("stderr is missing the trace dump:\n%s", stderr)
	}
	if !strings.Contains(stderr, "timings:") || !strings.Contains(stderr, "// failed") {
		t.Fatalf("stderr is missing timings:\n%s", stderr)
	}
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range []string{"fib", "fastExp", "gridTraveler", "willPanic", "randomPanic", "ackermann", "hanoi"} {
		if !strings.Contains(out, name) {
			t.Errorf("list is missing %s", name)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "drawrec"`) {
		t.Fatalf("output = %s", out)
	}
}
