package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestRunFile_ExecutesAValidScript only covers the clean-exit path: runFile
// calls os.Exit(1) on a parse or evaluation error (§6 "Exit codes"), which
// would tear down the test binary itself rather than fail the test, so the
// error paths aren't exercised here.
func TestRunFile_ExecutesAValidScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.dust")
	if err := os.WriteFile(path, []byte("let x = 1\nlet y = x + 1\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := runFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunSource_DumpIRPrintsInstructionsInsteadOfExecuting(t *testing.T) {
	dumpIR = true
	defer func() { dumpIR = false }()

	var out, errOut bytes.Buffer
	if err := runSource("let x = 1\nif x == 1 {\n  let y = 2\n}\n", &out, &errOut); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errOut.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", errOut.String())
	}
	got := out.String()
	if !strings.Contains(got, "VariableInit") || !strings.Contains(got, "Branch") {
		t.Fatalf("expected the dumped instruction kinds, got %q", got)
	}
}
