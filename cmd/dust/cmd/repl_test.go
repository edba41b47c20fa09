package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func runREPLWithInput(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := runREPL(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String()
}

func TestRunREPL_EvaluatesExpressionsAcrossInputs(t *testing.T) {
	out := runREPLWithInput(t, "let x = 1\nx = x + 1\nq\n")
	if !strings.Contains(out, replPrompt) {
		t.Fatalf("expected the prompt to be printed, got %q", out)
	}
	if strings.Contains(out, "Error:") {
		t.Fatalf("expected both inputs to evaluate cleanly, got %q", out)
	}
}

func TestRunREPL_QuitCommandsStopTheLoop(t *testing.T) {
	for _, quit := range []string{"q", "Q", "exit"} {
		out := runREPLWithInput(t, quit+"\n")
		if strings.Count(out, replPrompt) != 1 {
			t.Fatalf("%q: expected exactly one prompt before quitting, got %q", quit, out)
		}
	}
}

func TestRunREPL_EOFWithNoPendingInputExitsCleanly(t *testing.T) {
	runREPLWithInput(t, "")
}

func TestRunREPL_ClearWritesTheEscapeSequence(t *testing.T) {
	out := runREPLWithInput(t, "clear\nq\n")
	if !strings.Contains(out, clearScreen) {
		t.Fatalf("expected the clear escape sequence, got %q", out)
	}
}

func TestRunREPL_ResetDropsPriorBindings(t *testing.T) {
	out := runREPLWithInput(t, "let x = 1\nreset\nx\nq\n")
	if !strings.Contains(out, "Error:") {
		t.Fatalf("expected a reported error reading x after reset, got %q", out)
	}
}

func TestRunREPL_TrailingBackslashContinuesTheLine(t *testing.T) {
	out := runREPLWithInput(t, "let x = \\\n1\nq\n")
	if strings.Contains(out, "Error:") {
		t.Fatalf("expected the continued line to parse cleanly, got %q", out)
	}
}

func TestRunREPL_ParseErrorIsRendered(t *testing.T) {
	out := runREPLWithInput(t, "let x = \nq\n")
	if !strings.Contains(out, "Error:") {
		t.Fatalf("expected a rendered syntax error, got %q", out)
	}
}
