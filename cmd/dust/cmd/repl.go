package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/interp"
	"github.com/duskrun/dust/internal/parser"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive read-eval-print loop",
	Long:  `Starts the Dust REPL described in §6: q/Q/exit to quit, clear to clear the screen, reset to drop all bindings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

const replPrompt = "dust> "

// clearScreen is the standard ANSI "clear and home cursor" escape sequence
// (§6 "`clear` ⇒ screen clear escape then flush").
const clearScreen = "\x1b[H\x1b[2J"

// runREPL implements §6's read-eval-print loop: exact-match quit/clear/reset
// commands, trailing-backslash line continuation, and a session whose
// accumulated source and scope persist across inputs until `reset`.
func runREPL(in io.Reader, out io.Writer) error {
	s := interp.NewSession()
	ev := interp.NewEvaluator(s)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, replPrompt)
		input, ok := readAssembledInput(scanner)
		if !ok {
			return nil // EOF ⇒ exit code 0
		}

		switch input {
		case "q", "Q", "exit":
			return nil
		case "clear":
			fmt.Fprint(out, clearScreen)
			if f, ok := out.(flusher); ok {
				f.Flush()
			}
			continue
		case "reset":
			s.Clear()
			ev = interp.NewEvaluator(s)
			continue
		case "":
			continue
		}

		instrs, perr := parser.Parse(s.Parse, input)
		if perr != nil {
			fmt.Fprintln(out, errors.Render(perr, s.Parse.SourceCode, s.Exec.Backtrace))
			s.Exec.ClearBacktrace()
			continue
		}
		if err := ev.ExecProgram(instrs); err != nil {
			fmt.Fprintln(out, errors.Render(err, s.Parse.SourceCode, s.Exec.Backtrace))
			s.Exec.ClearBacktrace()
		}
	}
}

// flusher is satisfied by *bufio.Writer and similar; runREPL only flushes
// when its out happens to support it (os.Stdout itself needs none).
type flusher interface{ Flush() error }

// readAssembledInput reads lines until one has no trailing backslash,
// replacing each backslash-continuation with a newline (§6). Returns
// ok == false on EOF with no pending input.
func readAssembledInput(scanner *bufio.Scanner) (string, bool) {
	var sb strings.Builder
	for {
		if !scanner.Scan() {
			if sb.Len() == 0 {
				return "", false
			}
			return sb.String(), true
		}
		line := scanner.Text()
		if strings.HasSuffix(line, "\\") {
			sb.WriteString(strings.TrimSuffix(line, "\\"))
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(line)
		return sb.String(), true
	}
}
