package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/interp"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalSource string
	dumpIR     bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a Dust script",
	Long:  `Lexes, parses, lowers, and executes a Dust script file, or an inline snippet given with --eval.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalSource != "" {
			return runSource(evalSource, os.Stdout, os.Stderr)
		}
		if len(args) == 0 {
			return rootCmd.Help()
		}
		return runFile(args[0])
	},
}

func init() {
	runCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "execute an inline snippet instead of a file")
	runCmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "print the lowered instruction list instead of executing")
	rootCmd.AddCommand(runCmd)
}

// runFile executes one script file and exits 1 on an I/O error opening it or
// on an interpreter error (§6 "Exit codes").
func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		exitWithError("cannot read %s: %v", path, err)
	}
	return runSource(string(source), os.Stdout, os.Stderr)
}

// runSource lexes, parses, and executes source, rendering any error to errOut
// and exiting 1 (§6). With --dump-ir set, it prints the lowered instruction
// list to out instead of executing.
func runSource(source string, out, errOut io.Writer) error {
	s := interp.NewSession()
	instrs, perr := parser.Parse(s.Parse, source)
	if perr != nil {
		fmt.Fprintln(errOut, errors.Render(perr, s.Parse.SourceCode, s.Exec.Backtrace))
		os.Exit(1)
	}

	if dumpIR {
		dumpInstructions(out, instrs, 0)
		return nil
	}

	ev := interp.NewEvaluator(s)
	if err := ev.ExecProgram(instrs); err != nil {
		fmt.Fprintln(errOut, errors.Render(err, s.Parse.SourceCode, s.Exec.Backtrace))
		os.Exit(1)
	}
	return nil
}

// dumpInstructions prints one line per instruction, indented by nesting
// depth, naming its kind and recursing into its nested blocks.
func dumpInstructions(out io.Writer, instrs []ir.Instruction, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, instr := range instrs {
		fmt.Fprintf(out, "%s%s\n", indent, instr.Kind)
		switch instr.Kind {
		case ir.IBranch:
			dumpInstructions(out, instr.Branch.Body, depth+1)
			for _, ei := range instr.Branch.ElseIfs {
				dumpInstructions(out, ei.Body, depth+1)
			}
			if instr.Branch.ElseBody != nil {
				dumpInstructions(out, instr.Branch.ElseBody, depth+1)
			}
		case ir.IWhileLoop:
			dumpInstructions(out, instr.While.Body, depth+1)
		case ir.IForLoop:
			dumpInstructions(out, instr.For.Body, depth+1)
		}
	}
}
