// Package cmd implements the dust command-line front-end: a zero-or-one-
// argument entry point that drops into the REPL with no file, or executes
// one when given (§6 of the language spec).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dust [script]",
	Short: "Dust interpreter",
	Long: `dust is a tree-walking interpreter for the Dust scripting language:
a small statically-typed imperative language with primitive values,
reference-typed containers (strings, vectors, classes), first-class
user functions, a dyn escape hatch, and a Result "check before use"
discipline.

With no arguments, dust starts an interactive read-eval-print loop.
With one file argument, dust executes that file and exits.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRootCommand,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func runRootCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runREPL(os.Stdin, os.Stdout)
	}
	return runFile(args[0])
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
