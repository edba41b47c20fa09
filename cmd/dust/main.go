// Command dust runs the Dust interpreter: a REPL with no arguments, or a
// script file when given one.
package main

import (
	"os"

	"github.com/duskrun/dust/cmd/dust/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
