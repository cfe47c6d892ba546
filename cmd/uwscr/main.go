// Command uwscr is a thin cobra CLI wrapping the evaluator core: a "run"
// subcommand and a "version" subcommand, with the evaluator's input read
// from a JSON-serialized ast.Program rather than parsed from source (the
// lexer/parser front end is a separate component).
package main

import (
	"fmt"
	"os"

	"github.com/uwscr/uwscr-core/cmd/uwscr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
