package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags (-ldflags "-X ...Version=...").
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "uwscr",
	Short: "uwscr-core: the evaluator core of a Windows desktop automation scripting language",
	Long: `uwscr-core is a tree-walking evaluator for a Windows desktop automation
scripting language.

This binary is the core evaluator only: it executes a pre-parsed program
(the "run" command reads a JSON-serialized AST, since the lexer/parser
front end is a separate, out-of-scope component) and carries none of the
wider builtin library, FFI, or browser-automation surface of a full
distribution.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
