package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uwscr/uwscr-core/ast"
	"github.com/uwscr/uwscr-core/internal/evaluator"
	"github.com/uwscr/uwscr-core/internal/settings"
)

var (
	dumpAST    bool
	configPath string
	scriptArgs []string
)

var runCmd = &cobra.Command{
	Use:   "run <program.json>",
	Short: "Evaluate a JSON-serialized AST program",
	Long: `Execute a program whose AST has already been produced by an external
front end and serialized to JSON (see ast.Program's MarshalJSON/
UnmarshalJSON). The lexer/parser producing that AST is outside this
repository's scope.

Examples:
  uwscr run examples/hello.json
  uwscr run --dump-ast examples/hashtbl_sort.json
  uwscr run --option uwscr.yaml examples/hello.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the decoded AST before executing it")
	runCmd.Flags().StringVar(&configPath, "option", "", "path to a YAML Option settings file")
	runCmd.Flags().StringArrayVar(&scriptArgs, "param", nil, "a PARAM_STR entry (repeatable)")
}

func runProgram(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		if err := loadSettings(configPath); err != nil {
			return fmt.Errorf("loading %s: %w", configPath, err)
		}
	}
	return runFile(cmd.OutOrStdout(), args[0], scriptArgs, dumpAST)
}

// runFile decodes the JSON AST at path and evaluates it with out as the
// PRINT sink and params seeding PARAM_STR. Split out from runProgram so
// integration tests can exercise it without going through cobra/os.Stdout.
func runFile(out io.Writer, path string, params []string, dump bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var prog ast.Program
	if err := json.Unmarshal(data, &prog); err != nil {
		return fmt.Errorf("decoding AST: %w", err)
	}
	if prog.ScriptName == "" {
		prog.ScriptName = path
	}

	if dump {
		fmt.Fprintln(out, "AST:")
		fmt.Fprintln(out, prog.String())
		fmt.Fprintln(out)
	}

	e := evaluator.New(params)
	e.Output = out
	if _, err := e.Run(&prog, false); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func loadSettings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return settings.LoadYAML(data)
}
