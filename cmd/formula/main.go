// Command formula evaluates arithmetic formulas given as arguments or read
// from a file or standard input.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitUsage)
	}
}

type options struct {
	in      string
	verb    string
	given   []string
	vars    []string
	prec    uint
	lines   bool
	echo    bool
	strict  bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "formula [flags] [expression...]",
		Short: "Evaluate arithmetic formulas",
		Long: `formula evaluates arithmetic formulas over real numbers and arrays.

Each argument is one expression. With no arguments, expressions are read from
--in, or from standard input if --in is not given. Variables are bound with
--vars files (YAML, JSON, or TOML) and --given definitions; later bindings
override earlier ones.`,
		Example: `  formula --given a=3 --given b=4 'sqrt(a^2 + b^2)'
  formula -n --vars vars.yaml --in exprs.txt`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}
	cmd.Version = version
	cmd.SetVersionTemplate(fmt.Sprintf("formula version %s\n", version))

	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "input file, - for stdin (default stdin if no args given)")
	f.StringVar(&opts.verb, "fmt", "%g", "result formatting string")
	f.StringArrayVar(&opts.given, "given", nil, "name=value variable definition (any number of times)")
	f.StringArrayVar(&opts.vars, "vars", nil, "YAML, JSON, or TOML file of variables (any number of times)")
	f.UintVarP(&opts.prec, "prec", "p", 64, "precision of function calculations in bits")
	f.BoolVarP(&opts.lines, "lines", "n", false, "parse separate input lines as separate expressions")
	f.BoolVar(&opts.echo, "echo", false, "print parse trees")
	f.BoolVar(&opts.strict, "strict", false, "require arrays combined by operators to have equal shapes")
	f.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	return cmd
}
