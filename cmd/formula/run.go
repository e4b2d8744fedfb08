package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/bindings"
)

func run(cmd *cobra.Command, opts *options, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
	ev := formula.NewEvaluator(
		formula.Prec(opts.prec),
		formula.WithBackend(formula.Elementwise{Strict: opts.strict}),
	)

	vars, err := loadVars(ev, opts.vars, opts.given)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}
	logger.Debug("variables bound", "count", len(vars))

	ins, closer, err := inputs(cmd, opts.in, args)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	var popts []formula.ParseOption
	if opts.lines {
		popts = append(popts, formula.StopOn('\n'))
	}
	out := cmd.OutOrStdout()
	verb := opts.verb + "\n"
	var total, failed int
	for _, in := range ins {
		for {
			ok, err := more(in)
			if err != nil {
				return exitError(exitUsage, "reading input: %v", err)
			}
			if !ok {
				break
			}
			total++
			e, err := formula.Parse(in, popts...)
			if err != nil {
				var se *formula.SyntaxError
				if !errors.As(err, &se) {
					return exitError(exitUsage, "reading input: %v", err)
				}
				failed++
				logger.Error("parse failed", "col", se.Col, "reason", se.Reason)
				fmt.Fprintln(out, err)
				if !opts.lines {
					// The rest of the input can't be resynchronized.
					break
				}
				if err := skipLine(in); err != nil {
					return exitError(exitUsage, "reading input: %v", err)
				}
				continue
			}
			logger.Debug("parsed", "expr", e.String(), "vars", e.Vars(), "funcs", e.Funcs())
			if opts.echo {
				fmt.Fprintf(out, "%v : ", e)
			}
			r, err := ev.Eval(e, vars)
			if err != nil {
				failed++
				logger.Error("evaluation failed", "expr", e.String(), "err", err)
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, verb, r)
		}
	}
	if failed > 0 {
		return exitError(exitFailed, "%d of %d expressions failed", failed, total)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadVars reads variable files in order, then evaluates given definitions.
// Later bindings override earlier ones.
func loadVars(ev *formula.Evaluator, files, given []string) (formula.Vars, error) {
	tables := make([]formula.Vars, 0, len(files)+1)
	for _, name := range files {
		v, err := bindings.Load(name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, v)
	}
	g := make(formula.Vars, len(given))
	for _, s := range given {
		name, val, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		r, err := ev.EvalString(strings.TrimSpace(val), nil)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}
		g[name] = r
	}
	return bindings.Merge(append(tables, g)...), nil
}

// inputs collects the sources of expressions. The closer, if not nil, closes
// an opened input file.
func inputs(cmd *cobra.Command, inname string, args []string) ([]io.RuneScanner, io.Closer, error) {
	var ins []io.RuneScanner
	var closer io.Closer
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		ins = append(ins, &lineReader{RuneScanner: bufio.NewReader(f)})
		closer = f
	case inname == "-", len(args) == 0:
		ins = append(ins, &lineReader{RuneScanner: bufio.NewReader(cmd.InOrStdin())})
	}
	for _, arg := range args {
		ins = append(ins, &lineReader{RuneScanner: strings.NewReader(arg)})
	}
	return ins, closer, nil
}

// more skips whitespace and reports whether anything remains in the input.
func more(in io.RuneScanner) (bool, error) {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if !unicode.IsSpace(r) {
			return true, in.UnreadRune()
		}
	}
}

// skipLine discards input through the end of the current line, unless the
// last rune read already ended it.
func skipLine(in io.RuneScanner) error {
	if lr, ok := in.(*lineReader); ok && lr.last == '\n' {
		return nil
	}
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// lineReader remembers the last rune read.
type lineReader struct {
	io.RuneScanner
	last, prev rune
}

func (r *lineReader) ReadRune() (rune, int, error) {
	c, n, err := r.RuneScanner.ReadRune()
	if err == nil {
		r.prev, r.last = r.last, c
	}
	return c, n, err
}

func (r *lineReader) UnreadRune() error {
	err := r.RuneScanner.UnreadRune()
	if err == nil {
		r.last = r.prev
	}
	return err
}
