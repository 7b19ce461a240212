package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/history"
	"github.com/zephyrtronium/calc/internal/config"
)

// app holds state shared by all commands.
type app struct {
	cfg config.Config
	log *slog.Logger

	inname string
	places int
	lines  bool
	echo   bool
	save   bool
}

func newRootCmd() *cobra.Command {
	a := new(app)
	root := &cobra.Command{
		Use:   "calc [expression...]",
		Short: "Evaluate calculator expressions",
		Long: `Calc evaluates arithmetic expressions made of decimal numbers, the
operators + - * /, and parentheses. Each expression prints its result rounded
to a fixed number of decimal places, "?" if the expression is invalid or cannot
be computed, or "Too Small" if the result is too close to zero to display.

With no arguments, expressions are read from standard input.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
		RunE: a.runEval,
	}
	root.Flags().StringVar(&a.inname, "in", "", "input file (default stdin if no args given)")
	root.Flags().IntVarP(&a.places, "places", "p", -1, "decimal places in results (default from CALC_DECIMAL_PLACES)")
	root.Flags().BoolVarP(&a.lines, "lines", "n", false, "treat separate input lines as separate expressions")
	root.Flags().BoolVar(&a.echo, "echo", false, "print parse trees")
	root.Flags().BoolVar(&a.save, "save", false, "save results to history")
	root.AddCommand(a.historyCmd(), a.shellCmd())
	return root
}

func (a *app) engine() *calc.Engine {
	places := a.cfg.DecimalPlaces
	if a.places >= 0 {
		places = a.places
	}
	return calc.NewEngine(calc.Places(places))
}

func (a *app) runEval(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	exprs := args
	if len(args) == 0 || a.inname != "" {
		in, done, err := infile(cmd, a.inname)
		if err != nil {
			return err
		}
		defer done()
		e, err := readExprs(in, a.lines)
		if err != nil {
			return err
		}
		exprs = append(e, args...)
	}

	var h *history.History
	if a.save {
		hist, done, err := a.openHistory(ctx)
		if err != nil {
			return err
		}
		defer done()
		h = hist
	}

	e := a.engine()
	w := cmd.OutOrStdout()
	for _, expr := range exprs {
		r := a.eval(ctx, w, e, expr)
		if h != nil && r != "0" {
			if err := h.Save(ctx, strings.TrimSpace(expr), r); err != nil {
				return fmt.Errorf("saving %q: %w", expr, err)
			}
		}
	}
	return nil
}

// eval prints the result of one expression and returns it.
func (a *app) eval(ctx context.Context, w io.Writer, e *calc.Engine, expr string) string {
	if a.echo {
		x, err := e.Compile(expr)
		if err != nil {
			fmt.Fprintf(w, "%v : ", err)
		} else {
			fmt.Fprintf(w, "%v : ", x)
		}
	}
	r := e.Evaluate(expr)
	if r == calc.Unknown {
		if _, err := e.Calculate(expr); err != nil {
			a.log.InfoContext(ctx, "no result", slog.String("expression", expr), slog.Any("err", err))
		}
	}
	fmt.Fprintln(w, r)
	return r
}

// infile opens the named input, or the command's standard input for "" or
// "-". The returned function closes the input.
func infile(cmd *cobra.Command, inname string) (io.Reader, func() error, error) {
	if inname == "" || inname == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(inname)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// readExprs reads expressions from r. If lines is set, each non-blank line is
// one expression; otherwise the whole input is one expression with line
// breaks treated as spaces.
func readExprs(r io.Reader, lines bool) ([]string, error) {
	var exprs, all []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if lines {
			exprs = append(exprs, line)
		} else {
			all = append(all, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !lines && len(all) > 0 {
		exprs = append(exprs, strings.Join(all, " "))
	}
	return exprs, nil
}

// openHistory opens the configured history store. The returned function
// releases it.
func (a *app) openHistory(ctx context.Context) (*history.History, func() error, error) {
	opts := []history.Option{history.MaxItems(a.cfg.HistoryMax), history.WithLogger(a.log)}
	path := a.cfg.HistoryPath
	switch a.cfg.HistoryBackend {
	case config.BackendSQLite:
		if path == "" {
			p, err := history.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = strings.TrimSuffix(p, filepath.Ext(p)) + ".db"
		}
		b, err := history.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return history.New(ctx, b, opts...), b.Close, nil
	default:
		b, err := history.NewFileBackend(path)
		if err != nil {
			return nil, nil, err
		}
		return history.New(ctx, b, opts...), func() error { return nil }, nil
	}
}
