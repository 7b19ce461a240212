package main

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/calc/internal/shell"
)

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("shell needs an interactive terminal")
			}
			// The terminal belongs to the shell, so logs go to a file if anywhere.
			log, closeLog, err := a.cfg.FileLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			a.log = log
			ctx := cmd.Context()
			h, done, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer done()
			debounce := a.cfg.Debounce
			if debounce == 0 {
				debounce = -1
			}
			m := shell.New(ctx, shell.Options{
				Engine:   a.engine(),
				History:  h,
				Logger:   log,
				MaxInput: a.cfg.MaxInput,
				Debounce: debounce,
			})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}
