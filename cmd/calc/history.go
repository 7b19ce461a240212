package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/history"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved calculations, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			w := cmd.OutOrStdout()
			for i, it := range h.Items() {
				fmt.Fprintf(w, "%2d  %s\n", i+1, history.Display(it))
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all saved calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return h.Clear(cmd.Context())
		},
	})
	return cmd
}
