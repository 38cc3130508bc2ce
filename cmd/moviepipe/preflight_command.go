package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"moviepipe/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var checkOMDb bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check inputs, directories and the store before a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{CheckOMDb: checkOMDb})

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil, shouldColorize(out)))
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOMDb, "omdb", false, "Also probe the OMDb API (uses one request of the daily quota)")
	return cmd
}
