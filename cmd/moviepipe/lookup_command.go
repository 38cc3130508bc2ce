package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"moviepipe/internal/enrichment"
	"moviepipe/internal/enrichment/omdb"
	"moviepipe/internal/pipeline"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "lookup TITLE",
		Short: "Resolve one title against OMDb and print its metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := pipeline.NewClient(cfg)
			if err != nil {
				return err
			}

			title := strings.Join(args, " ")
			res := enrichment.Resolve(cmd.Context(), client, title, omdb.LookupOptions{Year: year})
			out := cmd.OutOrStdout()

			switch res.Outcome {
			case enrichment.OutcomeQuotaExhausted:
				return errors.New("omdb daily request limit reached; try again after the quota resets")
			case enrichment.OutcomeNotFound:
				if res.Err != nil {
					return fmt.Errorf("lookup %q: %w", title, res.Err)
				}
				fmt.Fprintf(out, "No data found for %q\n", title)
				return nil
			}

			rows := [][]string{
				{"Title", title},
				{"IMDb ID", res.IMDbID},
				{"Matched via", string(res.Via)},
				{"Director", valueOrDash(res.Details.Director)},
				{"Year", valueOrDash(res.Details.Year)},
				{"Box office", valueOrDash(res.Details.BoxOffice)},
				{"Plot", valueOrDash(res.Details.Plot)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release year used to disambiguate the direct title lookup")
	return cmd
}
