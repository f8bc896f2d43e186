package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var provider string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "List songs matching a search term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			candidates, err := app.lyrics.SearchCandidates(cmd.Context(), app.providerName(provider), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(candidates)
			}
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No songs found.")
				return nil
			}
			fmt.Fprintln(out, candidateTable(candidates))
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Lyrics provider (defaults to the first enabled one)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print candidates as JSON")
	return cmd
}
