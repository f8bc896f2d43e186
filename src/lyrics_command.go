package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/contre95/neteaselyrics/src/music"
	"github.com/spf13/cobra"
)

var errNoLyrics = errors.New("no lyrics found")

func newLyricsCommand(ctx *commandContext) *cobra.Command {
	var provider string
	var index int
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "lyrics <term>",
		Short: "Print the lyrics of the best matching song",
		Long: "Searches for <term> and prints the lyrics of the first candidate that has any.\n" +
			"With --index only that candidate (as numbered by 'search') is tried.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			name := app.providerName(provider)
			candidates, err := app.lyrics.SearchCandidates(cmd.Context(), name, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("index") {
				if index < 0 || index >= len(candidates) {
					return fmt.Errorf("index %d out of range, %d candidates found", index, len(candidates))
				}
				candidates = candidates[index : index+1]
			}

			var found *music.Lyrics
			for _, c := range candidates {
				found, err = app.lyrics.FetchLyrics(cmd.Context(), name, c)
				if err != nil {
					return err
				}
				if found != nil {
					break
				}
			}
			if found == nil {
				return errNoLyrics
			}

			if output == "" {
				return writeLyrics(cmd.OutOrStdout(), found, format)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()
			if err := writeLyrics(f, found, format); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Saved", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Lyrics provider (defaults to the first enabled one)")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "Only fetch the candidate at this position")
	cmd.Flags().StringVarP(&format, "format", "f", formatLRC, "Output format: lrc, text or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
