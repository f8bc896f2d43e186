package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/contre95/neteaselyrics/src/features/lyrics"
	"github.com/contre95/neteaselyrics/src/music"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newPickCommand(ctx *commandContext) *cobra.Command {
	var provider string
	var format string
	var save bool

	cmd := &cobra.Command{
		Use:   "pick <term>",
		Short: "Interactively choose a song and print its lyrics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("interactive selection requires a terminal; use 'lyrics --index' instead")
			}
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
			if len(candidates) == 0 {
				return errors.New("no songs found")
			}

			idx, err := chooseCandidate(candidates)
			if err != nil {
				return err
			}
			found, err := app.lyrics.FetchLyrics(cmd.Context(), name, candidates[idx])
			if err != nil {
				return err
			}
			if found == nil {
				return errNoLyrics
			}

			if !save {
				return writeLyrics(cmd.OutOrStdout(), found, format)
			}
			filename := lyrics.Filename(found)
			if err := os.WriteFile(filename, []byte(found.LRC()), 0644); err != nil {
				return fmt.Errorf("failed to save %s: %w", filename, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved", filename)
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Lyrics provider (defaults to the first enabled one)")
	cmd.Flags().StringVarP(&format, "format", "f", formatLRC, "Output format: lrc, text or json")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Save an 'Artist - Title.lrc' file instead of printing")
	return cmd
}

func chooseCandidate(candidates []music.SearchCandidate) (int, error) {
	options := make([]huh.Option[int], 0, len(candidates))
	for idx, c := range candidates {
		label := c.Name
		if artist := c.FirstArtist(); artist != "" {
			label = fmt.Sprintf("%s - %s", artist, c.Name)
		}
		if c.Album != "" {
			label = fmt.Sprintf("%s (%s, %s)", label, c.Album, formatDuration(c.DurationSeconds()))
		}
		options = append(options, huh.NewOption(label, idx))
	}

	var selected int
	err := huh.NewSelect[int]().
		Title("Select a song").
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return 0, fmt.Errorf("run interactive song selector: %w", err)
	}
	return selected, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
