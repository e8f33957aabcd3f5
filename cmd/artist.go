package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discog/internal/shared"
)

// ArtistSearch lists MusicBrainz artists scoring at or above the match threshold.
func (r *Runner) ArtistSearch(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrMissingArgument)
	}

	config, err := r.configure(cmd)
	if err != nil {
		return err
	}
	threshold, err := r.threshold(cmd, config)
	if err != nil {
		return err
	}

	logger := r.commandLogger(cmd)
	candidates, err := r.musicBrainz(config, logger).SearchArtists(ctx, name, threshold)
	if err != nil {
		return err
	}
	logger.Debug("artist search", "name", name, "threshold", threshold, "results", len(candidates))

	if cmd.Bool("json") {
		return r.writeJSON(candidates, true)
	}

	if len(candidates) == 0 {
		return r.writePlain("No artists scored %d or more for %q\n", threshold, name)
	}

	r.writePlainHeader(fmt.Sprintf("Artists matching %q", name))
	for i, c := range candidates {
		r.writePlain("%d. [%3d] %s\n", i+1, c.Score, c.Label())
		r.writePlain("   %s\n", c.ID)
	}
	return nil
}

// ArtistLinks shows the external links MusicBrainz holds for an artist, grouped by type.
func (r *Runner) ArtistLinks(ctx context.Context, cmd *cli.Command) error {
	mbid := cmd.StringArg("mbid")
	if mbid == "" {
		return fmt.Errorf("%w: artist MBID is required", shared.ErrMissingArgument)
	}

	config, err := r.configure(cmd)
	if err != nil {
		return err
	}

	links, err := r.musicBrainz(config, r.commandLogger(cmd)).ArtistLinks(ctx, mbid)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(links, true)
	}

	if len(links) == 0 {
		return r.writePlain("No links for %s\n", mbid)
	}

	for _, kind := range slices.Sorted(maps.Keys(links)) {
		r.writePlain("%s\n", kind)
		for _, url := range links[kind] {
			r.writePlain("  %s\n", url)
		}
	}
	return nil
}

// Services lists the supported target services and the names they answer to.
func (r *Runner) Services(ctx context.Context, cmd *cli.Command) error {
	for _, entry := range r.registry.Entries() {
		if err := r.writePlain("%-14s %s\n", entry.Display, strings.Join(entry.Names, ", ")); err != nil {
			return err
		}
	}
	return nil
}
