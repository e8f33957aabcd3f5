package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discog/internal/formatter"
	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/musicbrainz"
	"github.com/desertthunder/discog/internal/services"
	"github.com/desertthunder/discog/internal/shared"
	"github.com/desertthunder/discog/internal/tasks"
	"github.com/desertthunder/discog/internal/ui"
)

type flow func(e *tasks.PlaylistEngine, ctx context.Context, artist string, opts tasks.Options, progress chan<- tasks.ProgressUpdate) (*models.RunReport, error)

// Discography creates "<artist> Discography" on the requested service.
func (r *Runner) Discography(ctx context.Context, cmd *cli.Command) error {
	return r.runPlaylist(ctx, cmd, (*tasks.PlaylistEngine).Discography, func(c *shared.Config) string {
		return c.Playlist.DiscographyFormat
	})
}

// Similar creates "<artist> Similar Artists" on the requested service.
func (r *Runner) Similar(ctx context.Context, cmd *cli.Command) error {
	return r.runPlaylist(ctx, cmd, (*tasks.PlaylistEngine).Similar, func(c *shared.Config) string {
		return c.Playlist.SimilarFormat
	})
}

func (r *Runner) runPlaylist(ctx context.Context, cmd *cli.Command, run flow, format func(*shared.Config) string) error {
	serviceName := cmd.StringArg("service")
	artist := cmd.StringArg("artist")
	if serviceName == "" || artist == "" {
		return fmt.Errorf("%w: usage: %s <service> <artist>", shared.ErrMissingArgument, cmd.Name)
	}

	config, err := r.configure(cmd)
	if err != nil {
		return err
	}

	opts, err := r.playlistOptions(cmd, config)
	if err != nil {
		return err
	}
	if opts.NameFormat == "" {
		opts.NameFormat = format(config)
	}

	runID := shared.GenerateID()
	logger := r.commandLogger(cmd, "run", runID)
	logger.Info("starting run", "command", cmd.Name, "service", serviceName, "artist", artist, "dry_run", opts.DryRun)

	catalog, err := r.registry.New(serviceName, config.Services, logger)
	if err != nil {
		return err
	}
	if err := catalog.Authenticate(ctx, services.Credentials(catalog, config.Services, cmd.String("auth"))); err != nil {
		return fmt.Errorf("failed to authenticate with %s: %w", catalog.Name(), err)
	}

	engine := tasks.NewPlaylistEngine(r.musicBrainz(config, logger), catalog, r.chooserFor(cmd), logger)

	useJSON := cmd.Bool("json")
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.showProgress(progressCh, useJSON, logger)
	}()

	report, err := run(engine, ctx, artist, opts, progressCh)
	close(progressCh)
	<-done

	if report != nil {
		report.RunID = runID
	}
	if err != nil {
		return err
	}

	if path := cmd.String("report"); path != "" {
		if err := formatter.WriteReport(path, report); err != nil {
			return err
		}
		logger.Info("report written", "path", path)
	}

	if useJSON {
		return r.writeJSON(report, true)
	}
	return r.writeSummary(report)
}

func (r *Runner) playlistOptions(cmd *cli.Command, config *shared.Config) (tasks.Options, error) {
	threshold, err := r.threshold(cmd, config)
	if err != nil {
		return tasks.Options{}, err
	}

	var sorter musicbrainz.Sorter
	if !cmd.Bool("no-sort") {
		if sorter, err = musicbrainz.NewSorter(cmd.String("sort-field"), cmd.String("sort-order")); err != nil {
			return tasks.Options{}, err
		}
	}

	filter := musicbrainz.NewFilter(musicbrainz.FilterOptions{
		IncludeCompilations: cmd.Bool("include-compilations"),
		IncludeRemixes:      cmd.Bool("include-remixes"),
		IncludeLive:         cmd.Bool("include-live"),
		IncludeSoundtracks:  cmd.Bool("include-soundtracks"),
		IncludeEPs:          cmd.Bool("include-eps"),
		IncludeSingles:      cmd.Bool("include-singles"),
		IncludeAll:          cmd.Bool("include-all"),
	})

	return tasks.Options{
		Threshold:   threshold,
		Filter:      filter,
		Sorter:      sorter,
		SearchLimit: config.Reconcile.SearchLimit,
		Concurrency: config.Reconcile.Concurrency,
		NameFormat:  cmd.String("name"),
		DryRun:      cmd.Bool("dry-run"),
	}, nil
}

// showProgress prints progress updates until the channel closes. JSON output keeps stdout
// clean, so updates only go to the debug log.
func (r *Runner) showProgress(progressCh <-chan tasks.ProgressUpdate, quiet bool, logger *log.Logger) {
	for update := range progressCh {
		logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		if quiet {
			continue
		}

		switch update.Phase {
		case tasks.ResolveArtist, tasks.FetchReleases:
			r.writePlain("%s\n", update.Message)
		case tasks.SearchTarget:
			r.writePlain("   %s\n", update.Message)
		case tasks.FetchSimilar:
			r.writePlain("%s\n", update.Message)
		case tasks.CreatePlaylist, tasks.AppendItems:
			r.writePlain("\n%s\n", update.Message)
		}
	}
}

func (r *Runner) writeSummary(report *models.RunReport) error {
	r.writePlain("\n")
	switch {
	case report.DryRun:
		r.writePlain("%s\n", ui.Styles.Title("Dry run complete"))
	case report.Playlist == nil:
		r.writePlain("%s\n", ui.Styles.Warn("Nothing matched, no playlist created"))
	default:
		r.writePlain("%s\n", ui.Styles.OK(fmt.Sprintf("✓ %s ready", report.Playlist.Name)))
	}

	if err := formatter.WriteText(r.output, report); err != nil {
		return err
	}

	if n := len(report.Diagnostics); n > 0 {
		return r.writePlainln("%s", ui.Styles.Warn(fmt.Sprintf("%d releases or artists were skipped", n)))
	}
	return nil
}
