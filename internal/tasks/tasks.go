package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/musicbrainz"
	"github.com/desertthunder/discog/internal/services"
	"github.com/desertthunder/discog/internal/shared"
)

const (
	DefaultDiscographyFormat = "{artist} Discography"
	DefaultSimilarFormat     = "{artist} Similar Artists"

	similarSearchLimit = 5
)

// Canonical is the part of the canonical catalog client the engine needs.
type Canonical interface {
	SearchArtists(ctx context.Context, name string, threshold int) ([]models.ArtistCandidate, error)
	FetchReleases(ctx context.Context, artistID string, filter musicbrainz.Filter, sorter musicbrainz.Sorter) ([]models.ReleaseInfo, error)
}

// ArtistLinker is implemented by canonical catalogs that expose an artist's external links.
type ArtistLinker interface {
	ArtistLinks(ctx context.Context, id string) (map[string][]string, error)
}

// Options configures one playlist run.
type Options struct {
	Threshold   int
	Filter      musicbrainz.Filter
	Sorter      musicbrainz.Sorter
	SearchLimit int
	Concurrency int
	NameFormat  string // "{artist}" is replaced by the searched name
	DryRun      bool   // reconcile without creating the playlist
}

// PlaylistEngine orchestrates the discography and similar-artists flows.
type PlaylistEngine struct {
	canonical Canonical
	catalog   services.Catalog
	chooser   Chooser
	logger    *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine with the provided catalogs.
func NewPlaylistEngine(canonical Canonical, catalog services.Catalog, chooser Chooser, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlaylistEngine{canonical: canonical, catalog: catalog, chooser: chooser, logger: logger}
}

func (e *PlaylistEngine) check() error {
	if e.canonical == nil {
		return fmt.Errorf("%w: canonical catalog not initialized", shared.ErrServiceUnavailable)
	}
	if e.catalog == nil {
		return fmt.Errorf("%w: target service not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// resolveCanonical searches the canonical catalog and disambiguates the results.
func (e *PlaylistEngine) resolveCanonical(ctx context.Context, name string, threshold int) (models.ArtistCandidate, error) {
	candidates, err := e.canonical.SearchArtists(ctx, name, threshold)
	if err != nil {
		return models.ArtistCandidate{}, fmt.Errorf("failed to search artist %q: %w", name, err)
	}
	return Disambiguate(ctx, e.chooser, candidates, name)
}

// hint passes the artist's canonical links to target services that can use them. Link
// lookup failures only cost the hint.
func (e *PlaylistEngine) hint(ctx context.Context, artist models.ArtistCandidate) {
	hinter, ok := e.catalog.(services.ArtistHinter)
	if !ok {
		return
	}
	linker, ok := e.canonical.(ArtistLinker)
	if !ok {
		return
	}

	links, err := linker.ArtistLinks(ctx, artist.ID)
	if err != nil {
		e.logger.Warn("failed to fetch artist links", "artist", artist.Name, "error", err)
		return
	}
	hinter.HintArtist(artist.Name, links)
}

// Discography builds "<artist> Discography" from the artist's canonical releases.
func (e *PlaylistEngine) Discography(ctx context.Context, artist string, opts Options, progress chan<- ProgressUpdate) (*models.RunReport, error) {
	if err := e.check(); err != nil {
		return nil, err
	}

	sendProgress(progress, resolveArtistUpdate(1, 1, artist))
	chosen, err := e.resolveCanonical(ctx, artist, opts.Threshold)
	if err != nil {
		return nil, err
	}
	e.logger.Info("resolved artist", "name", chosen.Name, "mbid", chosen.ID)
	e.hint(ctx, chosen)

	sendProgress(progress, fetchReleasesUpdate(1, 1, chosen))
	releases, err := e.canonical.FetchReleases(ctx, chosen.ID, opts.Filter, opts.Sorter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch releases for %s: %w", chosen.Name, err)
	}
	e.logger.Info("fetched releases", "count", len(releases))

	report := &models.RunReport{Artist: artist, Service: e.catalog.Name(), Releases: releases, DryRun: opts.DryRun}
	return e.finish(ctx, report, withDefault(opts.NameFormat, DefaultDiscographyFormat), opts, progress)
}

// Similar builds "<artist> Similar Artists" from the discographies of the artists the target
// service considers similar.
//
// Target candidates are described by their similar artists so a human can tell apart
// same-named entries. Similar artists missing from the canonical catalog are reported as
// diagnostics.
func (e *PlaylistEngine) Similar(ctx context.Context, artist string, opts Options, progress chan<- ProgressUpdate) (*models.RunReport, error) {
	if err := e.check(); err != nil {
		return nil, err
	}

	sendProgress(progress, resolveArtistUpdate(1, 1, artist))
	targets, err := e.catalog.SearchArtist(ctx, artist, similarSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for %q: %w", e.catalog.Name(), artist, err)
	}

	candidates := make([]models.ArtistCandidate, 0, len(targets))
	for _, t := range targets {
		related, err := e.catalog.SimilarArtists(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get similar artists of %s: %w", t.Name, err)
		}
		candidates = append(candidates, models.ArtistCandidate{ID: t.ID, Name: t.Name, Related: related})
	}

	chosen, err := Disambiguate(ctx, e.chooser, candidates, artist)
	if err != nil {
		return nil, err
	}
	e.logger.Info("resolved artist", "name", chosen.Name, "id", chosen.ID, "similar", len(chosen.Related))

	report := &models.RunReport{Artist: artist, Service: e.catalog.Name(), DryRun: opts.DryRun}
	for i, name := range chosen.Related {
		sendProgress(progress, fetchSimilarUpdate(i+1, len(chosen.Related), name))

		similar, err := e.resolveCanonical(ctx, name, opts.Threshold)
		if errors.Is(err, shared.ErrNoMatchFound) {
			d := models.Diagnostic{
				Kind:    models.DiagnosticUnresolvedArtist,
				Title:   name,
				Message: fmt.Sprintf("no canonical artist matched %q", name),
			}
			e.logger.Warn(d.Message, "kind", d.Kind)
			report.Diagnostics = append(report.Diagnostics, d)
			continue
		}
		if err != nil {
			return nil, err
		}
		e.hint(ctx, similar)

		releases, err := e.canonical.FetchReleases(ctx, similar.ID, opts.Filter, opts.Sorter)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch releases for %s: %w", similar.Name, err)
		}
		report.Releases = append(report.Releases, releases...)
	}

	return e.finish(ctx, report, withDefault(opts.NameFormat, DefaultSimilarFormat), opts, progress)
}

// finish reconciles the report's releases and assembles the playlist unless this is a dry run.
func (e *PlaylistEngine) finish(ctx context.Context, report *models.RunReport, format string, opts Options, progress chan<- ProgressUpdate) (*models.RunReport, error) {
	reconciler := NewReconciler(e.catalog, e.logger, opts.SearchLimit, opts.Concurrency)
	result, err := reconciler.Reconcile(ctx, report.Releases, progress)
	if err != nil {
		return nil, err
	}

	report.IDs = result.IDs
	report.Sources = result.Sources
	report.Credits = result.Credits
	report.Diagnostics = append(report.Diagnostics, result.Diagnostics...)

	if opts.DryRun {
		return report, nil
	}
	if len(report.IDs) == 0 {
		e.logger.Warn("nothing matched, skipping playlist creation", "artist", report.Artist)
		return report, nil
	}

	name := shared.FormatName(format, report.Artist)
	playlist, err := Assemble(ctx, e.catalog, name, report.IDs, progress)
	report.Playlist = playlist
	if err != nil {
		return report, err
	}
	e.logger.Info("playlist ready", "name", playlist.Name, "id", playlist.ID, "items", len(report.IDs))
	return report, nil
}

func withDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
