package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/services"
)

const (
	DefaultSearchLimit = 3
	DefaultConcurrency = 4
)

// Reconciliation is the result of one reconciliation run.
type Reconciliation struct {
	IDs         []string            // playable ids, deduplicated, in canonical release order
	Sources     []string            // title of the release that contributed each id
	Credits     []string            // attribution of that release
	Diagnostics []models.Diagnostic // unmatched and duplicate releases
	Matches     []*TargetMatch      // per attribution group, first-seen order
}

// Reconciler matches canonical releases against a target catalog.
type Reconciler struct {
	catalog     services.Catalog
	logger      *log.Logger
	searchLimit int
	concurrency int
}

// NewReconciler creates a [Reconciler]. Non-positive limits fall back to the defaults.
func NewReconciler(catalog services.Catalog, logger *log.Logger, searchLimit, concurrency int) *Reconciler {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reconciler{catalog: catalog, logger: logger, searchLimit: searchLimit, concurrency: concurrency}
}

// Reconcile produces the ordered, deduplicated playable ids for releases.
//
// Groups are searched concurrently; emission is sequential over releases so output order
// follows input order. Unmatched and duplicate releases become diagnostics. Only target
// catalog request failures are returned as errors.
func (r *Reconciler) Reconcile(ctx context.Context, releases []models.ReleaseInfo, progress chan<- ProgressUpdate) (*Reconciliation, error) {
	groups := partition(releases)

	matches, err := r.searchGroups(ctx, groups, progress)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*TargetMatch, len(matches))
	for _, m := range matches {
		byKey[m.Key] = m
	}

	result := &Reconciliation{Matches: matches}
	seen := make(map[string]bool)
	playable := make(map[string]string)

	for i, release := range releases {
		sendProgress(progress, matchReleaseUpdate(i+1, len(releases), release))

		match := byKey[release.AttributionKey()]
		entry, name, ok := match.resolve(release.Names())
		if !ok {
			msg := fmt.Sprintf("could not find %q by %s on %s", release.Title, match.Key, r.catalog.Name())
			if match.Artist == nil {
				msg = fmt.Sprintf("could not find %q: no artist on %s matched %q", release.Title, r.catalog.Name(), match.Key)
			}
			r.diagnose(result, models.Diagnostic{Kind: models.DiagnosticUnmatched, Group: match.Key, Title: release.Title, Message: msg})
			continue
		}

		id, cached := playable[entry.ID]
		if !cached {
			id, err = r.catalog.PlayableID(ctx, entry)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %q: %w", entry.Name, err)
			}
			playable[entry.ID] = id
		}

		if seen[id] {
			r.diagnose(result, models.Diagnostic{
				Kind:    models.DiagnosticDuplicate,
				Group:   match.Key,
				Title:   release.Title,
				ID:      id,
				Message: fmt.Sprintf("%q resolves to %q, which is already in the playlist", release.Title, entry.Name),
			})
			continue
		}

		seen[id] = true
		result.IDs = append(result.IDs, id)
		result.Sources = append(result.Sources, release.Title)
		result.Credits = append(result.Credits, match.Key)
		r.logger.Debug("matched release", "title", release.Title, "via", name, "album", entry.Name, "id", id)
	}

	return result, nil
}

func (r *Reconciler) diagnose(result *Reconciliation, d models.Diagnostic) {
	r.logger.Warn(d.Message, "kind", d.Kind, "group", d.Group)
	result.Diagnostics = append(result.Diagnostics, d)
}

// searchGroups runs the per-group target search with bounded concurrency.
// Each goroutine writes only its own slot.
func (r *Reconciler) searchGroups(ctx context.Context, groups []*group, progress chan<- ProgressUpdate) ([]*TargetMatch, error) {
	matches := make([]*TargetMatch, len(groups))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)

	for i, g := range groups {
		eg.Go(func() error {
			sendProgress(progress, searchTargetUpdate(i+1, len(groups), g.key))
			m, err := r.searchGroup(ctx, g)
			if err != nil {
				return err
			}
			matches[i] = m
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

// searchGroup takes the top candidates for the group's attribution string and keeps the
// first whose listing contains any requested name.
func (r *Reconciler) searchGroup(ctx context.Context, g *group) (*TargetMatch, error) {
	artists, err := r.catalog.SearchArtist(ctx, g.key, r.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for %q: %w", r.catalog.Name(), g.key, err)
	}
	if len(artists) > r.searchLimit {
		artists = artists[:r.searchLimit]
	}

	for _, artist := range artists {
		listing, err := r.catalog.ArtistReleases(ctx, artist, g.names)
		if err != nil {
			return nil, fmt.Errorf("failed to list releases of %s (%s): %w", artist.Name, artist.ID, err)
		}

		if hits := restrict(listing, g.names); len(hits) > 0 {
			r.logger.Debug("artist matched", "group", g.key, "artist", artist.Name, "id", artist.ID, "hits", len(hits))
			return newTargetMatch(g.key, &artist, hits), nil
		}
		r.logger.Debug("artist has no matching releases", "group", g.key, "artist", artist.Name)
	}

	return newTargetMatch(g.key, nil, nil), nil
}
