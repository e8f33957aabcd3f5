package tasks

import (
	"fmt"

	"github.com/desertthunder/discog/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveArtist Phase = iota
	FetchReleases
	SearchTarget
	MatchReleases
	FetchSimilar
	CreatePlaylist
	AppendItems
)

func (p Phase) String() string {
	switch p {
	case ResolveArtist:
		return "resolve_artist"
	case FetchReleases:
		return "fetch_releases"
	case SearchTarget:
		return "search_target"
	case MatchReleases:
		return "match_releases"
	case FetchSimilar:
		return "fetch_similar"
	case CreatePlaylist:
		return "create_playlist"
	case AppendItems:
		return "append_items"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func resolveArtistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving artist %q...", name),
	}
}

func fetchReleasesUpdate(step, total int, artist models.ArtistCandidate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchReleases,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching releases for %s...", artist.Label()),
		Data:    artist,
	}
}

func searchTargetUpdate(step, total int, key string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTarget,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching for %s", step, total, key),
	}
}

func matchReleaseUpdate(step, total int, release models.ReleaseInfo) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchReleases,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, release.AttributionKey(), release.Title),
	}
}

func fetchSimilarUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSimilar,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Similar artist: %s", step, total, name),
	}
}

func createPlaylistUpdate(step, total int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func appendItemsUpdate(step, total int, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Appending %d items...", count),
	}
}
