package models

import (
	"fmt"
	"strings"
)

// ReleaseInfo is one canonical release (album, EP or single).
//
// Artists keeps credit order; the joined string is the attribution key used for grouping.
type ReleaseInfo struct {
	Title   string   `json:"title"`
	Artists []string `json:"artists"`
	Aliases []string `json:"aliases,omitempty"`
}

// AttributionKey joins the credited artist names in credit order.
func (r ReleaseInfo) AttributionKey() string {
	return strings.Join(r.Artists, " ")
}

// Names returns the title followed by every alias, in listed order.
func (r ReleaseInfo) Names() []string {
	names := make([]string, 0, len(r.Aliases)+1)
	names = append(names, r.Title)
	return append(names, r.Aliases...)
}

// ArtistCandidate is a possible match for a free-text artist name.
type ArtistCandidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Disambiguation string   `json:"disambiguation,omitempty"`
	Country        string   `json:"country,omitempty"`
	Score          int      `json:"score,omitempty"`
	Related        []string `json:"related,omitempty"` // related artist names, shown to help a human choose
}

// Hint returns the text shown next to the name when choosing between candidates.
func (c ArtistCandidate) Hint() string {
	switch {
	case c.Disambiguation != "":
		return c.Disambiguation
	case c.Country != "":
		return c.Country
	case len(c.Related) > 0:
		return strings.Join(c.Related, ", ")
	default:
		return ""
	}
}

// Label formats the candidate as "Name (hint)".
func (c ArtistCandidate) Label() string {
	if hint := c.Hint(); hint != "" {
		return fmt.Sprintf("%s (%s)", c.Name, hint)
	}
	return c.Name
}

// TargetArtist is an artist entry on a target service.
type TargetArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TargetRelease is an album entry from a target service artist listing.
//
// Ref carries whatever the service needs to resolve the playable unit (e.g. a browse id).
type TargetRelease struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Ref  string `json:"ref,omitempty"`
}

// Playlist is a playlist created on a target service.
type Playlist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version,omitempty"`
	ItemCount int    `json:"item_count"`
}

// DiagnosticKind classifies a non-fatal event during a run.
type DiagnosticKind int

const (
	DiagnosticUnmatched DiagnosticKind = iota
	DiagnosticDuplicate
	DiagnosticUnresolvedArtist
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticUnmatched:
		return "unmatched"
	case DiagnosticDuplicate:
		return "duplicate"
	case DiagnosticUnresolvedArtist:
		return "unresolved-artist"
	default:
		return "unknown"
	}
}

// MarshalText lets diagnostics encode their kind by name.
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a per-release or per-artist anomaly that did not abort the run.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Group   string         `json:"group,omitempty"`
	Title   string         `json:"title"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// RunReport describes the outcome of one discography or similar-artists run.
type RunReport struct {
	RunID       string        `json:"run_id"`
	Artist      string        `json:"artist"`
	Service     string        `json:"service"`
	Playlist    *Playlist     `json:"playlist,omitempty"`
	Releases    []ReleaseInfo `json:"releases"`
	IDs         []string      `json:"ids"`
	Sources     []string      `json:"sources"` // release title that produced each id, parallel to IDs
	Credits     []string      `json:"credits"` // artist credit of that release, parallel to IDs
	Diagnostics []Diagnostic  `json:"diagnostics"`
	DryRun      bool          `json:"dry_run"`
}

// PlaylistItem is one entry of the assembled playlist.
type PlaylistItem struct {
	Position int
	ID       string
	Title    string
	Artists  string
}

// Items pairs each playable id with the release that produced it.
func (r RunReport) Items() []PlaylistItem {
	items := make([]PlaylistItem, len(r.IDs))
	for i, id := range r.IDs {
		items[i] = PlaylistItem{Position: i + 1, ID: id}
		if i < len(r.Sources) {
			items[i].Title = r.Sources[i]
		}
		if i < len(r.Credits) {
			items[i].Artists = r.Credits[i]
		}
	}
	return items
}

// Count returns diagnostics of the given kind.
func (r RunReport) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
