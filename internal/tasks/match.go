package tasks

import (
	"strings"

	"github.com/desertthunder/discog/internal/models"
)

// group is one attribution group: releases sharing an identical joined credit string.
type group struct {
	key   string
	names []string // ordered, deduplicated union of every member's title and aliases
}

// partition groups releases by attribution key in first-seen order.
func partition(releases []models.ReleaseInfo) []*group {
	var groups []*group
	index := make(map[string]*group)
	seen := make(map[string]map[string]bool)

	for _, r := range releases {
		key := r.AttributionKey()
		g, ok := index[key]
		if !ok {
			g = &group{key: key}
			index[key] = g
			seen[key] = make(map[string]bool)
			groups = append(groups, g)
		}
		for _, name := range r.Names() {
			if strings.TrimSpace(name) == "" || seen[key][name] {
				continue
			}
			seen[key][name] = true
			g.names = append(g.names, name)
		}
	}
	return groups
}

// TargetMatch is the outcome of searching one attribution group on the target service.
//
// Listing holds the chosen artist's albums that some requested name can reach, in the
// service's listing order. Artist is nil when no candidate had any hit.
type TargetMatch struct {
	Key     string
	Artist  *models.TargetArtist
	Listing []models.TargetRelease

	claimed []bool
}

func newTargetMatch(key string, artist *models.TargetArtist, listing []models.TargetRelease) *TargetMatch {
	return &TargetMatch{Key: key, Artist: artist, Listing: listing, claimed: make([]bool, len(listing))}
}

// Empty reports whether the group resolved to nothing.
func (m *TargetMatch) Empty() bool {
	return len(m.Listing) == 0
}

// restrict keeps listing entries equal to, or containing, any of names (case-insensitive).
func restrict(listing []models.TargetRelease, names []string) []models.TargetRelease {
	lowered := lowerAll(names)
	var kept []models.TargetRelease
	for _, entry := range listing {
		entryName := strings.ToLower(entry.Name)
		for _, n := range lowered {
			if n != "" && strings.Contains(entryName, n) {
				kept = append(kept, entry)
				break
			}
		}
	}
	return kept
}

// resolve finds the listing entry for a release's candidate names.
//
// Every name is first tried as an exact case-insensitive match against the full listing.
// Only then is each name tried as a substring of entries not yet claimed, in listing
// order. Whatever entry is chosen is claimed so later substring lookups skip it.
func (m *TargetMatch) resolve(names []string) (models.TargetRelease, string, bool) {
	lowered := lowerAll(names)

	for i, n := range lowered {
		if n == "" {
			continue
		}
		for j, entry := range m.Listing {
			if strings.ToLower(entry.Name) == n {
				m.claimed[j] = true
				return entry, names[i], true
			}
		}
	}

	for i, n := range lowered {
		if n == "" {
			continue
		}
		for j, entry := range m.Listing {
			if m.claimed[j] {
				continue
			}
			if strings.Contains(strings.ToLower(entry.Name), n) {
				m.claimed[j] = true
				return entry, names[i], true
			}
		}
	}

	return models.TargetRelease{}, "", false
}

func lowerAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(strings.TrimSpace(n))
	}
	return out
}
