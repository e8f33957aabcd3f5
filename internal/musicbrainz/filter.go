package musicbrainz

import "strings"

// Primary release types sent to the browse endpoint.
const (
	TypeAlbum  = "album"
	TypeEP     = "ep"
	TypeSingle = "single"
)

// Secondary types excluded unless explicitly included.
const (
	SecondaryCompilation = "Compilation"
	SecondaryRemix       = "Remix"
	SecondaryLive        = "Live"
	SecondarySoundtrack  = "Soundtrack"
)

// FilterOptions selects which release groups are requested and kept.
type FilterOptions struct {
	IncludeCompilations bool
	IncludeRemixes      bool
	IncludeLive         bool
	IncludeSoundtracks  bool
	IncludeEPs          bool
	IncludeSingles      bool
	IncludeAll          bool
}

// Filter is a release-type policy over two independent axes.
//
// Request types only add to what the browse endpoint returns; exclusion only removes
// release groups that were already retrieved.
type Filter struct {
	opts     FilterOptions
	excluded map[string]bool
}

// NewFilter builds a [Filter] from the given options.
func NewFilter(opts FilterOptions) Filter {
	excluded := map[string]bool{}
	if !opts.IncludeAll {
		if !opts.IncludeCompilations {
			excluded[strings.ToLower(SecondaryCompilation)] = true
		}
		if !opts.IncludeRemixes {
			excluded[strings.ToLower(SecondaryRemix)] = true
		}
		if !opts.IncludeLive {
			excluded[strings.ToLower(SecondaryLive)] = true
		}
		if !opts.IncludeSoundtracks {
			excluded[strings.ToLower(SecondarySoundtrack)] = true
		}
	}
	return Filter{opts: opts, excluded: excluded}
}

// RequestTypes returns the primary types to request. Albums are always requested.
func (f Filter) RequestTypes() []string {
	types := []string{TypeAlbum}
	if f.opts.IncludeEPs || f.opts.IncludeAll {
		types = append(types, TypeEP)
	}
	if f.opts.IncludeSingles || f.opts.IncludeAll {
		types = append(types, TypeSingle)
	}
	return types
}

// Keep reports whether a retrieved release group survives secondary-type exclusion.
func (f Filter) Keep(rg ReleaseGroup) bool {
	for _, st := range rg.SecondaryTypes {
		if f.excluded[strings.ToLower(st)] {
			return false
		}
	}
	return true
}

// Apply returns the release groups that survive [Filter.Keep], in their original order.
func (f Filter) Apply(groups []ReleaseGroup) []ReleaseGroup {
	kept := make([]ReleaseGroup, 0, len(groups))
	for _, rg := range groups {
		if f.Keep(rg) {
			kept = append(kept, rg)
		}
	}
	return kept
}
