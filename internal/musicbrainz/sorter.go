package musicbrainz

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/discog/internal/shared"
)

// SortField selects the release group attribute to sort by.
type SortField string

const (
	SortNone     SortField = ""
	SortRelease  SortField = "release"
	SortName     SortField = "name"
	SortType     SortField = "type"
	SortSubtypes SortField = "subtypes"
)

// SortFields lists the accepted field names.
var SortFields = []SortField{SortRelease, SortName, SortType, SortSubtypes}

// Sorter orders release groups. The zero value keeps catalog order.
type Sorter struct {
	Field      SortField
	Descending bool
}

// NewSorter parses a field and direction. An empty or "none" field keeps catalog order.
func NewSorter(field, order string) (Sorter, error) {
	var s Sorter

	switch f := SortField(strings.ToLower(strings.TrimSpace(field))); f {
	case SortNone, "none":
		s.Field = SortNone
	case SortRelease, SortName, SortType, SortSubtypes:
		s.Field = f
	default:
		return Sorter{}, fmt.Errorf("%w: unknown sort field %q", shared.ErrInvalidArgument, field)
	}

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc", "ascending":
	case "desc", "descending":
		s.Descending = true
	default:
		return Sorter{}, fmt.Errorf("%w: unknown sort order %q", shared.ErrInvalidArgument, order)
	}

	return s, nil
}

// Sort orders groups in place. Ties keep catalog order.
func (s Sorter) Sort(groups []ReleaseGroup) {
	if s.Field == SortNone {
		return
	}

	slices.SortStableFunc(groups, func(a, b ReleaseGroup) int {
		c := s.compare(a, b)
		if s.Descending {
			return -c
		}
		return c
	})
}

func (s Sorter) compare(a, b ReleaseGroup) int {
	switch s.Field {
	case SortRelease:
		return cmp.Compare(a.FirstReleaseDate, b.FirstReleaseDate)
	case SortName:
		return cmp.Compare(a.Title, b.Title)
	case SortType:
		return cmp.Compare(a.PrimaryType, b.PrimaryType)
	case SortSubtypes:
		return slices.Compare(a.SecondaryTypes, b.SecondaryTypes)
	default:
		return 0
	}
}
