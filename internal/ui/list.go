package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/discog/internal/models"
)

var _ list.Item = candidateItem{}

// candidateItem wraps [models.ArtistCandidate] to implement [list.Item].
//
// position is the 1-based index in the unfiltered candidate list.
type candidateItem struct {
	position  int
	candidate models.ArtistCandidate
}

func (i candidateItem) FilterValue() string {
	return strings.Join([]string{i.candidate.Name, i.candidate.Hint()}, " ")
}

func (i candidateItem) Title() string {
	return fmt.Sprintf("%d. %s", i.position, i.candidate.Name)
}

func (i candidateItem) Description() string {
	desc := i.candidate.Hint()
	if i.candidate.Score > 0 {
		if desc == "" {
			return fmt.Sprintf("score %d", i.candidate.Score)
		}
		desc = fmt.Sprintf("%s • score %d", desc, i.candidate.Score)
	}
	return desc
}

func candidateItems(candidates []models.ArtistCandidate) []list.Item {
	items := make([]list.Item, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{position: i + 1, candidate: c}
	}
	return items
}
