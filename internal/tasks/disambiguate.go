package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

// Chooser picks one of several candidates for searchName.
//
// Choose returns a 1-based index. [shared.ErrInvalidChoice] or an out of range index makes the
// caller ask again; [shared.ErrChoiceCancelled] and any other error stop the resolution.
type Chooser interface {
	Choose(ctx context.Context, searchName string, candidates []models.ArtistCandidate) (int, error)
}

// ChooserFunc adapts a function to [Chooser].
type ChooserFunc func(ctx context.Context, searchName string, candidates []models.ArtistCandidate) (int, error)

func (f ChooserFunc) Choose(ctx context.Context, searchName string, candidates []models.ArtistCandidate) (int, error) {
	return f(ctx, searchName, candidates)
}

// FirstChooser always picks the best ranked candidate.
var FirstChooser = ChooserFunc(func(context.Context, string, []models.ArtistCandidate) (int, error) {
	return 1, nil
})

// Disambiguate selects one candidate. A single candidate is returned without asking;
// none is [shared.ErrNoMatchFound].
func Disambiguate(ctx context.Context, chooser Chooser, candidates []models.ArtistCandidate, searchName string) (models.ArtistCandidate, error) {
	switch len(candidates) {
	case 0:
		return models.ArtistCandidate{}, fmt.Errorf("%w: %q", shared.ErrNoMatchFound, searchName)
	case 1:
		return candidates[0], nil
	}

	if chooser == nil {
		return models.ArtistCandidate{}, fmt.Errorf("%w: %d candidates for %q and no chooser", shared.ErrInvalidInput, len(candidates), searchName)
	}

	for {
		if err := ctx.Err(); err != nil {
			return models.ArtistCandidate{}, err
		}

		choice, err := chooser.Choose(ctx, searchName, candidates)
		switch {
		case errors.Is(err, shared.ErrInvalidChoice):
			continue
		case err != nil:
			return models.ArtistCandidate{}, err
		case choice < 1 || choice > len(candidates):
			continue
		}
		return candidates[choice-1], nil
	}
}
