package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/services"
)

// Assemble creates a playlist named name and appends ids in order.
func Assemble(ctx context.Context, catalog services.Catalog, name string, ids []string, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	playlist, err := catalog.CreatePlaylist(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist %q on %s: %w", name, catalog.Name(), err)
	}
	sendProgress(progress, createPlaylistUpdate(1, 2, playlist))

	if len(ids) == 0 {
		return playlist, nil
	}

	sendProgress(progress, appendItemsUpdate(2, 2, len(ids)))
	updated, err := catalog.AppendItems(ctx, playlist, ids)
	if err != nil {
		return playlist, fmt.Errorf("failed to append items to %q: %w", name, err)
	}
	return updated, nil
}
