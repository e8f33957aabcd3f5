package services

import (
	"context"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

// Catalog is the capability set of a target streaming service.
type Catalog interface {
	// Name returns the display name of the service (e.g., "Pandora", "YouTube Music")
	Name() string

	// Authenticate prepares the session. Recognized keys are service specific.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SearchArtist returns up to limit artists, best match first.
	SearchArtist(ctx context.Context, name string, limit int) ([]models.TargetArtist, error)

	// ArtistReleases lists the artist's albums in the service's own order.
	//
	// names are the canonical titles being looked for. Services that cannot list a full
	// discography use them to search for the missing entries.
	ArtistReleases(ctx context.Context, artist models.TargetArtist, names []string) ([]models.TargetRelease, error)

	// PlayableID resolves an album entry to the identifier appended to playlists.
	PlayableID(ctx context.Context, release models.TargetRelease) (string, error)

	// CreatePlaylist creates an empty playlist.
	CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error)

	// AppendItems appends playable ids in order and returns the updated playlist.
	AppendItems(ctx context.Context, playlist *models.Playlist, ids []string) (*models.Playlist, error)

	// SimilarArtists returns the names of artists the service considers similar, in its order.
	SimilarArtists(ctx context.Context, artistID string) ([]string, error)
}

// ArtistHinter is implemented by services that can pin an artist from the canonical artist's
// external links (MusicBrainz url relations grouped by type). Hinted artists are offered
// ahead of the search results when SearchArtist is called with the same name.
type ArtistHinter interface {
	HintArtist(name string, links map[string][]string)
}

// Credentials builds the Authenticate map for svc from config. A non-empty token replaces the
// configured token (Pandora auth token, YouTube Music auth file, Spotify access token).
func Credentials(svc Catalog, cfg shared.ServicesConfig, token string) map[string]string {
	switch svc.(type) {
	case *PandoraService:
		creds := map[string]string{
			"auth_token": cfg.Pandora.AuthToken,
			"username":   cfg.Pandora.Username,
			"password":   cfg.Pandora.Password,
		}
		if token != "" {
			creds["auth_token"] = token
		}
		return creds
	case *YouTubeService:
		if token != "" {
			return map[string]string{"auth_file": token}
		}
		return map[string]string{"auth_file": cfg.YouTube.AuthFile}
	case *SpotifyService:
		if token != "" {
			return map[string]string{"access_token": token}
		}
		return map[string]string{"access_token": cfg.Spotify.AccessToken}
	default:
		return map[string]string{"token": token}
	}
}
