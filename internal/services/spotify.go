// Spotify API implementation of [Catalog]
//
// Built on github.com/zmb3/spotify/v2; see https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1/"

	spotifyAddBatchSize = 100
	spotifyPageSize     = 50
)

// SpotifyService implements [Catalog] for Spotify.
//
// Albums are the playable unit; [SpotifyService.AppendItems] expands them to their tracks.
type SpotifyService struct {
	config     *oauth2.Config
	apiBaseURL string
	market     string
	client     *spotify.Client
	userID     string
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service from the spotify config section.
func NewSpotifyService(cfg shared.SpotifyConfig, logger *log.Logger) (*SpotifyService, error) {
	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		apiBaseURL: spotifyBaseURL,
		market:     cfg.Market,
		logger:     logger.With("service", "spotify"),
	}, nil
}

// Name returns the service name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate expects either an "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	var token *oauth2.Token

	switch {
	case credentials["access_token"] != "":
		token = &oauth2.Token{AccessToken: credentials["access_token"], TokenType: "Bearer"}
	case credentials["auth_code"] != "":
		if s.config.ClientID == "" || s.config.ClientSecret == "" {
			return fmt.Errorf("%w: client_id and client_secret are required to exchange an auth code", shared.ErrMissingCredentials)
		}
		t, err := s.config.Exchange(ctx, credentials["auth_code"])
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		token = t
	default:
		return fmt.Errorf("%w: missing access_token or auth_code in credentials", shared.ErrMissingCredentials)
	}

	s.client = spotify.New(s.config.Client(ctx, token), spotify.WithBaseURL(s.apiBaseURL))
	return nil
}

func (s *SpotifyService) api() (*spotify.Client, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	return s.client, nil
}

func (s *SpotifyService) options(extra ...spotify.RequestOption) []spotify.RequestOption {
	if s.market != "" {
		extra = append(extra, spotify.Market(s.market))
	}
	return extra
}

// SearchArtist searches artists.
func (s *SpotifyService) SearchArtist(ctx context.Context, name string, limit int) ([]models.TargetArtist, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	result, err := client.Search(ctx, name, spotify.SearchTypeArtist, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: spotify search: %v", shared.ErrAPIRequest, err)
	}
	if result.Artists == nil {
		return nil, nil
	}

	artists := make([]models.TargetArtist, 0, len(result.Artists.Artists))
	for _, a := range result.Artists.Artists {
		artists = append(artists, models.TargetArtist{ID: string(a.ID), Name: a.Name})
	}
	return artists, nil
}

// ArtistReleases lists the artist's albums and singles, following every page.
func (s *SpotifyService) ArtistReleases(ctx context.Context, artist models.TargetArtist, _ []string) ([]models.TargetRelease, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	types := []spotify.AlbumType{spotify.AlbumTypeAlbum, spotify.AlbumTypeSingle}
	page, err := client.GetArtistAlbums(ctx, spotify.ID(artist.ID), types, s.options(spotify.Limit(spotifyPageSize))...)
	if err != nil {
		return nil, fmt.Errorf("%w: spotify artist albums: %v", shared.ErrAPIRequest, err)
	}

	var releases []models.TargetRelease
	for {
		for _, album := range page.Albums {
			releases = append(releases, models.TargetRelease{ID: string(album.ID), Name: album.Name})
		}

		err := client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: spotify artist albums: %v", shared.ErrAPIRequest, err)
		}
	}
	return releases, nil
}

// PlayableID returns the album id.
func (s *SpotifyService) PlayableID(_ context.Context, release models.TargetRelease) (string, error) {
	if release.ID == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrPlayableUnavailable, release.Name)
	}
	return release.ID, nil
}

// CreatePlaylist creates a private playlist for the current user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	if s.userID == "" {
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: spotify current user: %v", shared.ErrAPIRequest, err)
		}
		s.userID = user.ID
	}

	playlist, err := client.CreatePlaylistForUser(ctx, s.userID, name, "", false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	return &models.Playlist{ID: string(playlist.ID), Name: playlist.Name}, nil
}

// AppendItems expands each album to its tracks and adds them in batches of 100.
func (s *SpotifyService) AppendItems(ctx context.Context, playlist *models.Playlist, ids []string) (*models.Playlist, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	var tracks []spotify.ID
	for _, id := range ids {
		albumTracks, err := s.albumTracks(ctx, client, id)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, albumTracks...)
	}

	updated := *playlist
	for start := 0; start < len(tracks); start += spotifyAddBatchSize {
		end := min(start+spotifyAddBatchSize, len(tracks))
		if _, err := client.AddTracksToPlaylist(ctx, spotify.ID(playlist.ID), tracks[start:end]...); err != nil {
			return &updated, fmt.Errorf("failed to add tracks: %w", err)
		}
		updated.ItemCount += end - start
	}
	return &updated, nil
}

func (s *SpotifyService) albumTracks(ctx context.Context, client *spotify.Client, albumID string) ([]spotify.ID, error) {
	page, err := client.GetAlbumTracks(ctx, spotify.ID(albumID), s.options(spotify.Limit(spotifyPageSize))...)
	if err != nil {
		return nil, fmt.Errorf("%w: spotify album tracks: %v", shared.ErrAPIRequest, err)
	}

	var ids []spotify.ID
	for {
		for _, t := range page.Tracks {
			ids = append(ids, t.ID)
		}

		err := client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			return ids, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: spotify album tracks: %v", shared.ErrAPIRequest, err)
		}
	}
}

// SimilarArtists returns Spotify's related artists.
func (s *SpotifyService) SimilarArtists(ctx context.Context, artistID string) ([]string, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	related, err := client.GetRelatedArtists(ctx, spotify.ID(artistID))
	if err != nil {
		// Apps registered after November 2024 get 404 here.
		return nil, fmt.Errorf("%w: spotify related artists (may be unavailable to this app): %v", shared.ErrAPIRequest, err)
	}

	names := make([]string, 0, len(related))
	for _, a := range related {
		names = append(names, a.Name)
	}
	return names, nil
}
