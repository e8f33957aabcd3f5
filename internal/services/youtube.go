// YouTube Music implementation of [Catalog]
//
// Communicates with the FastAPI proxy server (music/) running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtistResult is an artist entry from a filtered search.
type YouTubeArtistResult struct {
	BrowseID string `json:"browseId"`
	Artist   string `json:"artist"`
	Name     string `json:"name"`
}

// YouTubeBrowseItem is an album or related artist entry on an artist page.
type YouTubeBrowseItem struct {
	Title    string `json:"title"`
	BrowseID string `json:"browseId"`
	Year     string `json:"year,omitempty"`
}

// YouTubeShelf is one section of an artist page.
//
// When BrowseID is set the shelf only shows a subset; the full list comes from the
// artist albums endpoint with Params.
type YouTubeShelf struct {
	BrowseID string              `json:"browseId"`
	Params   string              `json:"params"`
	Results  []YouTubeBrowseItem `json:"results"`
}

// YouTubeArtistPage is the artist page returned by the proxy.
type YouTubeArtistPage struct {
	Name    string       `json:"name"`
	Albums  YouTubeShelf `json:"albums"`
	Related YouTubeShelf `json:"related"`
}

// YouTubeAlbum is an album page.
type YouTubeAlbum struct {
	Title           string `json:"title"`
	AudioPlaylistID string `json:"audioPlaylistId"`
	TrackCount      int    `json:"trackCount"`
}

// YouTubeService implements [Catalog] for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
	logger     *log.Logger

	mu    sync.Mutex
	pages map[string]*YouTubeArtistPage
	hints map[string][]string // lowercased artist name → channel ids
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string, logger *log.Logger) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &YouTubeService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logger.With("service", "youtube"),
		pages:      make(map[string]*YouTubeArtistPage),
		hints:      make(map[string][]string),
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the authentication file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to browser.json or oauth.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("%w: missing auth_file in credentials", shared.ErrMissingCredentials)
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// HintArtist records the YouTube channels linked from the artist's MusicBrainz entry.
func (y *YouTubeService) HintArtist(name string, links map[string][]string) {
	var ids []string
	for _, linkType := range []string{"youtube", "youtube music"} {
		for _, link := range links[linkType] {
			if id := channelID(link); id != "" && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	y.mu.Lock()
	y.hints[strings.ToLower(name)] = ids
	y.mu.Unlock()
	y.logger.Debug("artist hinted", "artist", name, "channels", ids)
}

// channelID extracts the id from a /channel/<id> URL. Handle and user URLs yield "".
func channelID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "channel" {
		return parts[1]
	}
	return ""
}

// SearchArtist calls GET /api/search with the artists filter. Hinted channels for name come
// first.
func (y *YouTubeService) SearchArtist(ctx context.Context, name string, limit int) ([]models.TargetArtist, error) {
	params := url.Values{"q": {name}, "filter": {"artists"}, "limit": {strconv.Itoa(limit)}}

	var results []YouTubeArtistResult
	if err := y.doRequest(ctx, http.MethodGet, "/api/search?"+params.Encode(), nil, &results); err != nil {
		return nil, err
	}

	y.mu.Lock()
	hinted := y.hints[strings.ToLower(name)]
	y.mu.Unlock()

	artists := make([]models.TargetArtist, 0, len(hinted)+len(results))
	for _, id := range hinted {
		artists = append(artists, models.TargetArtist{ID: id, Name: name})
	}
	for _, r := range results {
		if r.BrowseID == "" || slices.Contains(hinted, r.BrowseID) {
			continue
		}
		if limit > 0 && len(artists) >= limit {
			break
		}
		display := r.Artist
		if display == "" {
			display = r.Name
		}
		artists = append(artists, models.TargetArtist{ID: r.BrowseID, Name: display})
	}
	return artists, nil
}

// artistPage fetches GET /api/artists/{id}, once per artist.
func (y *YouTubeService) artistPage(ctx context.Context, artistID string) (*YouTubeArtistPage, error) {
	y.mu.Lock()
	page, ok := y.pages[artistID]
	y.mu.Unlock()
	if ok {
		return page, nil
	}

	page = &YouTubeArtistPage{}
	if err := y.doRequest(ctx, http.MethodGet, "/api/artists/"+url.PathEscape(artistID), nil, page); err != nil {
		return nil, err
	}

	y.mu.Lock()
	y.pages[artistID] = page
	y.mu.Unlock()
	return page, nil
}

// ArtistReleases lists every album on the artist page, following the secondary album
// listing when the page only shows a subset.
func (y *YouTubeService) ArtistReleases(ctx context.Context, artist models.TargetArtist, _ []string) ([]models.TargetRelease, error) {
	page, err := y.artistPage(ctx, artist.ID)
	if err != nil {
		return nil, err
	}

	items := page.Albums.Results
	if page.Albums.BrowseID != "" {
		params := url.Values{"params": {page.Albums.Params}}
		endpoint := "/api/artists/" + url.PathEscape(page.Albums.BrowseID) + "/albums?" + params.Encode()
		items = nil
		if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &items); err != nil {
			return nil, err
		}
	}

	releases := make([]models.TargetRelease, 0, len(items))
	for _, item := range items {
		releases = append(releases, models.TargetRelease{ID: item.BrowseID, Name: item.Title})
	}
	y.logger.Debug("artist albums", "artist", artist.Name, "count", len(releases))
	return releases, nil
}

// PlayableID returns the album's audio playlist id, so appended items are audio tracks
// rather than music videos.
func (y *YouTubeService) PlayableID(ctx context.Context, release models.TargetRelease) (string, error) {
	var album YouTubeAlbum
	if err := y.doRequest(ctx, http.MethodGet, "/api/albums/"+url.PathEscape(release.ID), nil, &album); err != nil {
		return "", err
	}
	if album.AudioPlaylistID == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrPlayableUnavailable, release.Name)
	}
	return album.AudioPlaylistID, nil
}

// CreatePlaylist calls POST /api/playlists.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	payload := map[string]any{"title": name, "description": "", "privacy_status": "PRIVATE"}

	var resp struct {
		ID string `json:"id"`
	}
	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: create playlist returned no id", shared.ErrAPIRequest)
	}
	return &models.Playlist{ID: resp.ID, Name: name}, nil
}

// AppendItems appends each album playlist in order, one request per source playlist.
func (y *YouTubeService) AppendItems(ctx context.Context, playlist *models.Playlist, ids []string) (*models.Playlist, error) {
	updated := *playlist
	for _, id := range ids {
		endpoint := "/api/playlists/" + url.PathEscape(playlist.ID) + "/items"
		if err := y.doRequest(ctx, http.MethodPost, endpoint, map[string]string{"source_playlist": id}, nil); err != nil {
			return &updated, fmt.Errorf("failed to append %s: %w", id, err)
		}
		updated.ItemCount++
	}
	return &updated, nil
}

// SimilarArtists returns the related artists shown on the artist page.
func (y *YouTubeService) SimilarArtists(ctx context.Context, artistID string) ([]string, error) {
	page, err := y.artistPage(ctx, artistID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(page.Related.Results))
	for _, r := range page.Related.Results {
		names = append(names, r.Title)
	}
	return names, nil
}
