// Pandora implementation of [Catalog]
//
// Pandora's web API is undocumented; the endpoints below are the ones its web player uses.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

const (
	defaultPandoraBaseURL = "https://www.pandora.com"

	pandoraLoginEndpoint       = "v1/auth/login"
	pandoraSearchEndpoint      = "v3/sod/search"
	pandoraDiscographyEndpoint = "v4/catalog/getArtistDiscographyWithCollaborations"
	pandoraSimilarEndpoint     = "v4/catalog/getSimilarArtists"
	pandoraCreateEndpoint      = "v4/playlists/create"
	pandoraAppendEndpoint      = "v4/playlists/appendItems"

	pandoraAlbumSearchCount = 5
	pandoraAnnotationLimit  = 1000
)

var (
	pandoraArtistTypes = []string{"AR", "CO"}
	pandoraAlbumTypes  = []string{"AL"}
)

// PandoraService implements [Catalog] for Pandora.
type PandoraService struct {
	baseURL    string
	csrfToken  string
	authToken  string
	httpClient *http.Client
	logger     *log.Logger
}

// NewPandoraService creates a new Pandora service instance.
func NewPandoraService(baseURL string, logger *log.Logger) *PandoraService {
	if baseURL == "" {
		baseURL = defaultPandoraBaseURL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	jar, _ := cookiejar.New(nil)
	return &PandoraService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		logger:     logger.With("service", "pandora"),
	}
}

// Name returns the service name.
func (p *PandoraService) Name() string {
	return "Pandora"
}

// Authenticate fetches a CSRF token, then uses credentials["auth_token"] or logs in with
// credentials["username"] and credentials["password"].
func (p *PandoraService) Authenticate(ctx context.Context, credentials map[string]string) error {
	token := credentials["auth_token"]
	username, password := credentials["username"], credentials["password"]
	if token == "" && (username == "" || password == "") {
		return fmt.Errorf("%w: pandora needs auth_token or username and password", shared.ErrMissingCredentials)
	}

	if err := p.fetchCSRFToken(ctx); err != nil {
		return err
	}

	if token != "" {
		p.authToken = token
		return nil
	}

	body, err := p.doRequest(ctx, pandoraLoginEndpoint, map[string]string{"username": username, "password": password})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	p.authToken = gjson.GetBytes(body, "authToken").String()
	if p.authToken == "" {
		return fmt.Errorf("%w: login response has no authToken", shared.ErrAuthFailed)
	}
	return nil
}

func (p *PandoraService) fetchCSRFToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == "csrftoken" {
			p.csrfToken = c.Value
			return nil
		}
	}
	return fmt.Errorf("%w: pandora did not set a csrftoken cookie", shared.ErrAuthFailed)
}

// doRequest POSTs a JSON payload to an API endpoint and returns the raw body.
func (p *PandoraService) doRequest(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/"+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.csrfToken != "" {
		req.Header.Set("X-CsrfToken", p.csrfToken)
	}
	if p.authToken != "" {
		req.Header.Set("X-AuthToken", p.authToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := gjson.GetBytes(body, "message").String(); msg != "" {
			return nil, fmt.Errorf("%w: pandora %s (status %d): %s", shared.ErrAPIRequest, endpoint, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: pandora %s: status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: pandora %s returned invalid JSON", shared.ErrAPIRequest, endpoint)
	}
	return body, nil
}

// pandoraItem is one annotated entity from an annotation map.
type pandoraItem struct {
	ID   string
	Name string
}

// annotated resolves a list of ids against the response's annotation map, keeping list order.
// Ids without an annotation are returned with an empty name.
func annotated(ids, annotations gjson.Result) []pandoraItem {
	notes := annotations.Map()
	var items []pandoraItem
	ids.ForEach(func(_, v gjson.Result) bool {
		id := v.String()
		if v.IsObject() {
			id = v.Get("pandoraId").String()
		}
		if id == "" {
			return true
		}
		item := pandoraItem{ID: id}
		if note, ok := notes[id]; ok {
			item.Name = note.Get("name").String()
			if pid := note.Get("pandoraId").String(); pid != "" {
				item.ID = pid
			}
		}
		items = append(items, item)
		return true
	})
	return items
}

func (p *PandoraService) search(ctx context.Context, query string, types []string, count int) ([]pandoraItem, error) {
	body, err := p.doRequest(ctx, pandoraSearchEndpoint, map[string]any{"query": query, "types": types, "count": count})
	if err != nil {
		return nil, err
	}
	return annotated(gjson.GetBytes(body, "results"), gjson.GetBytes(body, "annotations")), nil
}

// SearchArtist searches artists and composers.
func (p *PandoraService) SearchArtist(ctx context.Context, name string, limit int) ([]models.TargetArtist, error) {
	items, err := p.search(ctx, name, pandoraArtistTypes, limit)
	if err != nil {
		return nil, err
	}

	artists := make([]models.TargetArtist, 0, len(items))
	for _, item := range items {
		artists = append(artists, models.TargetArtist{ID: item.ID, Name: item.Name})
	}
	return artists, nil
}

// ArtistReleases lists the annotated discography including collaborations.
//
// Requested names that appear in no listed album name are searched as "<artist> <name>"; the
// first result that belongs to the discography is listed under the requested name, since
// Pandora's search accounts for edition and naming differences.
func (p *PandoraService) ArtistReleases(ctx context.Context, artist models.TargetArtist, names []string) ([]models.TargetRelease, error) {
	body, err := p.doRequest(ctx, pandoraDiscographyEndpoint, map[string]any{
		"artistPandoraId": artist.ID,
		"annotationLimit": pandoraAnnotationLimit,
	})
	if err != nil {
		return nil, err
	}

	items := annotated(gjson.GetBytes(body, "discography"), gjson.GetBytes(body, "annotations"))
	inDiscography := make(map[string]bool, len(items))
	var releases []models.TargetRelease
	for _, item := range items {
		inDiscography[item.ID] = true
		if item.Name != "" {
			releases = append(releases, models.TargetRelease{ID: item.ID, Name: item.Name})
		}
	}

	for _, name := range names {
		if listed(releases, name) {
			continue
		}

		hits, err := p.search(ctx, artist.Name+" "+name, pandoraAlbumTypes, pandoraAlbumSearchCount)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			if inDiscography[hit.ID] {
				p.logger.Debug("album found by search", "name", name, "album", hit.Name, "id", hit.ID)
				releases = append(releases, models.TargetRelease{ID: hit.ID, Name: name})
				break
			}
		}
	}
	return releases, nil
}

func listed(releases []models.TargetRelease, name string) bool {
	name = strings.ToLower(name)
	for _, r := range releases {
		if strings.Contains(strings.ToLower(r.Name), name) {
			return true
		}
	}
	return false
}

// PlayableID returns the album's Pandora id, which playlists accept directly.
func (p *PandoraService) PlayableID(_ context.Context, release models.TargetRelease) (string, error) {
	if release.ID == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrPlayableUnavailable, release.Name)
	}
	return release.ID, nil
}

// CreatePlaylist creates an empty playlist.
func (p *PandoraService) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	body, err := p.doRequest(ctx, pandoraCreateEndpoint, map[string]any{"details": map[string]string{"name": name}})
	if err != nil {
		return nil, err
	}
	return pandoraPlaylist(body, name)
}

// AppendItems appends items at the playlist's current version.
func (p *PandoraService) AppendItems(ctx context.Context, playlist *models.Playlist, ids []string) (*models.Playlist, error) {
	if len(ids) == 0 {
		return playlist, nil
	}

	body, err := p.doRequest(ctx, pandoraAppendEndpoint, map[string]any{
		"pandoraId":       playlist.ID,
		"playlistVersion": playlist.Version,
		"itemPandoraIds":  ids,
	})
	if err != nil {
		return nil, err
	}

	updated, err := pandoraPlaylist(body, playlist.Name)
	if err != nil {
		return nil, err
	}
	if updated.ItemCount == 0 {
		updated.ItemCount = playlist.ItemCount + len(ids)
	}
	return updated, nil
}

func pandoraPlaylist(body []byte, name string) (*models.Playlist, error) {
	res := gjson.ParseBytes(body)
	id := res.Get("pandoraId").String()
	if id == "" {
		return nil, fmt.Errorf("%w: playlist response has no pandoraId", shared.ErrAPIRequest)
	}
	if n := res.Get("name").String(); n != "" {
		name = n
	}
	return &models.Playlist{
		ID:        id,
		Name:      name,
		Version:   int(res.Get("version").Int()),
		ItemCount: int(res.Get("totalTracks").Int()),
	}, nil
}

// SimilarArtists returns the names of Pandora's similar artists.
func (p *PandoraService) SimilarArtists(ctx context.Context, artistID string) ([]string, error) {
	body, err := p.doRequest(ctx, pandoraSimilarEndpoint, map[string]any{"pandoraId": artistID})
	if err != nil {
		return nil, err
	}

	var names []string
	for _, item := range annotated(gjson.GetBytes(body, "similarArtists"), gjson.GetBytes(body, "annotations")) {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return names, nil
}
