// Package musicbrainz is a client for the MusicBrainz web service, the canonical catalog
// that playlists are reconciled against.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

const (
	DefaultBaseURL   = "https://musicbrainz.org/ws/2"
	DefaultUserAgent = "discog/0.3.0 (https://github.com/desertthunder/discog)"
	DefaultPageSize  = 100
	DefaultThreshold = 85
)

var errThrottled = errors.New("throttled")

// Options configures a [Client]. Zero values fall back to the service defaults.
type Options struct {
	BaseURL         string
	UserAgent       string
	PageSize        int
	PageDelay       time.Duration // wait between browse pages
	RequestInterval time.Duration // minimum spacing of all requests
	Backoff         time.Duration // first wait after a throttled response
	MaxBackoff      time.Duration // cap on a single wait
	MaxWait         time.Duration // total retry budget per request; 0 retries forever
	HTTPClient      *http.Client
	Logger          *log.Logger
}

// OptionsFromConfig maps the [shared.MusicBrainzConfig] section onto [Options].
func OptionsFromConfig(c shared.MusicBrainzConfig, logger *log.Logger) Options {
	return Options{
		BaseURL:         c.BaseURL,
		UserAgent:       c.UserAgent,
		PageSize:        c.PageSize,
		PageDelay:       c.PageDelay,
		RequestInterval: c.RequestInterval,
		Backoff:         c.Backoff,
		MaxBackoff:      c.MaxBackoff,
		MaxWait:         c.MaxWait,
		Logger:          logger,
	}
}

// Client talks to the MusicBrainz JSON web service.
type Client struct {
	baseURL    string
	userAgent  string
	pageSize   int
	pageDelay  time.Duration
	backoff    time.Duration
	maxBackoff time.Duration
	maxWait    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *log.Logger
}

// New creates a [Client].
func New(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		pageSize:   opts.PageSize,
		pageDelay:  opts.PageDelay,
		backoff:    opts.Backoff,
		maxBackoff: opts.MaxBackoff,
		maxWait:    opts.MaxWait,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.pageSize <= 0 || c.pageSize > DefaultPageSize {
		c.pageSize = DefaultPageSize
	}
	if c.backoff <= 0 {
		c.backoff = time.Second
	}
	if c.maxBackoff < c.backoff {
		c.maxBackoff = c.backoff
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}
	c.limiter = rate.NewLimiter(limit, 1)
	c.logger = c.logger.With("client", "musicbrainz")

	return c
}

// SearchArtists searches artists by name, keeping candidates scored at or above threshold.
//
// Candidates keep the service's ranking.
func (c *Client) SearchArtists(ctx context.Context, name string, threshold int) ([]models.ArtistCandidate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: artist name cannot be empty", shared.ErrMissingArgument)
	}

	params := url.Values{"query": {name}, "limit": {"25"}}

	var resp SearchResponse
	if err := c.doRequest(ctx, "/artist", params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.ArtistCandidate, 0, len(resp.Artists))
	for _, a := range resp.Artists {
		if a.Score < threshold {
			continue
		}
		candidates = append(candidates, models.ArtistCandidate{
			ID:             a.ID,
			Name:           a.Name,
			Disambiguation: a.Disambiguation,
			Country:        a.Country,
			Score:          a.Score,
		})
	}
	return candidates, nil
}

// Lookup fetches a single entity of the given resource type into result.
func (c *Client) Lookup(ctx context.Context, resource, id string, inc []string, result any) error {
	params := url.Values{}
	if len(inc) > 0 {
		params.Set("inc", strings.Join(inc, "+"))
	}
	return c.doRequest(ctx, "/"+resource+"/"+url.PathEscape(id), params, result)
}

// Artist looks up an artist with the requested includes.
func (c *Client) Artist(ctx context.Context, id string, inc ...string) (*Artist, error) {
	var artist Artist
	if err := c.Lookup(ctx, "artist", id, inc, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ArtistLinks returns the artist's url relationships grouped by relation type.
func (c *Client) ArtistLinks(ctx context.Context, id string) (map[string][]string, error) {
	artist, err := c.Artist(ctx, id, "url-rels")
	if err != nil {
		return nil, err
	}

	links := make(map[string][]string)
	for _, rel := range artist.Relations {
		if rel.URL.Resource == "" {
			continue
		}
		links[rel.Type] = append(links[rel.Type], rel.URL.Resource)
	}
	return links, nil
}

// BrowseReleaseGroups fetches one page of an artist's release groups.
func (c *Client) BrowseReleaseGroups(ctx context.Context, artistID string, types []string, offset, limit int) (*ReleaseGroupPage, error) {
	params := url.Values{
		"artist": {artistID},
		"inc":    {"artist-credits+aliases"},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if len(types) > 0 {
		params.Set("type", strings.Join(types, "|"))
	}

	var page ReleaseGroupPage
	if err := c.doRequest(ctx, "/release-group", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchReleases retrieves every release group of an artist, then filters, sorts and
// projects them into [models.ReleaseInfo].
//
// Pages are requested until the accumulated count reaches the reported total, waiting
// the page delay between pages.
func (c *Client) FetchReleases(ctx context.Context, artistID string, filter Filter, sorter Sorter) ([]models.ReleaseInfo, error) {
	types := filter.RequestTypes()
	var groups []ReleaseGroup

	for offset := 0; ; {
		if offset > 0 {
			if err := sleep(ctx, c.pageDelay); err != nil {
				return nil, err
			}
		}

		page, err := c.BrowseReleaseGroups(ctx, artistID, types, offset, c.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to browse release groups at offset %d: %w", offset, err)
		}

		groups = append(groups, page.ReleaseGroups...)
		offset += len(page.ReleaseGroups)
		c.logger.Debug("fetched release groups", "artist", artistID, "fetched", offset, "total", page.Count)

		if len(page.ReleaseGroups) == 0 || offset >= page.Count {
			break
		}
	}

	kept := filter.Apply(groups)
	sorter.Sort(kept)

	releases := make([]models.ReleaseInfo, 0, len(kept))
	for _, rg := range kept {
		releases = append(releases, Project(rg))
	}
	return releases, nil
}

// Project converts a release group into a [models.ReleaseInfo].
//
// Artists come from the release's own credit names rather than the credited artists'
// canonical names.
func Project(rg ReleaseGroup) models.ReleaseInfo {
	info := models.ReleaseInfo{Title: rg.Title}
	for _, credit := range rg.ArtistCredit {
		info.Artists = append(info.Artists, credit.Name)
	}
	for _, alias := range rg.Aliases {
		if alias.Name != "" {
			info.Aliases = append(info.Aliases, alias.Name)
		}
	}
	return info
}

// doRequest performs a rate limited GET, retrying throttled responses with capped
// exponential backoff until the wait budget runs out.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	params.Set("fmt", "json")
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	b := retry.WithCappedDuration(c.maxBackoff, retry.NewExponential(c.backoff))
	if c.maxWait > 0 {
		b = retry.WithMaxDuration(c.maxWait, b)
	}

	var body []byte
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		data, err := c.get(ctx, reqURL)
		if errors.Is(err, errThrottled) {
			c.logger.Warn("throttled, backing off", "endpoint", endpoint)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	switch {
	case errors.Is(err, errThrottled):
		return fmt.Errorf("%w: %s after %v", shared.ErrRateLimitExceeded, endpoint, c.maxWait)
	case err != nil:
		return err
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable, resp.StatusCode == http.StatusTooManyRequests:
		return nil, errThrottled
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: musicbrainz returned status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
