// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/discog/internal/models"
)

// MockCatalog is a configurable test double for [services.Catalog].
//
// Calls are recorded and safe for concurrent use.
type MockCatalog struct {
	ServiceName string
	Artists     map[string][]models.TargetArtist  // search query → ranked results
	Releases    map[string][]models.TargetRelease // artist id → album listing
	Playable    map[string]string                 // album id → playable id; defaults to the album id
	Similar     map[string][]string               // artist id → similar artist names

	AuthErr     error
	SearchErr   error
	ReleasesErr error
	PlayableErr error
	CreateErr   error
	AppendErr   error

	mu       sync.Mutex
	Searches []string
	Listed   []string
	Resolved []string
	Created  []string
	Appended [][]string
}

func (m *MockCatalog) Name() string {
	if m.ServiceName == "" {
		return "mock"
	}
	return m.ServiceName
}

func (m *MockCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.AuthErr
}

func (m *MockCatalog) SearchArtist(ctx context.Context, name string, limit int) ([]models.TargetArtist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches = append(m.Searches, name)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	artists := m.Artists[name]
	if limit > 0 && len(artists) > limit {
		artists = artists[:limit]
	}
	return artists, nil
}

func (m *MockCatalog) ArtistReleases(ctx context.Context, artist models.TargetArtist, names []string) ([]models.TargetRelease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Listed = append(m.Listed, artist.ID)
	if m.ReleasesErr != nil {
		return nil, m.ReleasesErr
	}
	return m.Releases[artist.ID], nil
}

func (m *MockCatalog) PlayableID(ctx context.Context, release models.TargetRelease) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resolved = append(m.Resolved, release.ID)
	if m.PlayableErr != nil {
		return "", m.PlayableErr
	}
	if id, ok := m.Playable[release.ID]; ok {
		return id, nil
	}
	return release.ID, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created = append(m.Created, name)
	return &models.Playlist{ID: "playlist-1", Name: name}, nil
}

func (m *MockCatalog) AppendItems(ctx context.Context, playlist *models.Playlist, ids []string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return nil, m.AppendErr
	}
	m.Appended = append(m.Appended, ids)
	updated := *playlist
	updated.ItemCount += len(ids)
	return &updated, nil
}

func (m *MockCatalog) SimilarArtists(ctx context.Context, artistID string) ([]string, error) {
	return m.Similar[artistID], nil
}

// SearchCount returns how many artist searches were made.
func (m *MockCatalog) SearchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Searches)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
