package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

func tracksJSON(prefix string, n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":"%s%d","name":"track %d"}`, prefix, i, i)
	}
	return `{"items":[` + strings.Join(items, ",") + `],"next":null}`
}

func newSpotifyServer(t *testing.T, batches *[]int) *httptest.Server {
	t.Helper()
	var server *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("type") != "artist" {
			t.Errorf("expected artist search, got %s", r.URL.Query().Get("type"))
		}
		fmt.Fprint(w, `{"artists":{"items":[{"id":"ar1","name":"Low"},{"id":"ar2","name":"Lowe"}],"total":2}}`)
	})
	mux.HandleFunc("GET /artists/ar1/albums", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "1" {
			fmt.Fprint(w, `{"items":[{"id":"al2","name":"The Great Destroyer"}],"next":null}`)
			return
		}
		if groups := r.URL.Query().Get("include_groups"); groups != "album,single" {
			t.Errorf("expected album,single groups, got %q", groups)
		}
		fmt.Fprintf(w, `{"items":[{"id":"al1","name":"Trust"}],"next":"%s/artists/ar1/albums?offset=1&limit=1"}`, server.URL)
	})
	mux.HandleFunc("GET /artists/ar1/related-artists", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"artists":[{"id":"ar9","name":"Codeine"}]}`)
	})
	mux.HandleFunc("GET /artists/ar2/related-artists", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"status":404,"message":"Not found."}}`)
	})
	mux.HandleFunc("GET /albums/al1/tracks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tracksJSON("a", 100))
	})
	mux.HandleFunc("GET /albums/al2/tracks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tracksJSON("b", 50))
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"user1","display_name":"Listener"}`)
	})
	mux.HandleFunc("POST /users/user1/playlists", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name   string `json:"name"`
			Public bool   `json:"public"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":"pl1","name":%q}`, body.Name)
	})
	mux.HandleFunc("POST /playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			URIs []string `json:"uris"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		*batches = append(*batches, len(body.URIs))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"snapshot_id":"snap"}`)
	})

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	return server
}

func TestSpotifyService(t *testing.T) {
	ctx := context.Background()

	t.Run("Name", func(t *testing.T) {
		svc, _ := NewSpotifyService(shared.SpotifyConfig{}, nil)
		if svc.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", svc.Name())
		}
	})

	t.Run("Default Redirect URI", func(t *testing.T) {
		svc, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "id", ClientSecret: "secret"}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.config.RedirectURL != "http://localhost:3000/callback" {
			t.Errorf("expected default redirect URI, got %s", svc.config.RedirectURL)
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		svc, _ := NewSpotifyService(shared.SpotifyConfig{}, nil)

		t.Run("requires credentials", func(t *testing.T) {
			if err := svc.Authenticate(ctx, map[string]string{}); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("auth code needs client credentials", func(t *testing.T) {
			if err := svc.Authenticate(ctx, map[string]string{"auth_code": "code"}); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("not authenticated", func(t *testing.T) {
			if _, err := svc.SearchArtist(ctx, "Low", 3); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("Catalog", func(t *testing.T) {
		var batches []int
		server := newSpotifyServer(t, &batches)
		defer server.Close()

		svc, _ := NewSpotifyService(shared.SpotifyConfig{}, nil)
		svc.apiBaseURL = server.URL + "/"
		if err := svc.Authenticate(ctx, map[string]string{"access_token": "token-abc"}); err != nil {
			t.Fatalf("authenticate: %v", err)
		}

		t.Run("SearchArtist", func(t *testing.T) {
			artists, err := svc.SearchArtist(ctx, "Low", 3)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(artists) != 2 || artists[0].ID != "ar1" || artists[0].Name != "Low" {
				t.Errorf("unexpected artists %v", artists)
			}
		})

		t.Run("ArtistReleases follows pages", func(t *testing.T) {
			releases, err := svc.ArtistReleases(ctx, models.TargetArtist{ID: "ar1"}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			want := []models.TargetRelease{{ID: "al1", Name: "Trust"}, {ID: "al2", Name: "The Great Destroyer"}}
			if !slices.Equal(releases, want) {
				t.Errorf("expected %v, got %v", want, releases)
			}
		})

		t.Run("SimilarArtists", func(t *testing.T) {
			names, err := svc.SimilarArtists(ctx, "ar1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !slices.Equal(names, []string{"Codeine"}) {
				t.Errorf("unexpected names %v", names)
			}
		})

		t.Run("SimilarArtists unavailable to the app", func(t *testing.T) {
			_, err := svc.SimilarArtists(ctx, "ar2")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "may be unavailable to this app") {
				t.Errorf("expected an availability hint, got %v", err)
			}
		})

		t.Run("CreatePlaylist and AppendItems batch tracks", func(t *testing.T) {
			playlist, err := svc.CreatePlaylist(ctx, "Low Discography")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if playlist.ID != "pl1" || playlist.Name != "Low Discography" {
				t.Errorf("unexpected playlist %+v", playlist)
			}

			updated, err := svc.AppendItems(ctx, playlist, []string{"al1", "al2"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if updated.ItemCount != 150 {
				t.Errorf("expected 150 tracks, got %d", updated.ItemCount)
			}
			if !slices.Equal(batches, []int{100, 50}) {
				t.Errorf("expected batches of 100 and 50, got %v", batches)
			}
		})
	})
}
