package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

type pandoraRequest struct {
	Query           string   `json:"query"`
	Types           []string `json:"types"`
	Count           int      `json:"count"`
	ArtistPandoraID string   `json:"artistPandoraId"`
	PandoraID       string   `json:"pandoraId"`
	PlaylistVersion int      `json:"playlistVersion"`
	ItemPandoraIDs  []string `json:"itemPandoraIds"`
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	Details         struct {
		Name string `json:"name"`
	} `json:"details"`
}

func newPandoraServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var searches []string

	mux := http.NewServeMux()
	mux.HandleFunc("HEAD /", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "csrf-123"})
	})
	mux.HandleFunc("POST /api/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CsrfToken") != "csrf-123" {
			t.Errorf("missing csrf header on %s", r.URL.Path)
		}

		var req pandoraRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		switch r.URL.Path {
		case "/api/v1/auth/login":
			if req.Username != "listener" || req.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message":"bad credentials"}`)
				return
			}
			fmt.Fprint(w, `{"authToken":"auth-xyz"}`)
			return
		}

		if r.Header.Get("X-AuthToken") != "auth-xyz" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Path {
		case "/api/v3/sod/search":
			searches = append(searches, req.Query)
			if slices.Equal(req.Types, []string{"AR", "CO"}) {
				fmt.Fprint(w, `{"results":["AR:1","AR:2"],"annotations":{
					"AR:1":{"pandoraId":"AR:1","name":"Low","type":"AR"},
					"AR:2":{"pandoraId":"AR:2","name":"Lowe","type":"AR"}}}`)
				return
			}
			fmt.Fprint(w, `{"results":["AL:99","AL:7"],"annotations":{
				"AL:99":{"pandoraId":"AL:99","name":"Things We Lost (Live)"},
				"AL:7":{"pandoraId":"AL:7","name":"Things We Lost In The Fire (Remastered)"}}}`)
		case "/api/v4/catalog/getArtistDiscographyWithCollaborations":
			if req.ArtistPandoraID != "AR:1" {
				t.Errorf("unexpected artist %s", req.ArtistPandoraID)
			}
			fmt.Fprint(w, `{"discography":["AL:5",{"pandoraId":"AL:6"},"AL:7"],"annotations":{
				"AL:5":{"pandoraId":"AL:5","name":"I Could Live In Hope"},
				"AL:6":{"pandoraId":"AL:6","name":"Long Division"}}}`)
		case "/api/v4/catalog/getSimilarArtists":
			fmt.Fprint(w, `{"similarArtists":["AR:3","AR:4"],"annotations":{
				"AR:3":{"name":"Galaxie 500"},"AR:4":{"name":"Codeine"}}}`)
		case "/api/v4/playlists/create":
			fmt.Fprintf(w, `{"pandoraId":"PL:1","name":%q,"version":1,"totalTracks":0}`, req.Details.Name)
		case "/api/v4/playlists/appendItems":
			if req.PlaylistVersion != 1 {
				t.Errorf("expected version 1, got %d", req.PlaylistVersion)
			}
			fmt.Fprintf(w, `{"pandoraId":"PL:1","version":2,"totalTracks":%d}`, len(req.ItemPandoraIDs)*10)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	return httptest.NewServer(mux), &searches
}

func TestPandoraService(t *testing.T) {
	ctx := context.Background()

	t.Run("Name", func(t *testing.T) {
		if svc := NewPandoraService("", nil); svc.Name() != "Pandora" {
			t.Errorf("expected name to be 'Pandora', got %s", svc.Name())
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		server, _ := newPandoraServer(t)
		defer server.Close()

		t.Run("logs in with username and password", func(t *testing.T) {
			svc := NewPandoraService(server.URL, nil)
			if err := svc.Authenticate(ctx, map[string]string{"username": "listener", "password": "secret"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.authToken != "auth-xyz" {
				t.Errorf("expected auth token from login, got %q", svc.authToken)
			}
		})

		t.Run("uses auth token directly", func(t *testing.T) {
			svc := NewPandoraService(server.URL, nil)
			if err := svc.Authenticate(ctx, map[string]string{"auth_token": "auth-xyz"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.csrfToken != "csrf-123" {
				t.Errorf("expected csrf token, got %q", svc.csrfToken)
			}
		})

		t.Run("rejects bad login", func(t *testing.T) {
			svc := NewPandoraService(server.URL, nil)
			err := svc.Authenticate(ctx, map[string]string{"username": "listener", "password": "wrong"})
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("requires credentials", func(t *testing.T) {
			svc := NewPandoraService(server.URL, nil)
			if err := svc.Authenticate(ctx, map[string]string{}); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("Catalog", func(t *testing.T) {
		server, searches := newPandoraServer(t)
		defer server.Close()

		svc := NewPandoraService(server.URL, nil)
		if err := svc.Authenticate(ctx, map[string]string{"auth_token": "auth-xyz"}); err != nil {
			t.Fatalf("authenticate: %v", err)
		}

		t.Run("SearchArtist", func(t *testing.T) {
			artists, err := svc.SearchArtist(ctx, "Low", 5)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			want := []models.TargetArtist{{ID: "AR:1", Name: "Low"}, {ID: "AR:2", Name: "Lowe"}}
			if !slices.Equal(artists, want) {
				t.Errorf("expected %v, got %v", want, artists)
			}
		})

		t.Run("ArtistReleases lists annotations and searches missing names", func(t *testing.T) {
			*searches = nil
			artist := models.TargetArtist{ID: "AR:1", Name: "Low"}
			names := []string{"Long Division", "Things We Lost In The Fire"}

			releases, err := svc.ArtistReleases(ctx, artist, names)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []models.TargetRelease{
				{ID: "AL:5", Name: "I Could Live In Hope"},
				{ID: "AL:6", Name: "Long Division"},
				{ID: "AL:7", Name: "Things We Lost In The Fire"},
			}
			if !slices.Equal(releases, want) {
				t.Errorf("expected %v, got %v", want, releases)
			}

			if !slices.Equal(*searches, []string{"Low Things We Lost In The Fire"}) {
				t.Errorf("expected a single fallback search, got %v", *searches)
			}
		})

		t.Run("SimilarArtists", func(t *testing.T) {
			names, err := svc.SimilarArtists(ctx, "AR:1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !slices.Equal(names, []string{"Galaxie 500", "Codeine"}) {
				t.Errorf("unexpected names %v", names)
			}
		})

		t.Run("CreatePlaylist and AppendItems", func(t *testing.T) {
			playlist, err := svc.CreatePlaylist(ctx, "Low Discography")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if playlist.ID != "PL:1" || playlist.Version != 1 || playlist.Name != "Low Discography" {
				t.Errorf("unexpected playlist %+v", playlist)
			}

			updated, err := svc.AppendItems(ctx, playlist, []string{"AL:5", "AL:6"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if updated.Version != 2 || updated.ItemCount != 20 {
				t.Errorf("expected version 2 with 20 tracks, got %+v", updated)
			}
		})

		t.Run("PlayableID", func(t *testing.T) {
			id, err := svc.PlayableID(ctx, models.TargetRelease{ID: "AL:5"})
			if err != nil || id != "AL:5" {
				t.Errorf("expected AL:5, got %q (%v)", id, err)
			}
			if _, err := svc.PlayableID(ctx, models.TargetRelease{Name: "ghost"}); !errors.Is(err, shared.ErrPlayableUnavailable) {
				t.Errorf("expected ErrPlayableUnavailable, got %v", err)
			}
		})
	})

	t.Run("upstream errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		svc := NewPandoraService(server.URL, nil)
		if _, err := svc.SearchArtist(ctx, "Low", 5); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
