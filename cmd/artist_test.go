package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

func TestArtistSearch(t *testing.T) {
	server := newMusicBrainz(t, `[
		{"id":"mb-1","name":"Low","score":100,"country":"US"},
		{"id":"mb-2","name":"Low","score":88,"disambiguation":"UK band"},
		{"id":"mb-3","name":"Lowell","score":40}
	]`)

	t.Run("plain output", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(server.URL), Logger: quietLogger(), Output: output})

		if err := run(runner, "artist", "search", "Low"); err != nil {
			t.Fatalf("artist search failed: %v", err)
		}

		got := output.String()
		for _, want := range []string{"1. [100] Low (US)", "2. [ 88] Low (UK band)", "   mb-2"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
		if strings.Contains(got, "Lowell") {
			t.Error("low scoring candidates should be dropped")
		}
	})

	t.Run("JSON output with threshold", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(server.URL), Logger: quietLogger(), Output: output})

		if err := run(runner, "artist", "search", "--json", "--match-threshold", "30", "Low"); err != nil {
			t.Fatalf("artist search failed: %v", err)
		}

		var candidates []models.ArtistCandidate
		if err := json.Unmarshal(output.Bytes(), &candidates); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if len(candidates) != 3 {
			t.Errorf("expected 3 candidates, got %d", len(candidates))
		}
	})

	t.Run("missing name", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(server.URL), Logger: quietLogger(), Output: &bytes.Buffer{}})
		if err := run(runner, "artist", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestArtistLinks(t *testing.T) {
	server := newMusicBrainz(t, `[]`)

	t.Run("grouped by type", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(server.URL), Logger: quietLogger(), Output: output})

		if err := run(runner, "artist", "links", "mb-low"); err != nil {
			t.Fatalf("artist links failed: %v", err)
		}

		want := "bandcamp\n  https://low.bandcamp.com\nstreaming\n  https://open.spotify.com/artist/low\n"
		if output.String() != want {
			t.Errorf("unexpected output:\n%s", output.String())
		}
	})

	t.Run("JSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(server.URL), Logger: quietLogger(), Output: output})

		if err := run(runner, "artist", "links", "--json", "mb-low"); err != nil {
			t.Fatalf("artist links failed: %v", err)
		}

		var links map[string][]string
		if err := json.Unmarshal(output.Bytes(), &links); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if len(links["streaming"]) != 1 {
			t.Errorf("unexpected links %v", links)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(server.URL), Logger: quietLogger(), Output: &bytes.Buffer{}})
		if err := run(runner, "artist", "links"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestServices(t *testing.T) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})

	if err := run(runner, "services"); err != nil {
		t.Fatalf("services failed: %v", err)
	}

	for _, want := range []string{"Pandora", "YouTube Music  ytm, youtubemusic, youtube", "Spotify"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("output missing %q:\n%s", want, output.String())
		}
	}
}
