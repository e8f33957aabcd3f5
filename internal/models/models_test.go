package models

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestReleaseInfo(t *testing.T) {
	t.Run("AttributionKey keeps credit order", func(t *testing.T) {
		ab := ReleaseInfo{Title: "X", Artists: []string{"Artist A", "Artist B"}}
		ba := ReleaseInfo{Title: "X", Artists: []string{"Artist B", "Artist A"}}

		if ab.AttributionKey() != "Artist A Artist B" {
			t.Errorf("unexpected key %q", ab.AttributionKey())
		}
		if ab.AttributionKey() == ba.AttributionKey() {
			t.Error("credit order should produce distinct keys")
		}
	})

	t.Run("Names puts title first", func(t *testing.T) {
		r := ReleaseInfo{Title: "X (Deluxe)", Aliases: []string{"X", "X Redux"}}
		want := []string{"X (Deluxe)", "X", "X Redux"}
		if got := r.Names(); !slices.Equal(got, want) {
			t.Errorf("Names() = %v, want %v", got, want)
		}
	})
}

func TestArtistCandidate(t *testing.T) {
	tc := []struct {
		name string
		c    ArtistCandidate
		want string
	}{
		{name: "disambiguation", c: ArtistCandidate{Name: "Low", Disambiguation: "US slowcore", Country: "US"}, want: "Low (US slowcore)"},
		{name: "country fallback", c: ArtistCandidate{Name: "Low", Country: "GB"}, want: "Low (GB)"},
		{name: "related fallback", c: ArtistCandidate{Name: "Low", Related: []string{"Codeine", "Red House Painters"}}, want: "Low (Codeine, Red House Painters)"},
		{name: "bare", c: ArtistCandidate{Name: "Low"}, want: "Low"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Label(); got != tt.want {
				t.Errorf("Label() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunReport(t *testing.T) {
	report := RunReport{Diagnostics: []Diagnostic{
		{Kind: DiagnosticUnmatched, Title: "A"},
		{Kind: DiagnosticDuplicate, Title: "B"},
		{Kind: DiagnosticUnmatched, Title: "C"},
	}}

	if got := report.Count(DiagnosticUnmatched); got != 2 {
		t.Errorf("expected 2 unmatched, got %d", got)
	}

	data, err := json.Marshal(report.Diagnostics[1])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"duplicate"`) {
		t.Errorf("expected kind by name, got %s", data)
	}
}

func TestRunReport_Items(t *testing.T) {
	r := RunReport{
		IDs:     []string{"a", "b"},
		Sources: []string{"First", "Second"},
		Credits: []string{"Low", "Low Dirty Three"},
	}

	items := r.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	want := PlaylistItem{Position: 2, ID: "b", Title: "Second", Artists: "Low Dirty Three"}
	if items[1] != want {
		t.Errorf("Items()[1] = %+v, want %+v", items[1], want)
	}
	if len((RunReport{}).Items()) != 0 {
		t.Error("empty report should have no items")
	}
}
