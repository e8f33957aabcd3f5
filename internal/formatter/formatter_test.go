package formatter

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
	tu "github.com/desertthunder/discog/internal/testing"
)

func sampleReport() *models.RunReport {
	return &models.RunReport{
		RunID:    "run-1",
		Artist:   "Low",
		Service:  "Spotify",
		Playlist: &models.Playlist{ID: "pl-1", Name: "Low Discography", ItemCount: 2},
		Releases: []models.ReleaseInfo{
			{Title: "Long Division", Artists: []string{"Low"}},
			{Title: "Curtain Hits the Cast", Artists: []string{"Low"}},
			{Title: "In the Fishtank 7", Artists: []string{"Low", "Dirty Three"}},
		},
		IDs:     []string{"al1", "al2"},
		Sources: []string{"Long Division", "Curtain Hits the Cast"},
		Credits: []string{"Low", "Low"},
		Diagnostics: []models.Diagnostic{{
			Kind:    models.DiagnosticUnmatched,
			Group:   "Low Dirty Three",
			Title:   "In the Fishtank 7",
			Message: `could not find "In the Fishtank 7" | no artist`,
		}},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleReport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		want := "Position,ID,Title,Artists\n1,al1,Long Division,Low\n2,al2,Curtain Hits the Cast,Low\n"
		if string(data) != want {
			t.Errorf("unexpected CSV:\n%s", data)
		}
	})

	t.Run("ExportToCSV with no items", func(t *testing.T) {
		data, err := ExportToCSV(&models.RunReport{})
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if string(data) != "Position,ID,Title,Artists\n" {
			t.Errorf("expected headers only, got %q", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleReport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Low Discography",
			"**Service**: Spotify",
			"**Run**: `run-1`",
			"**Items**: 2",
			"1. Low - Long Division `al1`",
			"## Skipped",
			`| unmatched | In the Fishtank 7 | could not find "In the Fishtank 7" \| no artist |`,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown without diagnostics", func(t *testing.T) {
		report := sampleReport()
		report.Diagnostics = nil
		data, _ := ExportToMarkdown(report)
		if strings.Contains(string(data), "## Skipped") {
			t.Error("expected no skipped section")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleReport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Playlist: Low Discography\n",
			"ID: pl-1\n",
			"Releases: 3, items: 2, unmatched: 1, duplicates: 0\n",
			"2. Low - Curtain Hits the Cast\n",
			"! unmatched: could not find",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText for a dry run", func(t *testing.T) {
		report := sampleReport()
		report.Playlist = nil
		report.DryRun = true

		data, _ := ExportToText(report)
		if !strings.HasPrefix(string(data), "Playlist: Low (dry run)\n") {
			t.Errorf("unexpected title line: %q", data)
		}
		if strings.Contains(string(data), "ID:") {
			t.Error("dry run has no playlist id")
		}
	})
}

func TestWriteText(t *testing.T) {
	t.Run("handles write failure", func(t *testing.T) {
		err := WriteText(&tu.FWriter{}, sampleReport())
		if err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Errorf("expected write error, got %v", err)
		}
	})

	t.Run("handles failure part way through", func(t *testing.T) {
		var buf bytes.Buffer
		limited := tu.NewLimitedWriter(2, 0, &buf)

		if err := WriteText(&limited, sampleReport()); err == nil {
			t.Fatal("expected error after two lines")
		}
		if got := strings.Count(buf.String(), "\n"); got != 2 {
			t.Errorf("expected two lines written, got %d", got)
		}
	})
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file string
		want string
	}{
		{"report.csv", "Position,ID,Title,Artists"},
		{"report.md", "# Low Discography"},
		{"REPORT.MD", "## Items"},
		{"report.txt", "Playlist: Low Discography"},
		{"report", "Releases: 3"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := WriteReport(path, sampleReport()); err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}

			tu.AssertFileExists(t, path)
			if content := tu.MustReadFile(t, path); !strings.Contains(content, tt.want) {
				t.Errorf("expected %q in %s, got:\n%s", tt.want, tt.file, content)
			}
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		err := WriteReport(filepath.Join(dir, "report.xlsx"), sampleReport())
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := WriteReport(filepath.Join(dir, "missing", "report.csv"), sampleReport())
		if err == nil || !strings.Contains(err.Error(), "failed to write report file") {
			t.Errorf("expected write error, got %v", err)
		}
	})
}
