// package formatter renders run reports as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
)

// ExportToCSV converts a RunReport's playlist items to CSV with columns: Position, ID, Title, Artists
func ExportToCSV(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artists"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range report.Items() {
		record := []string{strconv.Itoa(item.Position), item.ID, item.Title, item.Artists}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a RunReport to Markdown with the playlist items and a skipped releases section
func ExportToMarkdown(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title(report)))
	buf.WriteString(fmt.Sprintf("**Artist**: %s\n", report.Artist))
	buf.WriteString(fmt.Sprintf("**Service**: %s\n", report.Service))
	if report.RunID != "" {
		buf.WriteString(fmt.Sprintf("**Run**: `%s`\n", report.RunID))
	}
	buf.WriteString(fmt.Sprintf("**Releases**: %d\n", len(report.Releases)))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(report.IDs)))

	buf.WriteString("## Items\n\n")
	for _, item := range report.Items() {
		buf.WriteString(fmt.Sprintf("%d. %s - %s `%s`\n", item.Position, item.Artists, item.Title, item.ID))
	}

	if len(report.Diagnostics) > 0 {
		buf.WriteString("\n## Skipped\n\n")
		buf.WriteString("| Kind | Release | Reason |\n")
		buf.WriteString("| --- | --- | --- |\n")
		for _, d := range report.Diagnostics {
			buf.WriteString(fmt.Sprintf("| %s | %s | %s |\n", d.Kind, escapeCell(d.Title), escapeCell(d.Message)))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a RunReport to the plain text summary printed after a run
func ExportToText(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteText(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteText writes the plain text summary of report to w.
func WriteText(w io.Writer, report *models.RunReport) error {
	lines := []string{fmt.Sprintf("Playlist: %s", title(report))}
	if report.Playlist != nil && report.Playlist.ID != "" {
		lines = append(lines, fmt.Sprintf("ID: %s", report.Playlist.ID))
	}
	lines = append(lines,
		fmt.Sprintf("Service: %s", report.Service),
		fmt.Sprintf("Releases: %d, items: %d, unmatched: %d, duplicates: %d",
			len(report.Releases), len(report.IDs),
			report.Count(models.DiagnosticUnmatched), report.Count(models.DiagnosticDuplicate)),
		"",
	)
	for _, item := range report.Items() {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", item.Position, item.Artists, item.Title))
	}
	if len(report.Diagnostics) > 0 {
		lines = append(lines, "")
		for _, d := range report.Diagnostics {
			lines = append(lines, fmt.Sprintf("! %s", d))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// WriteReport exports report to path, choosing the format by extension (.csv, .md or .txt).
func WriteReport(path string, report *models.RunReport) error {
	var (
		data []byte
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		data, err = ExportToCSV(report)
	case ".md", ".markdown":
		data, err = ExportToMarkdown(report)
	case ".txt", "":
		data, err = ExportToText(report)
	default:
		return fmt.Errorf("%w: unsupported report format %q", shared.ErrInvalidArgument, ext)
	}
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func title(report *models.RunReport) string {
	switch {
	case report.Playlist != nil:
		return report.Playlist.Name
	case report.DryRun:
		return fmt.Sprintf("%s (dry run)", report.Artist)
	default:
		return report.Artist
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
