package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tu "github.com/desertthunder/discog/internal/testing"
)

func TestSetupConfig(t *testing.T) {
	t.Run("writes the default path", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		tu.MustChdir(t, t.TempDir())
		t.Cleanup(func() { tu.MustChdir(t, wd) })

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})

		if err := run(runner, "setup", "config"); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}

		tu.AssertFileExists(t, "config.toml")
		if !strings.Contains(output.String(), "Configuration written to config.toml") {
			t.Errorf("unexpected output:\n%s", output.String())
		}
		if !strings.Contains(tu.MustReadFile(t, "config.toml"), "[musicbrainz]") {
			t.Error("expected the example config")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "discog.toml")
		runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})

		if err := run(runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("first setup failed: %v", err)
		}
		if err := run(runner, "setup", "config", "--config", path); err == nil {
			t.Error("expected an error for an existing file")
		}
	})
}

func TestConfigure(t *testing.T) {
	server := newMusicBrainz(t, `[{"id":"mb-low","name":"Low","score":90}]`)

	t.Run("explicit config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := "[musicbrainz]\nbase_url = \"" + server.URL + "\"\nrequest_interval = \"0s\"\nmatch_threshold = 95\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})

		if err := run(runner, "artist", "search", "--config", path, "Low"); err != nil {
			t.Fatalf("artist search failed: %v", err)
		}
		if !strings.Contains(output.String(), "No artists scored 95 or more") {
			t.Errorf("expected the configured threshold to apply:\n%s", output.String())
		}
	})

	t.Run("invalid config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[reconcile]\nconcurrency = 0\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})
		err := run(runner, "discography", "--config", path, "mock", "Low")
		if err == nil || !strings.Contains(err.Error(), "failed to load config") {
			t.Errorf("expected config error, got %v", err)
		}
	})
}
