package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from a dotenv file without overriding variables already set.
//
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values with their environment variables, when set.
func ApplyEnv(c *Config) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"MUSICBRAINZ_USER_AGENT", &c.MusicBrainz.UserAgent},
		{"PANDORA_AUTH_TOKEN", &c.Services.Pandora.AuthToken},
		{"PANDORAUSR", &c.Services.Pandora.Username},
		{"PANDORAPW", &c.Services.Pandora.Password},
		{"YTMUSIC_AUTH_FILE", &c.Services.YouTube.AuthFile},
		{"YTMUSIC_PROXY_URL", &c.Services.YouTube.ProxyURL},
		{"SPOTIFY_CLIENT_ID", &c.Services.Spotify.ClientID},
		{"SPOTIFY_CLIENT_SECRET", &c.Services.Spotify.ClientSecret},
		{"SPOTIFY_ACCESS_TOKEN", &c.Services.Spotify.AccessToken},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.target = v
		}
	}
}
