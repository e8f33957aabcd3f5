package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	MusicBrainz MusicBrainzConfig `toml:"musicbrainz"`
	Reconcile   ReconcileConfig   `toml:"reconcile"`
	Playlist    PlaylistConfig    `toml:"playlist"`
	Services    ServicesConfig    `toml:"services"`
}

// MusicBrainzConfig controls the canonical catalog client.
type MusicBrainzConfig struct {
	BaseURL         string        `toml:"base_url"`
	UserAgent       string        `toml:"user_agent"`
	PageSize        int           `toml:"page_size"`
	PageDelay       time.Duration `toml:"page_delay"`
	RequestInterval time.Duration `toml:"request_interval"`
	Backoff         time.Duration `toml:"backoff"`
	MaxBackoff      time.Duration `toml:"max_backoff"`
	MaxWait         time.Duration `toml:"max_wait"` // 0 retries throttled requests forever
	MatchThreshold  int           `toml:"match_threshold"`
}

// ReconcileConfig tunes the per-group target catalog search.
type ReconcileConfig struct {
	SearchLimit int `toml:"search_limit"`
	Concurrency int `toml:"concurrency"`
}

// PlaylistConfig holds playlist name formats. "{artist}" is replaced by the searched name.
type PlaylistConfig struct {
	DiscographyFormat string `toml:"discography_format"`
	SimilarFormat     string `toml:"similar_format"`
}

// ServicesConfig contains target service specific settings and credentials.
type ServicesConfig struct {
	Pandora PandoraConfig `toml:"pandora"`
	YouTube YouTubeConfig `toml:"youtube"`
	Spotify SpotifyConfig `toml:"spotify"`
}

// PandoraConfig contains Pandora credentials. AuthToken wins over Username/Password.
type PandoraConfig struct {
	BaseURL   string `toml:"base_url"`
	AuthToken string `toml:"auth_token"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// YouTubeConfig contains YouTube Music proxy settings.
type YouTubeConfig struct {
	ProxyURL string `toml:"proxy_url"`
	AuthFile string `toml:"auth_file"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token"`
	Market       string `toml:"market"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks value ranges that would otherwise surface as confusing runtime behavior.
func (c *Config) Validate() error {
	if c.MusicBrainz.PageSize < 1 || c.MusicBrainz.PageSize > 100 {
		return fmt.Errorf("%w: musicbrainz.page_size must be between 1 and 100, got %d", ErrInvalidConfig, c.MusicBrainz.PageSize)
	}
	if c.MusicBrainz.MatchThreshold < 1 || c.MusicBrainz.MatchThreshold > 100 {
		return fmt.Errorf("%w: musicbrainz.match_threshold must be between 1 and 100, got %d", ErrInvalidConfig, c.MusicBrainz.MatchThreshold)
	}
	if c.MusicBrainz.MaxWait < 0 {
		return fmt.Errorf("%w: musicbrainz.max_wait cannot be negative", ErrInvalidConfig)
	}
	if c.Reconcile.SearchLimit < 1 {
		return fmt.Errorf("%w: reconcile.search_limit must be positive", ErrInvalidConfig)
	}
	if c.Reconcile.Concurrency < 1 {
		return fmt.Errorf("%w: reconcile.concurrency must be positive", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
