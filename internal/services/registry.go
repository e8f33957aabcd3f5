package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/discog/internal/shared"
)

// Factory builds a [Catalog] from the services config section.
type Factory func(cfg shared.ServicesConfig, logger *log.Logger) (Catalog, error)

// Entry describes one registered service.
type Entry struct {
	Display string
	Names   []string
	Factory Factory
}

// Registry maps service names and aliases to factories.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// NewRegistry creates an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Default returns a [Registry] with every built-in service.
func Default() *Registry {
	r := NewRegistry()
	r.Register("Pandora", []string{"pandora"}, func(cfg shared.ServicesConfig, logger *log.Logger) (Catalog, error) {
		return NewPandoraService(cfg.Pandora.BaseURL, logger), nil
	})
	r.Register("YouTube Music", []string{"ytm", "youtubemusic", "youtube"}, func(cfg shared.ServicesConfig, logger *log.Logger) (Catalog, error) {
		return NewYouTubeService(cfg.YouTube.ProxyURL, logger), nil
	})
	r.Register("Spotify", []string{"spotify"}, func(cfg shared.ServicesConfig, logger *log.Logger) (Catalog, error) {
		return NewSpotifyService(cfg.Spotify, logger)
	})
	return r
}

// Register adds a service under each of its names. Later registrations win on conflicts.
func (r *Registry) Register(display string, names []string, factory Factory) {
	r.entries = append(r.entries, Entry{Display: display, Names: names, Factory: factory})
	for _, name := range names {
		r.byName[strings.ToLower(name)] = len(r.entries) - 1
	}
}

// Lookup finds a service by case-insensitive name or alias.
func (r *Registry) Lookup(name string) (Entry, error) {
	idx, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q (supported: %s)", shared.ErrUnsupportedService, name, strings.Join(r.Names(), ", "))
	}
	return r.entries[idx], nil
}

// New looks up a service and builds it.
func (r *Registry) New(name string, cfg shared.ServicesConfig, logger *log.Logger) (Catalog, error) {
	entry, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return entry.Factory(cfg, logger)
}

// Entries returns the registered services in registration order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Names returns every accepted name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
