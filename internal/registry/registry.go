// Package registry discovers, validates and instantiates games.
// Candidates come from sources (the built-in catalogue and manifest
// directories); discovery reads metadata only and never runs game logic.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cli-games/internal/core"
)

// Factory creates a fresh, uninitialized session.
type Factory func() core.Session

// Plugin is a loadable game: its metadata, how the loop should drive it,
// and how to build sessions.
type Plugin struct {
	Descriptor core.Descriptor
	Timing     core.Timing
	New        Factory
	Defaults   core.Options // merged under caller options at launch
	Origin     string       // source that provided the plugin
}

// Listing is the public view of a loaded game.
type Listing struct {
	ID          string
	Name        string
	Description string
	Genre       string
	Modes       []core.Mode
	HighScore   int
	Enabled     bool
	Origin      string
}

// Stats summarizes the catalogue.
type Stats struct {
	Total    int
	Enabled  int
	Disabled int
	Genres   map[string]int
}

type entry struct {
	plugin    Plugin
	highScore int
}

// Registry holds every loaded plugin and the user's disabled set. It is
// safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	logger     *log.Logger
	sources    []Source
	candidates map[string]Candidate
	order      []string
	plugins    map[string]*entry
	disabled   map[string]bool
}

// New creates a registry over the given sources. Earlier sources win when
// two provide the same id.
func New(logger *log.Logger, sources ...Source) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		logger:     logger.WithPrefix("registry"),
		sources:    sources,
		candidates: make(map[string]Candidate),
		plugins:    make(map[string]*entry),
		disabled:   make(map[string]bool),
	}
}

// Discover enumerates candidate ids from every source without building
// any session. Malformed candidates and duplicates are logged and skipped.
func (r *Registry) Discover() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for _, src := range r.sources {
		found, errs := src.Discover()
		for _, err := range errs {
			r.logger.Warn("skipping plugin candidate", "source", src.Name(), "err", err)
		}
		for _, c := range found {
			if prev, ok := r.candidates[c.ID]; ok {
				if prev.Origin != c.Origin {
					r.logger.Warn("duplicate plugin id", "id", c.ID, "kept", prev.Origin, "ignored", c.Origin)
				}
				continue
			}
			r.candidates[c.ID] = c
			r.order = append(r.order, c.ID)
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Load resolves and validates a discovered candidate.
func (r *Registry) Load(id string) (core.Descriptor, error) {
	r.mu.RLock()
	if e, ok := r.plugins[id]; ok {
		d := r.describe(e)
		r.mu.RUnlock()
		return d, nil
	}
	c, ok := r.candidates[id]
	r.mu.RUnlock()
	if !ok {
		return core.Descriptor{}, fmt.Errorf("registry: %w: %q", core.ErrUnknownGame, id)
	}

	// Resolve may look up other plugins, so it runs unlocked.
	p, err := c.Resolve()
	if err != nil {
		if !errors.Is(err, core.ErrInvalidPlugin) {
			err = fmt.Errorf("%w: %w", core.ErrInvalidPlugin, err)
		}
		return core.Descriptor{}, fmt.Errorf("registry: cannot load %q: %w", id, err)
	}
	if err := p.Descriptor.Validate(); err != nil {
		return core.Descriptor{}, fmt.Errorf("registry: cannot load %q: %w", id, err)
	}
	if p.New == nil {
		return core.Descriptor{}, fmt.Errorf("registry: cannot load %q: %w: no factory", id, core.ErrInvalidPlugin)
	}
	if p.Descriptor.ID != id {
		return core.Descriptor{}, fmt.Errorf("registry: cannot load %q: %w: descriptor id %q", id, core.ErrInvalidPlugin, p.Descriptor.ID)
	}
	if p.Origin == "" {
		p.Origin = c.Origin
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.plugins[id]; ok {
		return r.describe(e), nil
	}
	e := &entry{plugin: p, highScore: p.Descriptor.HighScore}
	r.plugins[id] = e
	return r.describe(e), nil
}

// LoadAll discovers and loads every candidate, logging the ones that fail.
// It returns the ids that loaded.
func (r *Registry) LoadAll() []string {
	r.Discover()

	r.mu.RLock()
	order := slices.Clone(r.order)
	r.mu.RUnlock()

	loaded := make([]string, 0, len(order))
	for _, id := range order {
		if _, err := r.Load(id); err != nil {
			r.logger.Warn("plugin rejected", "id", id, "err", err)
			continue
		}
		loaded = append(loaded, id)
	}
	r.logger.Debug("plugins loaded", "count", len(loaded))
	return loaded
}

// CreateSession builds a new session for id after checking that the game
// exists, is enabled and supports mode. No session is created on error.
func (r *Registry) CreateSession(id string, mode core.Mode) (core.Session, Plugin, error) {
	r.mu.RLock()
	e, ok := r.plugins[id]
	disabled := r.disabled[id]
	r.mu.RUnlock()

	if !ok {
		return nil, Plugin{}, fmt.Errorf("registry: %w: %q", core.ErrUnknownGame, id)
	}
	if disabled {
		return nil, Plugin{}, fmt.Errorf("registry: %w: %q", core.ErrGameDisabled, id)
	}
	if !e.plugin.Descriptor.Supports(mode) {
		return nil, Plugin{}, fmt.Errorf("registry: %w: %q does not support %s", core.ErrUnsupportedMode, id, mode)
	}

	p := e.plugin
	p.Descriptor = p.Descriptor.Clone()
	return p.New(), p, nil
}

// Plugin returns a loaded plugin by id.
func (r *Registry) Plugin(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.plugins[id]
	if !ok {
		return Plugin{}, false
	}
	p := e.plugin
	p.Descriptor = r.describe(e)
	return p, true
}

// Descriptor returns the metadata of a loaded game including its current
// high score.
func (r *Registry) Descriptor(id string) (core.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.plugins[id]
	if !ok {
		return core.Descriptor{}, fmt.Errorf("registry: %w: %q", core.ErrUnknownGame, id)
	}
	return r.describe(e), nil
}

// Enable re-enables a loaded game.
func (r *Registry) Enable(id string) error {
	return r.setEnabled(id, true)
}

// Disable hides a loaded game from List and refuses new sessions for it.
func (r *Registry) Disable(id string) error {
	return r.setEnabled(id, false)
}

func (r *Registry) setEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plugins[id]; !ok {
		return fmt.Errorf("registry: %w: %q", core.ErrUnknownGame, id)
	}
	if enabled {
		delete(r.disabled, id)
	} else {
		r.disabled[id] = true
	}
	return nil
}

// SetDisabled replaces the disabled set, typically from saved settings.
// Ids that are not loaded are kept so they apply if the plugin shows up.
func (r *Registry) SetDisabled(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.disabled = make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			r.disabled[id] = true
		}
	}
}

// Disabled returns the disabled ids, sorted.
func (r *Registry) Disabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.disabled))
	for id := range r.disabled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsEnabled reports whether id is loaded and not disabled.
func (r *Registry) IsEnabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[id]
	return ok && !r.disabled[id]
}

// List returns the enabled games sorted by id.
func (r *Registry) List() []Listing {
	return r.filter(func(l Listing) bool { return l.Enabled })
}

// All returns every loaded game, disabled ones included, sorted by id.
func (r *Registry) All() []Listing {
	return r.filter(func(Listing) bool { return true })
}

// ByGenre returns the enabled games of a genre.
func (r *Registry) ByGenre(genre string) []Listing {
	return r.filter(func(l Listing) bool {
		return l.Enabled && strings.EqualFold(l.Genre, genre)
	})
}

// Search matches query against name, description and genre,
// case-insensitively. Only enabled games are returned.
func (r *Registry) Search(query string) []Listing {
	q := strings.ToLower(strings.TrimSpace(query))
	return r.filter(func(l Listing) bool {
		if !l.Enabled {
			return false
		}
		return strings.Contains(strings.ToLower(l.Name), q) ||
			strings.Contains(strings.ToLower(l.Description), q) ||
			strings.Contains(strings.ToLower(l.Genre), q) ||
			strings.Contains(l.ID, q)
	})
}

// Stats counts loaded games by state and genre.
func (r *Registry) Stats() Stats {
	st := Stats{Genres: make(map[string]int)}
	for _, l := range r.All() {
		st.Total++
		if l.Enabled {
			st.Enabled++
		} else {
			st.Disabled++
		}
		if l.Genre != "" {
			st.Genres[l.Genre]++
		}
	}
	return st
}

// RecordHighScore raises the stored high score for id. It returns true if
// score is a new record. High scores never decrease.
func (r *Registry) RecordHighScore(id string, score int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.plugins[id]
	if !ok || score <= e.highScore {
		return false
	}
	e.highScore = score
	return true
}

// SeedHighScores applies persisted high scores, typically at startup.
func (r *Registry) SeedHighScores(scores map[string]int) {
	for id, score := range scores {
		r.RecordHighScore(id, score)
	}
}

func (r *Registry) filter(keep func(Listing) bool) []Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Listing, 0, len(r.plugins))
	for id, e := range r.plugins {
		d := e.plugin.Descriptor
		l := Listing{
			ID:          id,
			Name:        d.Name,
			Description: d.Description,
			Genre:       d.Genre,
			Modes:       slices.Clone(d.Modes),
			HighScore:   e.highScore,
			Enabled:     !r.disabled[id],
			Origin:      e.plugin.Origin,
		}
		if keep(l) {
			result = append(result, l)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *Registry) describe(e *entry) core.Descriptor {
	d := e.plugin.Descriptor.Clone()
	d.HighScore = e.highScore
	return d
}
