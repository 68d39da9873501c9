package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/cli-games/internal/core"
)

// Candidate is a discovered, not yet validated plugin.
type Candidate struct {
	ID      string
	Origin  string
	Resolve func() (Plugin, error)
}

// Source provides plugin candidates. Discover returns the candidates it
// could read plus one error per candidate it had to skip.
type Source interface {
	Name() string
	Discover() ([]Candidate, []error)
}

type builtinSource struct {
	plugins []Plugin
}

// Builtin is the compile-time catalogue.
func Builtin(plugins ...Plugin) Source {
	return &builtinSource{plugins: plugins}
}

func (b *builtinSource) Name() string { return "builtin" }

func (b *builtinSource) Discover() ([]Candidate, []error) {
	out := make([]Candidate, 0, len(b.plugins))
	for _, p := range b.plugins {
		p := p // per-iteration copy: Resolve captures p
		p.Origin = "builtin"
		out = append(out, Candidate{
			ID:      p.Descriptor.ID,
			Origin:  "builtin",
			Resolve: func() (Plugin, error) { return p, nil },
		})
	}
	return out, nil
}

// Manifest derives a game from a built-in engine with its own metadata,
// mode subset and default options.
type Manifest struct {
	ID          string      `yaml:"id"`
	Base        string      `yaml:"base"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Genre       string      `yaml:"genre"`
	Author      string      `yaml:"author"`
	Version     string      `yaml:"version"`
	Modes       []core.Mode `yaml:"modes"`
	Defaults    struct {
		Difficulty int     `yaml:"difficulty"`
		TimeLimit  float64 `yaml:"time_limit"`
		Seed       int64   `yaml:"seed"`
	} `yaml:"defaults"`
}

// ParseManifest decodes and structurally checks a manifest. All failures
// wrap core.ErrInvalidPlugin.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: %w", core.ErrInvalidPlugin, err)
	}
	m.ID = strings.TrimSpace(m.ID)
	m.Base = strings.TrimSpace(m.Base)
	if m.ID == "" {
		return m, fmt.Errorf("%w: manifest has no id", core.ErrInvalidPlugin)
	}
	if m.Base == "" {
		return m, fmt.Errorf("%w: %s: manifest has no base", core.ErrInvalidPlugin, m.ID)
	}
	if m.Defaults.Difficulty < 0 || m.Defaults.Difficulty > 4 {
		return m, fmt.Errorf("%w: %s: difficulty %d out of range", core.ErrInvalidPlugin, m.ID, m.Defaults.Difficulty)
	}
	if m.Defaults.TimeLimit < 0 {
		return m, fmt.Errorf("%w: %s: negative time limit", core.ErrInvalidPlugin, m.ID)
	}
	return m, nil
}

// Derive builds the plugin described by m on top of base.
func (m Manifest) Derive(base Plugin) (Plugin, error) {
	p := base
	d := base.Descriptor.Clone()
	d.ID = m.ID
	d.HighScore = 0
	if m.Name != "" {
		d.Name = m.Name
	}
	if m.Description != "" {
		d.Description = m.Description
	}
	if m.Genre != "" {
		d.Genre = m.Genre
	}
	if m.Author != "" {
		d.Author = m.Author
	}
	if m.Version != "" {
		d.Version = m.Version
	}
	if len(m.Modes) > 0 {
		for _, mode := range m.Modes {
			if !base.Descriptor.Supports(mode) {
				return Plugin{}, fmt.Errorf("%w: %s: base %s does not support %s", core.ErrInvalidPlugin, m.ID, m.Base, mode)
			}
		}
		d.Modes = slices.Clone(m.Modes)
	}
	p.Descriptor = d

	if m.Defaults.Difficulty > 0 {
		p.Defaults.Difficulty = m.Defaults.Difficulty
	}
	if m.Defaults.TimeLimit > 0 {
		p.Defaults.TimeLimit = m.Defaults.TimeLimit
	}
	if m.Defaults.Seed != 0 {
		p.Defaults.Seed = m.Defaults.Seed
	}
	return p, nil
}

type manifestSource struct {
	dir  string
	base func(id string) (Plugin, bool)
}

// ManifestDir scans dir for *.yaml and *.yml manifests. base resolves the
// engine a manifest derives from. A missing directory yields nothing.
func ManifestDir(dir string, base func(id string) (Plugin, bool)) Source {
	return &manifestSource{dir: expandHome(dir), base: base}
}

func (s *manifestSource) Name() string { return "manifest:" + s.dir }

func (s *manifestSource) Discover() ([]Candidate, []error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("registry: cannot read plugin dir %s: %w", s.dir, err)}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		out  []Candidate
		errs []error
	)
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("registry: cannot read manifest %s: %w", path, err))
			continue
		}
		m, err := ParseManifest(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("registry: %s: %w", path, err))
			continue
		}
		out = append(out, Candidate{
			ID:     m.ID,
			Origin: path,
			Resolve: func() (Plugin, error) {
				base, ok := s.base(m.Base)
				if !ok {
					return Plugin{}, fmt.Errorf("%w: %s: unknown base %q", core.ErrInvalidPlugin, m.ID, m.Base)
				}
				p, err := m.Derive(base)
				if err != nil {
					return Plugin{}, err
				}
				p.Origin = path
				return p, nil
			},
		})
	}
	return out, errs
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
