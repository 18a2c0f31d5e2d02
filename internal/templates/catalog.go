package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultTemplateID is the service type used when --type is not specified.
const DefaultTemplateID = "rest"

// Catalog is an immutable set of templates keyed by ID.
// Catalogs are safe for concurrent use.
type Catalog struct {
	templates map[string]*Template
	ids       []string
}

// Load builds a catalog from fsys. Every top-level directory that contains a
// template.yaml is a template; other entries are ignored.
func Load(fsys fs.FS) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	c := &Catalog{templates: make(map[string]*Template)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if _, err := fs.Stat(fsys, entry.Name()+"/"+ManifestFile); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		t, err := loadTemplate(fsys, entry.Name())
		if err != nil {
			return nil, err
		}

		c.templates[t.ID] = t
	}

	c.index()
	return c, nil
}

// LoadDir builds a catalog from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates directory %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Overlay returns a new catalog containing the templates of c and other.
// Templates in other shadow templates of c with the same ID.
func (c *Catalog) Overlay(other *Catalog) *Catalog {
	merged := &Catalog{templates: make(map[string]*Template, len(c.templates)+len(other.templates))}
	for id, t := range c.templates {
		merged.templates[id] = t
	}
	for id, t := range other.templates {
		merged.templates[id] = t
	}
	merged.index()
	return merged
}

func (c *Catalog) index() {
	c.ids = sortedKeys(c.templates)
}

// List returns the descriptor of every template, sorted by ID.
// An empty catalog yields an empty slice.
func (c *Catalog) List() []Descriptor {
	out := make([]Descriptor, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.templates[id].Descriptor)
	}
	return out
}

// Info returns the descriptor for id. The match is exact and case-sensitive.
func (c *Catalog) Info(id string) (Descriptor, bool) {
	t, ok := c.templates[id]
	if !ok {
		return Descriptor{}, false
	}
	return t.Descriptor, true
}

// Get returns the full template for id.
func (c *Catalog) Get(id string) (*Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// IDs returns all template IDs in sorted order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Suggest returns template IDs that loosely match id, best match first.
func (c *Catalog) Suggest(id string) []string {
	query := strings.ToLower(id)
	if query == "" {
		return nil
	}

	lower := make([]string, len(c.ids))
	for i, candidate := range c.ids {
		lower[i] = strings.ToLower(candidate)
	}

	seen := make(map[int]bool)
	var out []string

	for _, m := range fuzzy.Find(query, lower) {
		seen[m.Index] = true
		out = append(out, c.ids[m.Index])
	}

	// Also catch queries that are longer than the ID, like "restapi".
	var extra []int
	for i, candidate := range lower {
		if !seen[i] && len(fuzzy.Find(candidate, []string{query})) > 0 {
			extra = append(extra, i)
		}
	}
	sort.Ints(extra)
	for _, i := range extra {
		out = append(out, c.ids[i])
	}

	return out
}
