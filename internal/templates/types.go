// Package templates provides the catalog of service templates used by kraft create.
package templates

import (
	"io/fs"
	"sort"
)

// Descriptor is the presentation metadata of a template.
type Descriptor struct {
	// ID is the service type users pass to --type (e.g. "rest").
	ID string `json:"id"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// Description explains what the template generates.
	Description string `json:"description"`

	// Version is the template version.
	Version string `json:"version"`
}

// Fragment is a single file of a template: a destination path template and
// a content template read from Source.
type Fragment struct {
	// ID is unique within the template.
	ID string

	// Path is the destination path template, relative to the output root.
	Path string

	// Source is the content template file, relative to the template directory.
	Source string

	// Mode is the file mode of the written file. Zero means 0644.
	Mode fs.FileMode
}

// Addon is an optional named group of fragments.
type Addon struct {
	ID          string
	Description string
	Fragments   []string
}

// Template is a loaded template. It is read-only after Load returns.
type Template struct {
	Descriptor

	// Run is an optional command template shown as the last next step.
	Run string

	// Variables lists the variable names every render must bind.
	Variables []string

	// Fragments holds every fragment in manifest order.
	Fragments []Fragment

	// Base lists fragment IDs always included.
	Base []string

	// Toggles maps a boolean variable to the fragments it includes when true.
	Toggles map[string][]string

	// Addons maps add-on IDs to their fragment groups.
	Addons map[string]Addon

	fsys fs.FS
}

// Fragment returns the fragment with the given ID.
func (t *Template) Fragment(id string) (Fragment, bool) {
	for _, f := range t.Fragments {
		if f.ID == id {
			return f, true
		}
	}
	return Fragment{}, false
}

// ReadSource returns the raw content template of a fragment.
func (t *Template) ReadSource(f Fragment) ([]byte, error) {
	return fs.ReadFile(t.fsys, f.Source)
}

// AddonIDs returns the add-on identifiers in sorted order.
func (t *Template) AddonIDs() []string {
	return sortedKeys(t.Addons)
}

// ToggleNames returns the toggle variable names in sorted order.
func (t *Template) ToggleNames() []string {
	return sortedKeys(t.Toggles)
}

// Files returns the unrendered destination paths of every fragment in manifest order.
func (t *Template) Files() []string {
	files := make([]string, 0, len(t.Fragments))
	for _, f := range t.Fragments {
		files = append(files, f.Path)
	}
	return files
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
