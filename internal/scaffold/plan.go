package scaffold

import "io/fs"

// DefaultFileMode is the mode of written files whose fragment sets none.
const DefaultFileMode fs.FileMode = 0o644

// Entry is one file of a render plan.
type Entry struct {
	// Path is slash-separated and relative to the output root.
	Path string

	// Content is the rendered file content.
	Content []byte

	// Mode is the file permission.
	Mode fs.FileMode

	// Fragment is the ID of the fragment that produced the entry.
	Fragment string
}

// Plan is the fully rendered, ordered set of files for one generation.
// Entry paths are unique.
type Plan struct {
	Template string
	Entries  []Entry
}

// Paths returns the entry paths in plan order.
func (p *Plan) Paths() []string {
	paths := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// Lookup returns the entry written to path.
func (p *Plan) Lookup(path string) (Entry, bool) {
	for _, e := range p.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Size returns the total number of content bytes.
func (p *Plan) Size() int {
	n := 0
	for _, e := range p.Entries {
		n += len(e.Content)
	}
	return n
}
