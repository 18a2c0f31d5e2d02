package output

import (
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

const (
	// descColumn is the column descriptions start at, counted from the tree edge.
	descColumn = 30

	// levelWidth is the width the tree enumerator adds per nesting level.
	levelWidth = 4
)

// dirEntry is one directory level of a generated project.
type dirEntry struct {
	dirs  map[string]*dirEntry
	files map[string]string
}

func newDirEntry() *dirEntry {
	return &dirEntry{dirs: map[string]*dirEntry{}, files: map[string]string{}}
}

// add records a slash-separated file path with its description.
func (d *dirEntry) add(p, desc string) {
	dir, file := path.Split(p)
	cur := d
	for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
		if part == "" {
			continue
		}
		next, ok := cur.dirs[part]
		if !ok {
			next = newDirEntry()
			cur.dirs[part] = next
		}
		cur = next
	}
	cur.files[file] = desc
}

// attach appends directories then files, each sorted by name, to t.
func (d *dirEntry) attach(t *tree.Tree, depth int) {
	for _, name := range sortedKeys(d.dirs) {
		sub := tree.Root(name + "/")
		d.dirs[name].attach(sub, depth+1)
		t.Child(sub)
	}
	for _, name := range sortedKeys(d.files) {
		t.Child(fileLabel(name, d.files[name], depth))
	}
}

func fileLabel(name, desc string, depth int) string {
	if desc == "" {
		return name
	}
	pad := max(descColumn-depth*levelWidth-lipgloss.Width(name), 2)
	return name + strings.Repeat(" ", pad) + StyleDim.Render(desc)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// RenderFileTree renders generated files below rootName, directories first,
// with each file's description aligned in a dimmed column.
// files maps slash-separated relative paths to descriptions; empty
// descriptions are omitted.
func RenderFileTree(rootName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := newDirEntry()
	for p, desc := range files {
		root.add(p, desc)
	}

	t := tree.Root(strings.TrimSuffix(rootName, "/") + "/").
		RootStyle(StyleBold).
		EnumeratorStyle(StyleDim.PaddingRight(1))
	root.attach(t, 1)

	return t.String() + "\n"
}

// RenderSimpleTree renders paths without descriptions.
func RenderSimpleTree(rootName string, files []string) string {
	m := make(map[string]string, len(files))
	for _, f := range files {
		m[f] = ""
	}
	return RenderFileTree(rootName, m)
}
