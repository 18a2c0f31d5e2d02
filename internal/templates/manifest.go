package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the manifest inside every template directory.
const ManifestFile = "template.yaml"

// manifest is the on-disk form of template.yaml.
type manifest struct {
	ID          string                   `yaml:"id"`
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description"`
	Version     string                   `yaml:"version"`
	Run         string                   `yaml:"run"`
	Variables   []string                 `yaml:"variables"`
	Fragments   []manifestFragment       `yaml:"fragments"`
	Base        []string                 `yaml:"base"`
	Toggles     map[string][]string      `yaml:"toggles"`
	Addons      map[string]manifestAddon `yaml:"addons"`
}

type manifestFragment struct {
	ID     string `yaml:"id"`
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
	Mode   string `yaml:"mode"`
}

type manifestAddon struct {
	Description string   `yaml:"description"`
	Fragments   []string `yaml:"fragments"`
}

// parseManifest decodes a manifest, rejecting unknown keys.
func parseManifest(data []byte) (*manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// loadTemplate reads and validates the template rooted at dir in fsys.
func loadTemplate(fsys fs.FS, dir string) (*Template, error) {
	data, err := fs.ReadFile(fsys, dir+"/"+ManifestFile)
	if err != nil {
		return nil, err
	}

	m, err := parseManifest(data)
	if err != nil {
		return nil, err
	}

	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}

	return m.build(dir, sub)
}

// build validates the manifest and converts it into a Template.
func (m *manifest) build(dir string, fsys fs.FS) (*Template, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if m.ID == "" {
		fail("id is required")
	} else if m.ID != dir {
		fail("id %q does not match directory %q", m.ID, dir)
	}
	if m.Name == "" {
		fail("name is required")
	}
	if m.Version == "" {
		fail("version is required")
	}

	t := &Template{
		Descriptor: Descriptor{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Version:     m.Version,
		},
		Run:       m.Run,
		Variables: m.Variables,
		Base:      m.Base,
		Toggles:   m.Toggles,
		Addons:    make(map[string]Addon, len(m.Addons)),
		fsys:      fsys,
	}
	if t.Toggles == nil {
		t.Toggles = map[string][]string{}
	}

	declared := make(map[string]bool, len(m.Fragments))
	for i, mf := range m.Fragments {
		switch {
		case mf.ID == "":
			fail("fragments[%d]: id is required", i)
			continue
		case declared[mf.ID]:
			fail("fragment %q declared twice", mf.ID)
			continue
		}
		declared[mf.ID] = true

		if mf.Path == "" {
			fail("fragment %q: path is required", mf.ID)
		}
		if !fs.ValidPath(mf.Source) || mf.Source == "." {
			fail("fragment %q: invalid source %q", mf.ID, mf.Source)
		} else if _, err := fs.Stat(fsys, mf.Source); err != nil {
			fail("fragment %q: source %q: %v", mf.ID, mf.Source, err)
		}

		var mode fs.FileMode
		if mf.Mode != "" {
			v, err := strconv.ParseUint(mf.Mode, 8, 32)
			if err != nil || v > 0o777 {
				fail("fragment %q: invalid mode %q", mf.ID, mf.Mode)
			}
			mode = fs.FileMode(v)
		}

		t.Fragments = append(t.Fragments, Fragment{
			ID:     mf.ID,
			Path:   mf.Path,
			Source: mf.Source,
			Mode:   mode,
		})
	}

	checkRefs := func(owner string, ids []string) {
		for _, id := range ids {
			if !declared[id] {
				fail("%s references undeclared fragment %q", owner, id)
			}
		}
	}

	checkRefs("base", m.Base)
	for _, name := range sortedKeys(m.Toggles) {
		checkRefs("toggle "+strconv.Quote(name), m.Toggles[name])
	}
	for _, id := range sortedKeys(m.Addons) {
		a := m.Addons[id]
		if len(a.Fragments) == 0 {
			fail("addon %q has no fragments", id)
		}
		checkRefs("addon "+strconv.Quote(id), a.Fragments)
		t.Addons[id] = Addon{ID: id, Description: a.Description, Fragments: a.Fragments}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid template %q: %w", dir, err)
	}

	return t, nil
}
