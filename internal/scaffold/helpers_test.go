package scaffold

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/kraftdev/kraft/internal/templates"
)

// fixtureManifest is a small template exercising base, toggle, and add-on groups.
const fixtureManifest = `id: svc
name: Fixture
description: fixture service
version: 0.1.0
variables: [project_name, package_name]
fragments:
  - {id: readme, path: README.md, source: README.md.tmpl}
  - {id: main, path: "src/{{ .package_name }}/main.py", source: main.py.tmpl}
  - {id: dockerfile, path: Dockerfile, source: Dockerfile.tmpl}
  - {id: compose, path: docker-compose.yml, source: compose.tmpl}
  - {id: test, path: tests/test_main.py, source: test.tmpl}
  - {id: db, path: "src/{{ .package_name }}/db.py", source: db.tmpl}
  - {id: cache, path: "src/{{ .package_name }}/cache.py", source: cache.tmpl}
base: [readme, main]
toggles:
  include_docker: [dockerfile, compose]
  include_tests: [test]
addons:
  postgres: {description: db, fragments: [db, compose]}
  redis: {description: cache, fragments: [cache]}
`

func fixtureFS() fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"svc/template.yaml":   file(fixtureManifest),
		"svc/README.md.tmpl":  file("# {{ .project_name }}\n"),
		"svc/main.py.tmpl":    file("PORT = {{ .port }}\nDEBUG = {{ .include_tests }}\n"),
		"svc/Dockerfile.tmpl": file("FROM python:{{ .python_version }}\n"),
		"svc/compose.tmpl":    file("services:\n  {{ .project_name }}: {}\n"),
		"svc/test.tmpl":       file("import {{ .package_name }}\n"),
		"svc/db.tmpl":         file("NAME = \"{{ .project_name | snake }}\"\n"),
		"svc/cache.tmpl":      file("PREFIX = \"{{ .project_name | upper }}\"\n"),
	}
}

func loadFixture(t *testing.T, fsys fstest.MapFS) (*templates.Catalog, *templates.Template) {
	t.Helper()
	c, err := templates.Load(fsys)
	require.NoError(t, err)
	tmpl, ok := c.Get("svc")
	require.True(t, ok)
	return c, tmpl
}

func fixtureVars(t *testing.T) Variables {
	t.Helper()
	vars, err := NewVariables(Options{Name: "orders", Port: 8000, PythonVersion: "3.11"})
	require.NoError(t, err)
	return vars
}

func fragmentIDs(fragments []templates.Fragment) []string {
	ids := make([]string, 0, len(fragments))
	for _, f := range fragments {
		ids = append(ids, f.ID)
	}
	return ids
}
