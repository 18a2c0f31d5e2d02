package templates

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureManifest = `id: %s
name: %s service
description: fixture
version: 0.0.1
fragments:
  - id: readme
    path: README.md
    source: README.md.tmpl
base: [readme]
`

func fixtureFS(ids ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, id := range ids {
		fsys[id+"/template.yaml"] = &fstest.MapFile{Data: []byte(fmt.Sprintf(fixtureManifest, id, id))}
		fsys[id+"/README.md.tmpl"] = &fstest.MapFile{Data: []byte("# {{ .project_name }}\n")}
	}
	return fsys
}

func TestLoad_ListsSortedDescriptors(t *testing.T) {
	c, err := Load(fixtureFS("worker", "api", "rest"))
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "api", list[0].ID)
	assert.Equal(t, "rest", list[1].ID)
	assert.Equal(t, "worker", list[2].ID)
	assert.Equal(t, []string{"api", "rest", "worker"}, c.IDs())
}

func TestLoad_IgnoresDirectoriesWithoutManifest(t *testing.T) {
	fsys := fixtureFS("rest")
	fsys["shared/snippet.tmpl"] = &fstest.MapFile{Data: []byte("x")}
	fsys["NOTES.md"] = &fstest.MapFile{Data: []byte("notes")}

	c, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"rest"}, c.IDs())
}

func TestLoad_EmptyCatalog(t *testing.T) {
	c, err := Load(fstest.MapFS{})
	require.NoError(t, err)

	list := c.List()
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCatalog_Info(t *testing.T) {
	c, err := Load(fixtureFS("rest", "worker"))
	require.NoError(t, err)

	for _, id := range c.IDs() {
		d, ok := c.Info(id)
		require.True(t, ok, id)
		assert.Equal(t, id, d.ID)
	}

	for _, id := range []string{"grpc", "REST", "Rest", "", "rest "} {
		_, ok := c.Info(id)
		assert.False(t, ok, "%q should be unknown", id)
	}
}

func TestCatalog_Overlay(t *testing.T) {
	base, err := Load(fixtureFS("rest", "worker"))
	require.NoError(t, err)

	extraFS := fixtureFS("rest", "grpc")
	extraFS["rest/template.yaml"].Data = []byte(fmt.Sprintf(fixtureManifest, "rest", "custom"))
	extra, err := Load(extraFS)
	require.NoError(t, err)

	merged := base.Overlay(extra)

	assert.Equal(t, []string{"grpc", "rest", "worker"}, merged.IDs())
	d, _ := merged.Info("rest")
	assert.Equal(t, "custom service", d.Name)

	// Overlay does not mutate its inputs.
	assert.Equal(t, []string{"rest", "worker"}, base.IDs())
}

func TestCatalog_Suggest(t *testing.T) {
	c, err := Load(fixtureFS("rest", "worker", "grpc-gateway"))
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"rst", []string{"rest"}},
		{"REST", []string{"rest"}},
		{"restapi", []string{"rest"}},
		{"wrkr", []string{"worker"}},
		{"grpc", []string{"grpc-gateway"}},
		{"zzz", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Suggest(tt.query))
		})
	}
}

func TestLoadDir(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadDir("/nonexistent/kraft/templates")
		assert.Error(t, err)
	})
}
