package scaffold

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraftdev/kraft/internal/templates"
)

func embeddedGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	c, err := templates.Embedded()
	require.NoError(t, err)
	return NewGenerator(c, opts...)
}

func restRequest(t *testing.T, target string, noDocker bool) Request {
	t.Helper()
	vars, err := NewVariables(Options{
		Name:          "orders",
		Port:          8000,
		PythonVersion: "3.11",
		NoDocker:      noDocker,
	})
	require.NoError(t, err)
	return Request{ServiceType: "rest", Variables: vars, Target: target}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestGenerate_RestWithDockerAndTests(t *testing.T) {
	target := filepath.Join(t.TempDir(), "orders")

	var phases []Phase
	g := embeddedGenerator(t, WithObserver(func(p Phase) { phases = append(phases, p) }))

	res, err := g.Generate(context.Background(), restRequest(t, target, false))
	require.NoError(t, err)

	assert.Equal(t, []Phase{PhaseResolve, PhaseCompose, PhaseRender, PhaseWrite}, phases)
	assert.Equal(t, "rest", res.Template.ID)
	assert.False(t, res.DryRun)

	tree := readTree(t, target)
	assert.Contains(t, tree, "Dockerfile")
	assert.Contains(t, tree, "docker-compose.yml")
	assert.Contains(t, tree, "tests/conftest.py")
	assert.Contains(t, tree, "tests/test_health.py")
	assert.Contains(t, tree, "src/orders/main.py")
	assert.Contains(t, tree, ".gitignore")
	assert.ElementsMatch(t, res.Files, keys(tree))

	assert.Contains(t, tree["pyproject.toml"], `name = "orders"`)
	assert.Contains(t, tree["pyproject.toml"], `target-version = "py311"`)
	assert.Contains(t, tree["Dockerfile"], "FROM python:3.11-slim")
	assert.Contains(t, tree["Dockerfile"], "EXPOSE 8000")
	assert.Contains(t, tree["tests/test_health.py"], `"orders"`)

	for path, content := range tree {
		assert.NotContains(t, content, "{{", path)
		assert.NotContains(t, content, "<no value>", path)
	}
}

func TestGenerate_NoDocker(t *testing.T) {
	target := filepath.Join(t.TempDir(), "orders")

	_, err := embeddedGenerator(t).Generate(context.Background(), restRequest(t, target, true))
	require.NoError(t, err)

	tree := readTree(t, target)
	for path := range tree {
		assert.NotContains(t, strings.ToLower(path), "docker", path)
	}
	assert.Contains(t, tree, "tests/test_health.py")
}

func TestGenerate_UnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "orders")
	req := restRequest(t, target, false)
	req.ServiceType = "grpc"

	var phases []Phase
	g := embeddedGenerator(t, WithObserver(func(p Phase) { phases = append(phases, p) }))

	res, err := g.Generate(context.Background(), req)

	require.ErrorIs(t, err, ErrUnknownTemplate)
	assert.Nil(t, res)
	assert.Equal(t, "grpc", err.(*Error).Template)
	assert.Equal(t, []Phase{PhaseResolve}, phases)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no filesystem mutation")
}

func TestGenerate_TargetExists(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "main.py"), []byte("mine"), 0o644))
	before := readTree(t, target)

	_, err := embeddedGenerator(t).Generate(context.Background(), restRequest(t, target, false))

	require.ErrorIs(t, err, ErrTargetExists)
	assert.Equal(t, before, readTree(t, target))
}

func TestGenerate_UnknownAddonWritesNothing(t *testing.T) {
	dir := t.TempDir()
	req := restRequest(t, filepath.Join(dir, "orders"), false)
	req.Addons = []string{"kafka"}

	_, err := embeddedGenerator(t).Generate(context.Background(), req)

	require.ErrorIs(t, err, ErrUnknownAddon)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_DryRun(t *testing.T) {
	dir := t.TempDir()
	req := restRequest(t, filepath.Join(dir, "orders"), false)
	req.DryRun = true

	var phases []Phase
	g := embeddedGenerator(t, WithObserver(func(p Phase) { phases = append(phases, p) }))

	res, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.NotEmpty(t, res.Files)
	assert.NotContains(t, phases, PhaseWrite)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlan_BundledTemplates(t *testing.T) {
	c, err := templates.Embedded()
	require.NoError(t, err)
	g := NewGenerator(c)

	for _, id := range c.IDs() {
		tmpl, _ := c.Get(id)
		t.Run(id, func(t *testing.T) {
			vars := fixtureVars(t)
			req := Request{ServiceType: id, Variables: vars, Addons: tmpl.AddonIDs()}

			first, err := g.Plan(context.Background(), req)
			require.NoError(t, err)

			seen := make(map[string]bool)
			for _, p := range first.Plan.Paths() {
				assert.False(t, seen[p], "duplicate path %s", p)
				seen[p] = true
			}

			again, err := g.Plan(context.Background(), req)
			require.NoError(t, err)
			if diff := cmp.Diff(first.Plan, again.Plan); diff != "" {
				t.Errorf("plan differs between runs (-first +again):\n%s", diff)
			}

			off := vars.Clone()
			off[VarIncludeDocker] = false
			off[VarIncludeTests] = false
			reduced, err := g.Plan(context.Background(), Request{ServiceType: id, Variables: off})
			require.NoError(t, err)
			assert.Subset(t, first.Files, reduced.Files)

			if tmpl.Run != "" {
				_, err := RenderString(id+":run", tmpl.Run, vars)
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlan_ReadmeFollowsToggles(t *testing.T) {
	g := embeddedGenerator(t)

	readme := func(t *testing.T, id string, on bool) string {
		t.Helper()
		vars := fixtureVars(t)
		vars[VarIncludeDocker] = on
		vars[VarIncludeTests] = on

		res, err := g.Plan(context.Background(), Request{ServiceType: id, Variables: vars})
		require.NoError(t, err)
		for _, e := range res.Plan.Entries {
			if e.Path == "README.md" {
				return string(e.Content)
			}
		}
		t.Fatalf("%s plan has no README.md", id)
		return ""
	}

	for _, id := range []string{"rest", "worker"} {
		t.Run(id, func(t *testing.T) {
			full := readme(t, id, true)
			assert.Contains(t, full, "## Tests")
			assert.Contains(t, full, "docker-compose up --build")

			bare := readme(t, id, false)
			assert.NotContains(t, bare, "## Tests")
			assert.NotContains(t, bare, "pytest")
			assert.NotContains(t, bare, "docker-compose")
			assert.NotContains(t, bare, "--extra postgres", "add-on extras are not listed unselected")
		})
	}
}

func TestPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := embeddedGenerator(t).Plan(ctx, restRequest(t, "", false))
	assert.ErrorIs(t, err, context.Canceled)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
