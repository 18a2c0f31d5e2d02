package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
)

var kraftEnv = []string{
	"KRAFT_CONFIG",
	"KRAFT_TEMPLATES_DIR",
	"KRAFT_DEFAULTS_TYPE",
	"KRAFT_DEFAULTS_PORT",
	"KRAFT_DEFAULTS_PYTHON",
	"KRAFT_LOG_TIMESTAMPS",
}

// isolate points HOME at a fresh directory and clears KRAFT_* variables so
// the developer's own configuration never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range kraftEnv {
		t.Setenv(env, "")
	}
	return home
}

// execute runs the root command with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	restore := output.SetOutput(&buf)
	defer restore()

	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.Execute()
	return buf.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *oerrors.ExitError {
	t.Helper()
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code, "unexpected exit code for: %v", err)
	return exitErr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeCustomTemplate creates a minimal "cli" template under dir.
func writeCustomTemplate(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "cli", "template.yaml"), `id: cli
name: Command Line Tool
description: Typer command line tool
version: 0.2.0
run: "uv run {{ .project_name }} --help"
variables: [project_name, package_name, owner]
fragments:
  - id: main
    path: "src/{{ .package_name }}/cli.py"
    source: cli.py.tmpl
  - id: readme
    path: README.md
    source: README.md.tmpl
base: [main, readme]
`)
	writeFile(t, filepath.Join(dir, "cli", "cli.py.tmpl"), "# {{ .project_name }} by {{ .owner }}\n")
	writeFile(t, filepath.Join(dir, "cli", "README.md.tmpl"), "# {{ .project_name | pascal }}\n")
}
