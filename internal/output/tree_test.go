package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFileTree(t *testing.T) {
	out := stripAnsi(RenderFileTree("orders", map[string]string{
		"pyproject.toml":         "Project metadata",
		"src/orders/main.py":     "Application entry point",
		"tests/test_health.py":   "",
		"src/orders/__init__.py": "",
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "orders/", lines[0])

	// Directories sort before files
	assert.Less(t, strings.Index(out, "src/"), strings.Index(out, "pyproject.toml"))
	assert.Less(t, strings.Index(out, "tests/"), strings.Index(out, "pyproject.toml"))

	assert.Contains(t, out, "└── ")
	assert.Contains(t, out, "Project metadata")
	assert.Contains(t, out, "main.py")
}

func TestRenderFileTree_Empty(t *testing.T) {
	assert.Empty(t, RenderFileTree("orders", nil))
}

func TestRenderSimpleTree(t *testing.T) {
	out := stripAnsi(RenderSimpleTree("svc/", []string{"a.txt", "b/c.txt"}))
	assert.True(t, strings.HasPrefix(out, "svc/\n"))
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "c.txt")
}

func TestRenderFileTree_AlignsDescriptions(t *testing.T) {
	out := stripAnsi(RenderFileTree("orders", map[string]string{
		"pyproject.toml":     "Project metadata",
		"src/orders/main.py": "Application entry point",
	}))

	var cols []int
	for _, line := range strings.Split(out, "\n") {
		for _, desc := range []string{"Project metadata", "Application entry point"} {
			if i := strings.Index(line, desc); i >= 0 {
				cols = append(cols, len([]rune(line[:i])))
			}
		}
	}
	assert.Equal(t, []int{descColumn, descColumn}, cols)
}

func TestRenderFileTree_Nesting(t *testing.T) {
	out := stripAnsi(RenderFileTree("svc/", map[string]string{
		"src/app/main.py": "",
		"README.md":       "",
	}))

	assert.Equal(t, "svc/\n"+
		"├── src/\n"+
		"│   └── app/\n"+
		"│       └── main.py\n"+
		"└── README.md\n", out)
}
