package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_Text(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "kraft version")
	assert.Contains(t, out, "Commit:")
	assert.Contains(t, out, "Tools:")
	assert.Contains(t, out, "uv")
	assert.Contains(t, out, "python3")
}

func TestVersion_JSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "version")
	assert.Contains(t, got, "goVersion")

	tools, ok := got["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 2)
}

func TestVersion_RejectsArgs(t *testing.T) {
	isolate(t)

	_, err := execute(t, "version", "extra")
	assert.Error(t, err)
}
