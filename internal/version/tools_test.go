package version

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{"uv", "uv 0.4.18 (Homebrew 2024-10-01)\n", "0.4.18", false},
		{"python", "Python 3.11.9\n", "3.11.9", false},
		{"prerelease", "tool 1.2.3-rc.1\n", "1.2.3-rc.1", false},
		{"version on later line", "banner\nversion 2.0\n", "2.0", false},
		{"no version", "hello world", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMajorMinorMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"3.11", "3.11.9", true},
		{"v3.11.0", "3.11", true},
		{"3.11", "3.12.1", false},
		{"2.7", "3.7", false},
		{"3", "3.11", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MajorMinorMatch(tt.a, tt.b))
		})
	}
}

func TestDetectTool_NotFound(t *testing.T) {
	info := DetectTool(context.Background(), "kraft-test-no-such-tool", "--version")

	assert.False(t, info.Found)
	assert.Empty(t, info.Path)
	assert.Contains(t, info.String(), "not found")
}
