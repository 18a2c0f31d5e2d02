package output

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantBold bool
		wantFG   lipgloss.TerminalColor
	}{
		{name: "created returns green", status: StatusCreated, wantFG: ColorGreen},
		{name: "planned returns yellow", status: StatusPlanned, wantFG: ColorYellow},
		{name: "failed returns bold red", status: StatusFailed, wantBold: true, wantFG: ColorBoldRed},
		{name: "unknown returns default unstyled", status: "unknown-value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := StatusStyle(tt.status)
			assert.Equal(t, tt.wantBold, style.GetBold())
			if tt.wantFG != nil {
				assert.Equal(t, tt.wantFG, style.GetForeground(), "foreground color mismatch")
			}
		})
	}
}

func TestFormatFileLine(t *testing.T) {
	result := FormatFileLine("src/orders/main.py", StatusCreated)

	assert.Contains(t, result, "src/orders/main.py")
	assert.Contains(t, result, StatusCreated)
	assert.True(t, strings.HasPrefix(stripAnsi(result), "f:"), "should start with f: prefix")

	t.Run("alignment consistency", func(t *testing.T) {
		line1 := stripAnsi(FormatFileLine("Dockerfile", StatusCreated))
		line2 := stripAnsi(FormatFileLine("tests/test_health.py", StatusCreated))

		assert.Equal(t, strings.Index(line1, StatusCreated), strings.Index(line2, StatusCreated),
			"status words should align to same column")
	})
}

func TestFormatCheckmark(t *testing.T) {
	result := FormatCheckmark("Created service")
	assert.Contains(t, result, "✔")
	assert.Contains(t, result, "Created service")
}
