package version

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// toolVersionRegex matches version output like "uv 0.4.18" or "Python 3.11.9".
var toolVersionRegex = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?(?:[-+][a-zA-Z0-9.]+)?`)

// toolTimeout bounds how long a version probe may run.
const toolTimeout = 3 * time.Second

// ToolInfo describes an external tool the generated project relies on.
type ToolInfo struct {
	// Name is the executable name looked up in PATH.
	Name string `json:"name"`

	// Version is the parsed version without a "v" prefix.
	Version string `json:"version,omitempty"`

	// Path is the resolved executable path.
	Path string `json:"path,omitempty"`

	// Found indicates if the executable was found in PATH.
	Found bool `json:"found"`

	// Message provides additional information when detection failed.
	Message string `json:"message,omitempty"`
}

// String returns a one-line summary of the tool.
func (t ToolInfo) String() string {
	if !t.Found {
		return t.Name + ": not found"
	}
	if t.Version == "" {
		return t.Name + ": " + t.Path + " (" + t.Message + ")"
	}
	return t.Name + ": " + t.Version + " (" + t.Path + ")"
}

// DetectTool finds name in PATH and runs it with args to read its version.
func DetectTool(ctx context.Context, name string, args ...string) ToolInfo {
	path, err := exec.LookPath(name)
	if err != nil {
		return ToolInfo{
			Name:    name,
			Message: name + " not found in PATH",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return ToolInfo{
			Name:    name,
			Path:    path,
			Found:   true,
			Message: "failed to get version: " + err.Error(),
		}
	}

	v, err := extractVersion(out.String())
	if err != nil {
		return ToolInfo{Name: name, Path: path, Found: true, Message: err.Error()}
	}

	return ToolInfo{Name: name, Version: v, Path: path, Found: true}
}

// DetectUV reports the uv installation used by generated projects.
func DetectUV(ctx context.Context) ToolInfo {
	return DetectTool(ctx, "uv", "--version")
}

// DetectPython reports the python3 interpreter on PATH.
func DetectPython(ctx context.Context) ToolInfo {
	return DetectTool(ctx, "python3", "--version")
}

// MajorMinorMatch reports whether two versions share MAJOR.MINOR.
// A leading "v" is ignored; "3.11" matches "3.11.9".
func MajorMinorMatch(a, b string) bool {
	ap := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bp := strings.Split(strings.TrimPrefix(b, "v"), ".")

	if len(ap) < 2 || len(bp) < 2 {
		return false
	}

	return ap[0] == bp[0] && ap[1] == bp[1]
}

// extractVersion extracts the first version number from tool output.
func extractVersion(output string) (string, error) {
	first, _, _ := strings.Cut(output, "\n")

	match := toolVersionRegex.FindString(first)
	if match == "" {
		match = toolVersionRegex.FindString(output)
	}

	if match == "" {
		return "", &versionParseError{output: output}
	}

	return match, nil
}

// versionParseError indicates failure to parse tool version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse version from output: " + strings.TrimSpace(e.output)
}
