// Package scaffold is the project generation engine: it composes template
// fragments, renders them into an in-memory plan, and commits the plan to disk.
package scaffold

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/kraftdev/kraft/internal/templates"
)

// Standard variable names bound by NewVariables.
const (
	VarProjectName   = "project_name"
	VarPackageName   = "package_name"
	VarPort          = "port"
	VarPythonVersion = "python_version"
	VarIncludeDocker = "include_docker"
	VarIncludeTests  = "include_tests"
)

var pythonVersionRegex = regexp.MustCompile(`^\d+\.\d+$`)

// Variables binds template variable names to values.
// Values are string, int, or bool.
type Variables map[string]any

// Options is the user input NewVariables turns into Variables.
type Options struct {
	// Name is the service name, bound as project_name.
	Name string

	// Port is the service port.
	Port int

	// PythonVersion is the runtime version, e.g. "3.11".
	PythonVersion string

	// NoDocker disables container manifests.
	NoDocker bool

	// NoTests disables test scaffolding.
	NoTests bool

	// Extra binds additional string variables for custom templates.
	// Extra may not redefine a standard variable.
	Extra map[string]string
}

// NewVariables builds the variable context for one render.
// It performs no I/O.
func NewVariables(opts Options) (Variables, error) {
	if opts.Name == "" {
		return nil, &Error{Kind: KindMissingVariable, Variable: VarProjectName}
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, &Error{
			Kind:     KindInvalidVariable,
			Variable: VarPort,
			Err:      fmt.Errorf("port %d out of range 1-65535", opts.Port),
		}
	}
	if !pythonVersionRegex.MatchString(opts.PythonVersion) {
		return nil, &Error{
			Kind:     KindInvalidVariable,
			Variable: VarPythonVersion,
			Err:      fmt.Errorf("%q is not a MAJOR.MINOR version", opts.PythonVersion),
		}
	}

	vars := Variables{
		VarProjectName:   opts.Name,
		VarPackageName:   templates.SanitizeName(opts.Name),
		VarPort:          opts.Port,
		VarPythonVersion: opts.PythonVersion,
		VarIncludeDocker: !opts.NoDocker,
		VarIncludeTests:  !opts.NoTests,
	}

	for k, v := range opts.Extra {
		if _, taken := vars[k]; taken {
			return nil, &Error{
				Kind:     KindInvalidVariable,
				Variable: k,
				Err:      fmt.Errorf("%s is set by kraft and cannot be overridden", k),
			}
		}
		vars[k] = v
	}

	return vars, nil
}

// Validate checks that every value has a supported type.
func (v Variables) Validate() error {
	for _, k := range slices.Sorted(maps.Keys(v)) {
		switch v[k].(type) {
		case string, int, bool:
		default:
			return &Error{
				Kind:     KindInvalidVariable,
				Variable: k,
				Err:      fmt.Errorf("unsupported type %T", v[k]),
			}
		}
	}
	return nil
}

// Clone returns a shallow copy of v.
func (v Variables) Clone() Variables {
	return maps.Clone(v)
}
