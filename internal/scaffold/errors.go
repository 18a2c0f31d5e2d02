package scaffold

import (
	"errors"
	"strings"
)

// Kind classifies scaffold failures.
type Kind int

const (
	// KindUnknownTemplate means the service type is not in the catalog.
	KindUnknownTemplate Kind = iota + 1
	// KindUnknownAddon means a requested add-on is not offered by the template.
	KindUnknownAddon
	// KindMissingVariable means a referenced or required variable is unbound.
	KindMissingVariable
	// KindInvalidVariable means a variable has an unsupported type or value.
	KindInvalidVariable
	// KindInvalidPath means a rendered destination escapes the output root.
	KindInvalidPath
	// KindPlanConflict means two fragments render to the same destination.
	KindPlanConflict
	// KindRenderFailed means a fragment template failed to parse or execute.
	KindRenderFailed
	// KindTargetExists means the output target already exists.
	KindTargetExists
	// KindWriteFailed means an I/O error occurred while committing the plan.
	KindWriteFailed
)

var kindNames = map[Kind]string{
	KindUnknownTemplate: "unknown template",
	KindUnknownAddon:    "unknown add-on",
	KindMissingVariable: "missing variable",
	KindInvalidVariable: "invalid variable",
	KindInvalidPath:     "invalid path",
	KindPlanConflict:    "plan conflict",
	KindRenderFailed:    "render failed",
	KindTargetExists:    "target exists",
	KindWriteFailed:     "write failed",
}

// String returns the human-readable kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown error"
}

// Sentinels for errors.Is matching by kind.
var (
	ErrUnknownTemplate = &Error{Kind: KindUnknownTemplate}
	ErrUnknownAddon    = &Error{Kind: KindUnknownAddon}
	ErrMissingVariable = &Error{Kind: KindMissingVariable}
	ErrInvalidVariable = &Error{Kind: KindInvalidVariable}
	ErrInvalidPath     = &Error{Kind: KindInvalidPath}
	ErrPlanConflict    = &Error{Kind: KindPlanConflict}
	ErrRenderFailed    = &Error{Kind: KindRenderFailed}
	ErrTargetExists    = &Error{Kind: KindTargetExists}
	ErrWriteFailed     = &Error{Kind: KindWriteFailed}
)

// Error is the structured error returned by every scaffold operation.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind Kind

	// Template is the service type being generated.
	Template string

	// Addon is the offending add-on ID (KindUnknownAddon).
	Addon string

	// Variable is the offending variable name.
	Variable string

	// Path is the destination path involved.
	Path string

	// Fragment names the fragment(s) involved.
	Fragment string

	// Err is the underlying cause.
	Err error

	// CleanupErr is set when removing a partial output tree also failed.
	CleanupErr error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())

	detail := func(key, value string) {
		if value != "" {
			b.WriteString(" ")
			b.WriteString(key)
			b.WriteString("=")
			b.WriteString(value)
		}
	}
	detail("template", e.Template)
	detail("addon", e.Addon)
	detail("variable", e.Variable)
	detail("path", e.Path)
	detail("fragment", e.Fragment)

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.CleanupErr != nil {
		b.WriteString(" (cleanup failed: ")
		b.WriteString(e.CleanupErr.Error())
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a scaffold error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first scaffold error in err's chain, or zero.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
