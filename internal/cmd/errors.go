package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/scaffold"
	"github.com/kraftdev/kraft/internal/templates"
)

// exitErrorFor converts a scaffold error into a user-facing ExitError.
// Errors that are not scaffold errors become general errors.
func exitErrorFor(err error, catalog *templates.Catalog) error {
	var se *scaffold.Error
	if !errors.As(err, &se) {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
	}

	switch se.Kind {
	case scaffold.KindUnknownTemplate:
		return &oerrors.ExitError{
			Code: oerrors.ExitNotFound,
			Err: oerrors.NewNotFoundError(
				fmt.Sprintf("unknown service type: %s", se.Template),
				"",
				unknownTemplateHint(se.Template, catalog),
			),
		}

	case scaffold.KindUnknownAddon:
		hint := "This template has no add-ons."
		if t, ok := catalog.Get(se.Template); ok && len(t.Addons) > 0 {
			hint = fmt.Sprintf("Available add-ons for %s: %s", se.Template, strings.Join(t.AddonIDs(), ", "))
		}
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err: &oerrors.DetailError{
				Type:    "validation failed",
				Message: fmt.Sprintf("unknown add-on: %s", se.Addon),
				Field:   "--with",
				Context: map[string]string{"Template": se.Template},
				Hint:    hint,
				Cause:   err,
			},
		}

	case scaffold.KindMissingVariable, scaffold.KindInvalidVariable:
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err: &oerrors.DetailError{
				Type:    "validation failed",
				Message: variableMessage(se),
				Field:   se.Variable,
				Hint:    variableHint(se.Variable),
				Cause:   err,
			},
		}

	case scaffold.KindTargetExists:
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err: &oerrors.DetailError{
				Type:     "validation failed",
				Message:  "output directory already exists",
				Location: se.Path,
				Hint:     "Remove it or choose another --output.",
				Cause:    err,
			},
		}

	case scaffold.KindInvalidPath, scaffold.KindPlanConflict, scaffold.KindRenderFailed:
		ctx := map[string]string{"Template": se.Template}
		if se.Fragment != "" {
			ctx["Fragment"] = se.Fragment
		}
		return &oerrors.ExitError{
			Code: oerrors.ExitTemplateError,
			Err: &oerrors.DetailError{
				Type:     "template error",
				Message:  se.Error(),
				Location: se.Path,
				Context:  ctx,
				Hint:     "The template is broken. Fix its manifest or report it to the template author.",
				Cause:    err,
			},
		}

	case scaffold.KindWriteFailed:
		return writeFailedError(se, err)
	}

	return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
}

func writeFailedError(se *scaffold.Error, err error) error {
	detail := &oerrors.DetailError{
		Type:     "write failed",
		Message:  se.Error(),
		Location: se.Path,
		Cause:    err,
	}
	if se.CleanupErr != nil {
		detail.Context = map[string]string{"Cleanup": se.CleanupErr.Error()}
	}

	code := oerrors.ExitGeneralError
	switch {
	case errors.Is(err, fs.ErrPermission):
		code = oerrors.ExitPermissionDenied
		detail.Type = "permission denied"
		detail.Hint = "Check that you can write to the output location."
	case errors.Is(err, context.Canceled):
		detail.Type = "interrupted"
		detail.Message = "generation was cancelled; partial output was removed"
	}

	return &oerrors.ExitError{Code: code, Err: detail}
}

func unknownTemplateHint(id string, catalog *templates.Catalog) string {
	ids := catalog.IDs()
	if len(ids) == 0 {
		return "No templates available."
	}

	hint := fmt.Sprintf("Available types: %s", strings.Join(ids, ", "))
	if suggestions := catalog.Suggest(id); len(suggestions) > 0 {
		hint = fmt.Sprintf("Did you mean %q? %s", suggestions[0], hint)
	}
	return hint
}

func variableMessage(se *scaffold.Error) string {
	if se.Kind == scaffold.KindMissingVariable {
		return fmt.Sprintf("missing value for %s", se.Variable)
	}
	if se.Err != nil {
		return se.Err.Error()
	}
	return fmt.Sprintf("invalid value for %s", se.Variable)
}

func variableHint(name string) string {
	switch name {
	case scaffold.VarPort:
		return "Use --port with a value between 1 and 65535."
	case scaffold.VarPythonVersion:
		return "Use --python with a version such as 3.11 or 3.12."
	default:
		return "Pass it with --var " + name + "=<value>."
	}
}
