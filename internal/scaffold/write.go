package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kraftdev/kraft/internal/output"
)

// dirMode is the mode of every directory the writer creates.
const dirMode fs.FileMode = 0o755

// Write commits plan to target and returns the written paths in plan order.
//
// target must not exist: it is claimed with a single mkdir, so a concurrent
// writer to the same target gets KindTargetExists and nothing is touched.
// Files are created exclusively. If any write fails or ctx is cancelled after
// the claim, target is removed again on a best-effort basis; a removal error is
// recorded in Error.CleanupErr and never replaces the original cause.
func Write(ctx context.Context, plan *Plan, target string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindWriteFailed, Template: plan.Template, Path: target, Err: err}
	}

	if parent := filepath.Dir(target); parent != "." {
		if err := os.MkdirAll(parent, dirMode); err != nil {
			return nil, &Error{Kind: KindWriteFailed, Template: plan.Template, Path: parent, Err: err}
		}
	}

	if err := os.Mkdir(target, dirMode); err != nil {
		kind := KindWriteFailed
		if errors.Is(err, fs.ErrExist) {
			kind = KindTargetExists
		}
		return nil, &Error{Kind: kind, Template: plan.Template, Path: target, Err: err}
	}
	output.Debug("claimed output directory", "path", target)

	written := make([]string, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		if err := ctx.Err(); err != nil {
			return nil, abort(target, &Error{Kind: KindWriteFailed, Template: plan.Template, Path: e.Path, Err: err})
		}

		if err := writeEntry(target, e); err != nil {
			return nil, abort(target, &Error{
				Kind:     KindWriteFailed,
				Template: plan.Template,
				Path:     e.Path,
				Fragment: e.Fragment,
				Err:      err,
			})
		}

		output.Debug("wrote file", "path", e.Path, "bytes", len(e.Content))
		written = append(written, e.Path)
	}

	return written, nil
}

func writeEntry(root string, e Entry) error {
	full := filepath.Join(root, filepath.FromSlash(e.Path))

	if err := os.MkdirAll(filepath.Dir(full), dirMode); err != nil {
		return err
	}

	mode := e.Mode
	if mode == 0 {
		mode = DefaultFileMode
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}

	if _, err := f.Write(e.Content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// abort removes the partially written target and returns cause.
func abort(target string, cause *Error) error {
	if err := os.RemoveAll(target); err != nil {
		cause.CleanupErr = fmt.Errorf("removing %s: %w", target, err)
		output.Warn("could not remove partial output", "path", target, "error", err)
	}
	return cause
}
