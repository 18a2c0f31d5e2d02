package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"text/template/parse"
	"unicode"

	"github.com/kraftdev/kraft/internal/templates"
)

var funcMap = template.FuncMap{
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
	"snake":   toSnakeCase,
	"kebab":   toKebabCase,
	"pascal":  toPascalCase,
	"replace": replaceAll,
}

// Render expands the destination path and content of every fragment and
// returns the complete plan. Nothing is returned on failure; the plan is
// either whole or absent.
func Render(t *templates.Template, fragments []templates.Fragment, vars Variables) (*Plan, error) {
	if err := vars.Validate(); err != nil {
		return nil, withTemplate(err, t.ID)
	}

	for _, name := range t.Variables {
		if _, ok := vars[name]; !ok {
			return nil, &Error{Kind: KindMissingVariable, Template: t.ID, Variable: name}
		}
	}

	plan := &Plan{Template: t.ID, Entries: make([]Entry, 0, len(fragments))}
	files := make(map[string]string)
	dirs := make(map[string]string)

	for _, f := range fragments {
		dest, err := renderPath(f, vars)
		if err != nil {
			return nil, withTemplate(err, t.ID)
		}

		if owner, ok := files[dest]; ok {
			return nil, conflict(t.ID, dest, owner, f.ID)
		}
		if owner, ok := dirs[dest]; ok {
			return nil, conflict(t.ID, dest, owner, f.ID)
		}
		for dir := path.Dir(dest); dir != "."; dir = path.Dir(dir) {
			if owner, ok := files[dir]; ok {
				return nil, conflict(t.ID, dir, owner, f.ID)
			}
			if _, ok := dirs[dir]; !ok {
				dirs[dir] = f.ID
			}
		}
		files[dest] = f.ID

		src, err := t.ReadSource(f)
		if err != nil {
			return nil, &Error{Kind: KindRenderFailed, Template: t.ID, Fragment: f.ID, Err: err}
		}

		content, err := expand(t.ID+"/"+f.Source, string(src), vars)
		if err != nil {
			var se *Error
			if errors.As(err, &se) {
				se.Template, se.Fragment, se.Path = t.ID, f.ID, dest
			}
			return nil, err
		}

		mode := f.Mode
		if mode == 0 {
			mode = DefaultFileMode
		}

		plan.Entries = append(plan.Entries, Entry{
			Path:     dest,
			Content:  []byte(content),
			Mode:     mode,
			Fragment: f.ID,
		})
	}

	return plan, nil
}

// RenderString expands a single template string, such as a template's run command.
func RenderString(name, text string, vars Variables) (string, error) {
	return expand(name, text, vars)
}

func renderPath(f templates.Fragment, vars Variables) (string, error) {
	raw, err := expand(f.ID+":path", f.Path, vars)
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Fragment = f.ID
		}
		return "", err
	}

	dest, err := cleanPath(raw)
	if err != nil {
		return "", &Error{Kind: KindInvalidPath, Fragment: f.ID, Path: raw, Err: err}
	}
	return dest, nil
}

// cleanPath normalizes a rendered destination and rejects anything that is
// not a local path below the output root.
func cleanPath(raw string) (string, error) {
	switch {
	case strings.TrimSpace(raw) == "":
		return "", errors.New("empty destination path")
	case strings.Contains(raw, `\`):
		return "", errors.New("destination path must use forward slashes")
	case path.IsAbs(raw):
		return "", errors.New("destination path must be relative")
	}

	clean := path.Clean(raw)
	if clean == "." || !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", errors.New("destination path escapes the output root")
	}
	return clean, nil
}

// expand parses and executes text. Every variable the template references
// must be bound, so a missing one is reported before execution.
func expand(name, text string, vars Variables) (string, error) {
	tmpl, err := template.New(name).
		Funcs(funcMap).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", &Error{Kind: KindRenderFailed, Err: err}
	}

	for _, ref := range referencedVariables(tmpl) {
		if _, ok := vars[ref]; !ok {
			return "", &Error{Kind: KindMissingVariable, Variable: ref}
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(vars)); err != nil {
		return "", &Error{Kind: KindRenderFailed, Err: err}
	}
	return buf.String(), nil
}

// referencedVariables returns the sorted top-level field names used against
// the root data of tmpl and its associated templates.
func referencedVariables(tmpl *template.Template) []string {
	refs := make(map[string]bool)
	for _, t := range tmpl.Templates() {
		if t.Tree != nil {
			collectRefs(t.Tree.Root, true, refs)
		}
	}

	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// collectRefs records variable names read from the root data. atRoot is false
// inside range and with bodies, where dot is rebound and only $.name still
// refers to the root.
func collectRefs(node parse.Node, atRoot bool, refs map[string]bool) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			collectRefs(child, atRoot, refs)
		}
	case *parse.ActionNode:
		collectRefs(n.Pipe, atRoot, refs)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			collectRefs(cmd, atRoot, refs)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			collectRefs(arg, atRoot, refs)
		}
	case *parse.FieldNode:
		if atRoot {
			refs[n.Ident[0]] = true
		}
	case *parse.VariableNode:
		if len(n.Ident) > 1 && n.Ident[0] == "$" {
			refs[n.Ident[1]] = true
		}
	case *parse.ChainNode:
		if _, ok := n.Node.(*parse.DotNode); ok && len(n.Field) > 0 {
			if atRoot {
				refs[n.Field[0]] = true
			}
			return
		}
		collectRefs(n.Node, atRoot, refs)
	case *parse.IfNode:
		collectRefs(n.Pipe, atRoot, refs)
		collectRefs(n.List, atRoot, refs)
		collectRefs(n.ElseList, atRoot, refs)
	case *parse.RangeNode:
		collectRefs(n.Pipe, atRoot, refs)
		collectRefs(n.List, false, refs)
		collectRefs(n.ElseList, atRoot, refs)
	case *parse.WithNode:
		collectRefs(n.Pipe, atRoot, refs)
		collectRefs(n.List, false, refs)
		collectRefs(n.ElseList, atRoot, refs)
	case *parse.TemplateNode:
		collectRefs(n.Pipe, atRoot, refs)
	}
}

func withTemplate(err error, id string) error {
	var se *Error
	if errors.As(err, &se) && se.Template == "" {
		se.Template = id
	}
	return err
}

func conflict(templateID, dest, first, second string) error {
	return &Error{
		Kind:     KindPlanConflict,
		Template: templateID,
		Path:     dest,
		Fragment: first + ", " + second,
		Err:      fmt.Errorf("fragments %q and %q both write %s", first, second, dest),
	}
}

// toPascalCase converts kebab-case or snake_case to PascalCase.
// Example: "order-service" -> "OrderService"
func toPascalCase(s string) string {
	var result strings.Builder
	capitalizeNext := true

	for _, r := range s {
		if r == '-' || r == '_' || r == ' ' {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// replaceAll takes the subject last so it works at the end of a pipeline:
// {{ .python_version | replace "." "" }}
func replaceAll(old, replacement, s string) string {
	return strings.ReplaceAll(s, old, replacement)
}

func toSnakeCase(s string) string {
	return strings.ToLower(splitWords(s, '_'))
}

func toKebabCase(s string) string {
	return strings.ToLower(splitWords(s, '-'))
}

// splitWords joins the words of s with sep. Words are separated by '-', '_',
// spaces, or a lower-to-upper case transition.
func splitWords(s string, sep rune) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r == ' ':
			if b.Len() > 0 && prev != sep {
				b.WriteRune(sep)
				prev = sep
			}
			continue
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteRune(sep)
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimRight(b.String(), string(sep))
}
