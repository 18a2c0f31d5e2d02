package scaffold

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kraftdev/kraft/internal/templates"
)

// Compose selects the fragments of t to render.
//
// The result is base fragments in manifest order, then each toggle group whose
// variable is true (toggles in sorted name order), then each selected add-on
// group (add-ons in sorted ID order). A fragment listed by several groups
// appears once, at its first position. Identical inputs yield identical output.
func Compose(t *templates.Template, vars Variables, addons []string) ([]templates.Fragment, error) {
	selected, err := selectAddons(t, addons)
	if err != nil {
		return nil, err
	}

	var ids []string
	seen := make(map[string]bool)
	include := func(group []string) {
		for _, id := range group {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	include(t.Base)

	for _, name := range t.ToggleNames() {
		raw, ok := vars[name]
		if !ok {
			return nil, &Error{Kind: KindMissingVariable, Template: t.ID, Variable: name}
		}
		on, ok := raw.(bool)
		if !ok {
			return nil, &Error{
				Kind:     KindInvalidVariable,
				Template: t.ID,
				Variable: name,
				Err:      fmt.Errorf("toggle must be a bool, got %T", raw),
			}
		}
		if on {
			include(t.Toggles[name])
		}
	}

	for _, id := range selected {
		include(t.Addons[id].Fragments)
	}

	fragments := make([]templates.Fragment, 0, len(ids))
	for _, id := range ids {
		f, ok := t.Fragment(id)
		if !ok {
			// Load validates references, so this only happens for hand-built templates.
			return nil, &Error{
				Kind:     KindRenderFailed,
				Template: t.ID,
				Fragment: id,
				Err:      fmt.Errorf("fragment %q is not declared", id),
			}
		}
		fragments = append(fragments, f)
	}

	return fragments, nil
}

// selectAddons deduplicates and sorts the requested add-ons, rejecting any
// the template does not offer. Every unknown ID is reported.
func selectAddons(t *templates.Template, addons []string) ([]string, error) {
	selected := slices.Clone(addons)
	slices.Sort(selected)
	selected = slices.Compact(selected)

	var unknown []string
	for _, id := range selected {
		if _, ok := t.Addons[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	if len(unknown) > 0 {
		return nil, &Error{
			Kind:     KindUnknownAddon,
			Template: t.ID,
			Addon:    strings.Join(unknown, ", "),
		}
	}

	return selected, nil
}
