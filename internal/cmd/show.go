package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kraftdev/kraft/internal/config"
	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
	"github.com/kraftdev/kraft/internal/scaffold"
	"github.com/kraftdev/kraft/internal/templates"
)

// exampleServiceName is used to render file paths in show output.
const exampleServiceName = "my-service"

type addonInfo struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
}

type showInfo struct {
	templates.Descriptor
	Variables []string            `json:"variables"`
	Toggles   map[string][]string `json:"toggles,omitempty"`
	Addons    []addonInfo         `json:"addons,omitempty"`
	Files     []string            `json:"files"`
}

// NewShowCmd creates the show command.
func NewShowCmd(cfg *config.GlobalConfig) *cobra.Command {
	var formatFlag string

	c := &cobra.Command{
		Use:   "show <type>",
		Short: "Show details of a template",
		Long: `Show the metadata, add-ons, toggles, and files of a template.

File paths are rendered for an example service named "my-service".

Examples:
  kraft show rest
  kraft show worker -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runShow(cfg, args[0], formatFlag)
		},
	}

	c.Flags().StringVarP(&formatFlag, "output", "o", "table", "Output format: table, json, yaml")

	return c
}

func runShow(cfg *config.GlobalConfig, id, formatFlag string) error {
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err:  oerrors.NewValidationError(err.Error(), "", "--output", ""),
		}
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	t, ok := catalog.Get(id)
	if !ok {
		return exitErrorFor(&scaffold.Error{Kind: scaffold.KindUnknownTemplate, Template: id}, catalog)
	}

	info, err := describe(t)
	if err != nil {
		return exitErrorFor(err, catalog)
	}

	if format != output.FormatTable {
		if err := output.WriteStructured(output.Stdout(), info, format); err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
		}
		return nil
	}

	printShow(info)
	return nil
}

// describe collects the presentation data of t, with fragment paths rendered
// for an example service where possible.
func describe(t *templates.Template) (*showInfo, error) {
	vars, err := scaffold.NewVariables(scaffold.Options{
		Name:          exampleServiceName,
		Port:          config.DefaultPort,
		PythonVersion: config.DefaultPython,
	})
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string, len(t.Fragments))
	for _, f := range t.Fragments {
		p, err := scaffold.RenderString(f.ID, f.Path, vars)
		if err != nil {
			// Custom templates may reference variables only known at create time.
			p = f.Path
		}
		paths[f.ID] = p
	}
	resolve := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, paths[id])
		}
		return out
	}

	info := &showInfo{
		Descriptor: t.Descriptor,
		Variables:  t.Variables,
		Files:      make([]string, 0, len(t.Fragments)),
	}
	for _, f := range t.Fragments {
		info.Files = append(info.Files, paths[f.ID])
	}
	if len(t.Toggles) > 0 {
		info.Toggles = make(map[string][]string, len(t.Toggles))
		for name, ids := range t.Toggles {
			info.Toggles[name] = resolve(ids)
		}
	}
	for _, id := range t.AddonIDs() {
		a := t.Addons[id]
		info.Addons = append(info.Addons, addonInfo{
			ID:          id,
			Description: a.Description,
			Files:       resolve(a.Fragments),
		})
	}

	return info, nil
}

func printShow(info *showInfo) {
	output.Println(fmt.Sprintf("%s %s", output.StyleBold.Render(info.Name), output.StyleDim.Render("("+info.ID+" "+info.Version+")")))
	output.Println(info.Description)
	output.Println("")

	if len(info.Addons) > 0 {
		tbl := output.NewTable("Add-on", "Description", "Files").Title("Add-ons")
		for _, a := range info.Addons {
			tbl.Row(output.StyleNoun.Render(a.ID), a.Description, strings.Join(a.Files, "\n"))
		}
		output.Println(tbl.String())
		output.Println("")
	}

	if len(info.Toggles) > 0 {
		tbl := output.NewTable("Toggle", "Files").Title("Toggles")
		for _, name := range slices.Sorted(maps.Keys(info.Toggles)) {
			tbl.Row(name, strings.Join(info.Toggles[name], "\n"))
		}
		output.Println(tbl.String())
		output.Println("")
	}

	output.Print(output.RenderSimpleTree(exampleServiceName+"/", info.Files))
}

