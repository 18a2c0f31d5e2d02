package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kraftdev/kraft/internal/config"
	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
)

// NewListCmd creates the list command.
func NewListCmd(cfg *config.GlobalConfig) *cobra.Command {
	var formatFlag string

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available templates",
		Long: `List the service templates kraft can generate.

Bundled templates are always available. Templates found in the directory
given by --templates-dir (or templatesDir in the config file) are listed too
and replace bundled templates with the same name.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runList(cfg, formatFlag)
		},
	}

	c.Flags().StringVarP(&formatFlag, "output", "o", "table", "Output format: table, json, yaml")

	return c
}

func runList(cfg *config.GlobalConfig, formatFlag string) error {
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

	descriptors := catalog.List()

	if format != output.FormatTable {
		if err := output.WriteStructured(output.Stdout(), descriptors, format); err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
		}
		return nil
	}

	if len(descriptors) == 0 {
		output.Println("No templates available")
		return nil
	}

	tbl := output.NewTable("Name", "Description", "Version").Title("Available Templates")
	for _, d := range descriptors {
		tbl.Row(output.StyleNoun.Render(d.ID), d.Description, d.Version)
	}
	output.Println(tbl.String())

	return nil
}
