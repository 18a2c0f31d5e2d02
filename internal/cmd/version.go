package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kraftdev/kraft/internal/config"
	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
	"github.com/kraftdev/kraft/internal/version"
)

type versionReport struct {
	version.Info
	Tools []version.ToolInfo `json:"tools"`
}

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *config.GlobalConfig) *cobra.Command {
	var formatFlag string

	c := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show kraft version information.

Displays:
  - kraft version, commit, and build date
  - the uv and Python versions found in PATH, used to run generated projects`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVersion(c, formatFlag)
		},
	}

	c.Flags().StringVarP(&formatFlag, "output", "o", "table", "Output format: table, json, yaml")

	return c
}

func runVersion(c *cobra.Command, formatFlag string) error {
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err:  oerrors.NewValidationError(err.Error(), "", "--output", ""),
		}
	}

	report := versionReport{
		Info:  version.Get(),
		Tools: []version.ToolInfo{version.DetectUV(c.Context()), version.DetectPython(c.Context())},
	}

	if format != output.FormatTable {
		if err := output.WriteStructured(output.Stdout(), report, format); err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
		}
		return nil
	}

	output.Println(report.Info.String())
	output.Println("")
	output.Println("Tools:")
	for _, tool := range report.Tools {
		output.Println(fmt.Sprintf("  %s", tool))
	}

	return nil
}
