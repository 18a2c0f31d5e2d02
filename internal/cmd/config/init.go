package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kraftdev/kraft/internal/config"
	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
)

// AnnotationConfigOptional marks commands that must run even when the
// existing config file cannot be loaded.
const AnnotationConfigOptional = "kraft.dev/config-optional"

const configHeader = `# kraft CLI configuration
#
# Values here are used when the matching create flag is omitted.
# Environment variables (KRAFT_DEFAULTS_PORT, KRAFT_TEMPLATES_DIR, ...) override them.

`

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *config.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a new kraft configuration file",
		Long: `Create a new kraft configuration file with default values.

The configuration file is created at ~/.kraft/config.yaml by default.
Use the --config flag or KRAFT_CONFIG to choose a different location.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AnnotationConfigOptional: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(cfg, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return c
}

func runInit(cfg *config.GlobalConfig, force bool) error {
	configFile := cfg.ConfigPath
	if configFile == "" {
		var err error
		configFile, err = config.GetConfigFile()
		if err != nil {
			return fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := config.ExpandPath(configFile)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := config.FileExists(expandedPath)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}

	if exists && !force {
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err: oerrors.NewValidationError(
				"config file already exists",
				expandedPath,
				"",
				"Use --force to overwrite it.",
			),
		}
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o700); err != nil {
		return writeError(expandedPath, fmt.Errorf("creating config directory: %w", err))
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(configHeader), data...)

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return writeError(expandedPath, fmt.Errorf("writing config file: %w", err))
	}

	output.Println(output.FormatCheckmark("Config file created: " + output.StyleNoun.Render(expandedPath)))
	return nil
}

func writeError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &oerrors.ExitError{
			Code: oerrors.ExitPermissionDenied,
			Err:  oerrors.NewPermissionError(err.Error(), path, "Choose a writable location with --config."),
		}
	}
	return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
}
