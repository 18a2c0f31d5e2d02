// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdconfig "github.com/kraftdev/kraft/internal/cmd/config"
	"github.com/kraftdev/kraft/internal/config"
	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
	"github.com/kraftdev/kraft/internal/templates"
)

// Environment variables consulted during flag resolution.
const (
	envTemplatesDir = "KRAFT_TEMPLATES_DIR"
	envType         = "KRAFT_DEFAULTS_TYPE"
	envPort         = "KRAFT_DEFAULTS_PORT"
	envPython       = "KRAFT_DEFAULTS_PYTHON"
)

// NewRootCmd creates the root command for the kraft CLI.
func NewRootCmd() *cobra.Command {
	var (
		configFlag       string
		templatesDirFlag string
		verboseFlag      bool
		timestampsFlag   bool
	)

	cfg := &config.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "kraft",
		Short: "Scaffold production-ready Python services",
		Long: `kraft generates ready-to-run Python service projects from bundled templates.

A generated project includes packaging, configuration, tests, and container
manifests. Optional add-ons (database, cache, auth) extend the base template.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, cfg, globalFlags{
				config:       configFlag,
				templatesDir: templatesDirFlag,
				verbose:      verboseFlag,
				timestamps:   timestampsFlag,
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: KRAFT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&templatesDirFlag, "templates-dir", "", "Directory of additional templates (env: KRAFT_TEMPLATES_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewCreateCmd(cfg),
		NewListCmd(cfg),
		NewShowCmd(cfg),
		NewVersionCmd(cfg),
		cmdconfig.NewConfigCmd(cfg),
	)

	return rootCmd
}

type globalFlags struct {
	config       string
	templatesDir string
	verbose      bool
	timestamps   bool
}

// initializeGlobals loads configuration, sets up logging, and fills cfg.
func initializeGlobals(c *cobra.Command, cfg *config.GlobalConfig, flags globalFlags) error {
	configPath, configRV, err := config.ResolveConfigPath(flags.config)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("resolving config path: %w", err)}
	}

	loader := config.NewLoader()
	loaded, err := loader.Load(configPath)
	if err != nil && c.Annotations[cmdconfig.AnnotationConfigOptional] == "true" {
		output.Debug("ignoring unreadable config", "path", configPath, "error", err)
		loader, loaded, err = config.NewLoader(), config.DefaultConfig(), nil
	}
	if err != nil {
		return &oerrors.ExitError{
			Code: oerrors.ExitGeneralError,
			Err: &oerrors.DetailError{
				Type:     "invalid configuration",
				Message:  err.Error(),
				Location: configPath,
				Hint:     "Fix the file or regenerate it with 'kraft config init --force'.",
				Cause:    err,
			},
		}
	}

	logCfg := output.LogConfig{Verbose: flags.verbose}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	templatesDir, templatesRV, err := config.Resolve(config.ResolveOptions[string]{
		Key:       "templatesDir",
		Flag:      flags.templatesDir,
		FlagSet:   flags.templatesDir != "",
		EnvVar:    envTemplatesDir,
		Config:    loaded.TemplatesDir,
		ConfigSet: loader.InConfig("templatesDir"),
		Parse:     config.ParseString,
	})
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err}
	}
	if templatesDir, err = config.ExpandPath(templatesDir); err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("expanding templates dir: %w", err)}
	}

	config.LogResolvedValues([]config.ResolvedValue{configRV, templatesRV})

	cfg.Config = loaded
	cfg.ConfigPath = configPath
	cfg.TemplatesDir = templatesDir
	cfg.Verbose = flags.verbose
	cfg.Loader = loader

	return nil
}

// loadCatalog returns the bundled catalog, overlaid with the templates
// directory when one is configured.
func loadCatalog(cfg *config.GlobalConfig) (*templates.Catalog, error) {
	catalog, err := templates.Embedded()
	if err != nil {
		return nil, &oerrors.ExitError{
			Code: oerrors.ExitTemplateError,
			Err:  oerrors.Wrap(oerrors.ErrTemplate, fmt.Sprintf("loading bundled templates: %v", err)),
		}
	}

	if cfg.TemplatesDir == "" {
		return catalog, nil
	}

	extra, err := templates.LoadDir(cfg.TemplatesDir)
	if err != nil {
		return nil, &oerrors.ExitError{
			Code: oerrors.ExitTemplateError,
			Err: &oerrors.DetailError{
				Type:     "template error",
				Message:  err.Error(),
				Location: cfg.TemplatesDir,
				Hint:     "Check the template.yaml manifests in the templates directory.",
				Cause:    oerrors.ErrTemplate,
			},
		}
	}
	output.Debug("loaded custom templates", "dir", cfg.TemplatesDir, "templates", extra.IDs())

	return catalog.Overlay(extra), nil
}
