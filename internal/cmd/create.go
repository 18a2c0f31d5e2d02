package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kraftdev/kraft/internal/config"
	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
	"github.com/kraftdev/kraft/internal/scaffold"
	"github.com/kraftdev/kraft/internal/templates"
	"github.com/kraftdev/kraft/internal/version"
)

type createOptions struct {
	serviceType string
	port        int
	python      string
	addons      []string
	noDocker    bool
	noTests     bool
	output      string
	dryRun      bool
	vars        map[string]string
}

// NewCreateCmd creates the create command.
func NewCreateCmd(cfg *config.GlobalConfig) *cobra.Command {
	opts := &createOptions{}

	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new service from a template",
		Long: `Create a new Python service project from a template.

The service name must be lowercase kebab-case (e.g. order-service). It is
also used to derive the Python package name (order_service).

Examples:
  # Create a REST service in ./orders
  kraft create orders

  # Create a worker with a Postgres add-on on a custom port
  kraft create billing --type worker --with postgres

  # Add several add-ons and skip Docker files
  kraft create api -w postgres -w redis --no-docker

  # Preview the files without writing anything
  kraft create api --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCreate(c, args[0], opts, cfg)
		},
	}

	c.Flags().StringVarP(&opts.serviceType, "type", "t", config.DefaultType, "Service type (env: KRAFT_DEFAULTS_TYPE)")
	c.Flags().IntVarP(&opts.port, "port", "p", config.DefaultPort, "Service port (env: KRAFT_DEFAULTS_PORT)")
	c.Flags().StringVar(&opts.python, "python", config.DefaultPython, "Python version (env: KRAFT_DEFAULTS_PYTHON)")
	c.Flags().StringSliceVarP(&opts.addons, "with", "w", nil, "Add-ons to include (repeatable or comma-separated)")
	c.Flags().BoolVar(&opts.noDocker, "no-docker", false, "Skip Dockerfile and docker-compose.yml")
	c.Flags().BoolVar(&opts.noTests, "no-tests", false, "Skip the test suite")
	c.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (defaults to ./<name>)")
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show the files that would be created without writing them")
	c.Flags().StringToStringVar(&opts.vars, "var", nil, "Extra template variable as key=value (repeatable)")

	return c
}

func runCreate(c *cobra.Command, name string, opts *createOptions, cfg *config.GlobalConfig) error {
	if v := templates.ValidateServiceName(name); !v.Valid {
		hint := ""
		if v.Suggestion != "" {
			hint = fmt.Sprintf("Try: kraft create %s", v.Suggestion)
		}
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err:  oerrors.NewValidationError(v.Error, "", "name", hint),
		}
	}

	settings, err := resolveCreateSettings(c, opts, cfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	vars, err := scaffold.NewVariables(scaffold.Options{
		Name:          name,
		Port:          settings.port,
		PythonVersion: settings.python,
		NoDocker:      opts.noDocker,
		NoTests:       opts.noTests,
		Extra:         opts.vars,
	})
	if err != nil {
		return exitErrorFor(err, catalog)
	}

	target := opts.output
	if target == "" {
		target = name
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("resolving output directory: %w", err)}
	}

	var phase scaffold.Phase
	gen := scaffold.NewGenerator(catalog, scaffold.WithObserver(func(p scaffold.Phase) {
		phase = p
	}))

	req := scaffold.Request{
		ServiceType: settings.serviceType,
		Variables:   vars,
		Addons:      opts.addons,
		Target:      target,
		DryRun:      opts.dryRun,
	}

	var res *scaffold.Result
	err = output.RunWithSpinner(c.Context(), func(ctx context.Context) error {
		var genErr error
		res, genErr = gen.Generate(ctx, req)
		return genErr
	}, output.WithTitle(fmt.Sprintf("Generating %s service %s...", settings.serviceType, name)))
	if err != nil {
		output.Debug("generation failed", "phase", phase, "error", err)
		return exitErrorFor(err, catalog)
	}

	tmpl, _ := catalog.Get(res.Template.ID)
	printCreateResult(name, res)
	printNextSteps(c.Context(), tmpl, res, vars, opts)

	return nil
}

type createSettings struct {
	serviceType string
	port        int
	python      string
}

// resolveCreateSettings applies flag > env > config > default to the
// settings that have a configurable default.
func resolveCreateSettings(c *cobra.Command, opts *createOptions, cfg *config.GlobalConfig) (createSettings, error) {
	defaults := config.DefaultConfig().Defaults
	if cfg.Config != nil {
		defaults = cfg.Config.Defaults
	}

	serviceType, typeRV, err := config.Resolve(config.ResolveOptions[string]{
		Key:       "defaults.type",
		Flag:      opts.serviceType,
		FlagSet:   c.Flags().Changed("type"),
		EnvVar:    envType,
		Config:    defaults.Type,
		ConfigSet: cfg.InFile("defaults.type"),
		Default:   config.DefaultType,
		Parse:     config.ParseString,
	})
	if err != nil {
		return createSettings{}, invalidSettingError("type", err)
	}

	port, portRV, err := config.Resolve(config.ResolveOptions[int]{
		Key:       "defaults.port",
		Flag:      opts.port,
		FlagSet:   c.Flags().Changed("port"),
		EnvVar:    envPort,
		Config:    defaults.Port,
		ConfigSet: cfg.InFile("defaults.port"),
		Default:   config.DefaultPort,
		Parse:     config.ParseInt,
	})
	if err != nil {
		return createSettings{}, invalidSettingError("port", err)
	}

	python, pythonRV, err := config.Resolve(config.ResolveOptions[string]{
		Key:       "defaults.python",
		Flag:      opts.python,
		FlagSet:   c.Flags().Changed("python"),
		EnvVar:    envPython,
		Config:    defaults.Python,
		ConfigSet: cfg.InFile("defaults.python"),
		Default:   config.DefaultPython,
		Parse:     config.ParseString,
	})
	if err != nil {
		return createSettings{}, invalidSettingError("python", err)
	}

	config.LogResolvedValues([]config.ResolvedValue{typeRV, portRV, pythonRV})

	return createSettings{serviceType: serviceType, port: port, python: python}, nil
}

func invalidSettingError(field string, err error) error {
	return &oerrors.ExitError{
		Code: oerrors.ExitValidationError,
		Err:  oerrors.NewValidationError(err.Error(), "", field, "Unset the environment variable or fix its value."),
	}
}

func printCreateResult(name string, res *scaffold.Result) {
	if res.DryRun {
		output.Println(output.FormatCheckmark(fmt.Sprintf("Dry run: %d files would be created in %s",
			len(res.Files), output.StyleNoun.Render(res.Target))))
		output.Println("")
		for _, f := range res.Files {
			output.Println(output.FormatFileLine(f, output.StatusPlanned))
		}
		return
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("Created %s service %s in %s",
		res.Template.ID, output.StyleNoun.Render(name), output.StyleNoun.Render(res.Target))))
	output.Println("")

	descriptions := make(map[string]string, len(res.Files))
	for _, f := range res.Files {
		descriptions[f] = fileDescription(f)
	}
	output.Print(output.RenderFileTree(filepath.Base(res.Target)+"/", descriptions))
}

func printNextSteps(ctx context.Context, tmpl *templates.Template, res *scaffold.Result, vars scaffold.Variables, opts *createOptions) {
	if res.DryRun {
		return
	}

	dir := res.Target
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, res.Target); err == nil && !strings.HasPrefix(rel, "..") {
			dir = rel
		}
	}

	sync := "uv sync --extra dev"
	for _, addon := range dedupe(opts.addons) {
		sync += " --extra " + addon
	}

	steps := []string{"cd " + dir, sync}
	if tmpl != nil && tmpl.Run != "" {
		run, err := scaffold.RenderString("run", tmpl.Run, vars)
		if err != nil {
			output.Warn("could not render run command", "template", tmpl.ID, "error", err)
		} else {
			steps = append(steps, run)
		}
	}

	output.Println("")
	output.Println(output.StyleBold.Render("Next steps:"))
	for _, s := range steps {
		output.Println("  " + output.StyleCommand.Render(s))
	}

	if includeDocker, _ := vars[scaffold.VarIncludeDocker].(bool); includeDocker {
		output.Println("")
		output.Println(output.StyleDim.Render("Or with Docker:"))
		output.Println("  " + output.StyleCommand.Render("docker-compose up --build"))
	}

	checkToolchain(ctx, vars)
}

// checkToolchain warns when the local toolchain cannot run the generated project.
func checkToolchain(ctx context.Context, vars scaffold.Variables) {
	want, _ := vars[scaffold.VarPythonVersion].(string)
	for _, w := range toolchainWarnings(version.DetectUV(ctx), version.DetectPython(ctx), want) {
		output.Warn(w.msg, w.keyvals...)
	}
}

type toolchainWarning struct {
	msg     string
	keyvals []interface{}
}

func toolchainWarnings(uv, py version.ToolInfo, python string) []toolchainWarning {
	var warnings []toolchainWarning
	if !uv.Found {
		warnings = append(warnings, toolchainWarning{
			msg:     "uv not found in PATH; install it to run the next steps",
			keyvals: []interface{}{"hint", "https://docs.astral.sh/uv/"},
		})
	}
	if py.Found && py.Version != "" && !version.MajorMinorMatch(py.Version, python) {
		warnings = append(warnings, toolchainWarning{
			msg:     "local python differs from project python; uv will fetch " + python,
			keyvals: []interface{}{"local", py.Version, "project", python},
		})
	}
	return warnings
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// fileDescription returns a short description for a generated file.
func fileDescription(path string) string {
	descriptions := map[string]string{
		"pyproject.toml":     "Project metadata and dependencies",
		"README.md":          "Project documentation",
		".gitignore":         "Git ignore rules",
		".env.example":       "Example environment settings",
		".python-version":    "Pinned Python version",
		".dockerignore":      "Docker build context rules",
		"Dockerfile":         "Container image",
		"docker-compose.yml": "Local container stack",
	}
	if desc, ok := descriptions[path]; ok {
		return desc
	}

	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(path, "tests/"):
		return "Tests"
	case base == "main.py":
		return "Application entrypoint"
	case base == "config.py":
		return "Settings"
	case base == "db.py":
		return "Database session"
	case base == "cache.py":
		return "Redis client"
	case base == "auth.py":
		return "Authentication"
	case base == "tasks.py":
		return "Task definitions"
	case strings.HasPrefix(path, "bin/"):
		return "Executable script"
	}
	return ""
}
