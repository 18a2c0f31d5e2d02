// Package config provides configuration loading and management.
package config

// DefaultsConfig holds the values used when create flags are omitted.
type DefaultsConfig struct {
	// Type is the default service type.
	// Env: KRAFT_DEFAULTS_TYPE, Default: "rest"
	Type string `mapstructure:"type" yaml:"type,omitempty"`

	// Port is the default HTTP port of generated services.
	// Env: KRAFT_DEFAULTS_PORT, Default: 8000
	Port int `mapstructure:"port" yaml:"port,omitempty"`

	// Python is the default Python version of generated services.
	// Env: KRAFT_DEFAULTS_PYTHON, Default: "3.11"
	Python string `mapstructure:"python" yaml:"python,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the kraft CLI configuration.
// Loaded from ~/.kraft/config.yaml with KRAFT_* environment overrides.
type Config struct {
	// Defaults contains fallback values for create.
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`

	// TemplatesDir is an optional directory of additional templates.
	// Templates found there shadow bundled templates with the same ID.
	// Env: KRAFT_TEMPLATES_DIR
	TemplatesDir string `mapstructure:"templatesDir" yaml:"templatesDir,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

// Built-in defaults.
const (
	DefaultType   = "rest"
	DefaultPort   = 8000
	DefaultPython = "3.11"
)

// DefaultConfig returns a Config with all default values populated.
// Used by `kraft config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Type:   DefaultType,
			Port:   DefaultPort,
			Python: DefaultPython,
		},
	}
}

// GlobalConfig is the resolved configuration shared by all commands.
// It is populated once in the root command's PersistentPreRunE.
type GlobalConfig struct {
	// Config is the loaded configuration (never nil after initialization).
	Config *Config

	// ConfigPath is the resolved config file path.
	ConfigPath string

	// TemplatesDir is the resolved extra templates directory, empty when unset.
	TemplatesDir string

	// Verbose enables debug logging.
	Verbose bool

	// Loader produced Config. Commands use it to tell file values from defaults.
	Loader *Loader
}

// InFile reports whether key was set by the loaded config file.
func (g *GlobalConfig) InFile(key string) bool {
	return g.Loader != nil && g.Loader.InConfig(key)
}
