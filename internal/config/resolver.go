package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/kraftdev/kraft/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records a resolved value, its source, and what it shadowed.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}

// ResolveOptions describes the candidate values for one setting.
type ResolveOptions[T any] struct {
	// Key is the config key, used for logging.
	Key string

	// Flag is the flag value; only used when FlagSet is true.
	Flag    T
	FlagSet bool

	// EnvVar is the environment variable consulted when the flag is unset.
	EnvVar string

	// Config is the config file value; only used when ConfigSet is true.
	Config    T
	ConfigSet bool

	// Default is the built-in fallback.
	Default T

	// Parse converts the environment variable text into T.
	Parse func(string) (T, error)
}

// Resolve picks a value using precedence flag > env > config > default.
// Lower-precedence candidates that were present are recorded as shadowed.
func Resolve[T any](opts ResolveOptions[T]) (T, ResolvedValue, error) {
	rv := ResolvedValue{
		Key:      opts.Key,
		Shadowed: make(map[ConfigSource]any),
	}

	var (
		envValue T
		envSet   bool
	)
	if opts.EnvVar != "" {
		if raw, ok := os.LookupEnv(opts.EnvVar); ok && raw != "" {
			v, err := opts.Parse(raw)
			if err != nil {
				var zero T
				return zero, rv, fmt.Errorf("invalid %s=%q: %w", opts.EnvVar, raw, err)
			}
			envValue, envSet = v, true
		}
	}

	var result T
	switch {
	case opts.FlagSet:
		result, rv.Source = opts.Flag, SourceFlag
		if envSet {
			rv.Shadowed[SourceEnv] = envValue
		}
		if opts.ConfigSet {
			rv.Shadowed[SourceConfig] = opts.Config
		}
	case envSet:
		result, rv.Source = envValue, SourceEnv
		if opts.ConfigSet {
			rv.Shadowed[SourceConfig] = opts.Config
		}
	case opts.ConfigSet:
		result, rv.Source = opts.Config, SourceConfig
	default:
		result, rv.Source = opts.Default, SourceDefault
	}

	rv.Value = result
	return result, rv, nil
}

// ParseString is the Parse function for string settings.
func ParseString(s string) (string, error) {
	return s, nil
}

// ParseInt is the Parse function for integer settings.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) KRAFT_CONFIG env, (3) ~/.kraft/config.yaml default
func ResolveConfigPath(flagValue string) (string, ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return "", ResolvedValue{Key: "config"}, err
	}

	return Resolve(ResolveOptions[string]{
		Key:     "config",
		Flag:    flagValue,
		FlagSet: flagValue != "",
		EnvVar:  configEnvVar,
		Default: paths.ConfigFile,
		Parse:   ParseString,
	})
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)

		sources := make([]string, 0, len(v.Shadowed))
		for source := range v.Shadowed {
			sources = append(sources, string(source))
		}
		sort.Strings(sources)

		for _, source := range sources {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", v.Shadowed[ConfigSource(source)],
			)
		}
	}
}
