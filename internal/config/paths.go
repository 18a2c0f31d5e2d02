package config

import (
	"os"
	"path/filepath"
)

// Environment variable naming the config file.
const configEnvVar = "KRAFT_CONFIG"

// Paths contains standard filesystem paths for kraft.
type Paths struct {
	// ConfigFile is the path to the config file (~/.kraft/config.yaml).
	ConfigFile string

	// HomeDir is the kraft home directory (~/.kraft).
	HomeDir string
}

// DefaultPaths returns the default paths for kraft.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	kraftHome := filepath.Join(homeDir, ".kraft")

	return &Paths{
		ConfigFile: filepath.Join(kraftHome, "config.yaml"),
		HomeDir:    kraftHome,
	}, nil
}

// GetConfigFile returns the config file path.
// If KRAFT_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv(configEnvVar); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported
	return path, nil
}

// FileExists reports whether the config file at path exists.
func FileExists(path string) (bool, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
