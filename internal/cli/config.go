package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFilename is the project-local config file looked up first.
const configFilename = ".paperfig.toml"

// Config holds CLI defaults loaded from an optional TOML file.
// Explicitly set flags always win over config values.
type Config struct {
	// OutDir is the default output directory for artifacts.
	OutDir string `toml:"outdir"`

	// Output is the default deliverable filename.
	Output string `toml:"output"`

	// PluginDir overrides the renderer plugin namespace directory.
	PluginDir string `toml:"plugin_dir"`
}

// loadConfig reads the first config file found: ./.paperfig.toml, then
// ~/.config/paperfig/config.toml. A missing file yields a zero Config.
func loadConfig() (Config, error) {
	var cfg Config
	path := findConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// findConfig returns the path of the first existing config file, or "".
func findConfig() string {
	if _, err := os.Stat(configFilename); err == nil {
		return configFilename
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "paperfig", "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
