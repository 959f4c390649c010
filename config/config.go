package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the compiler's host configuration.
type Config struct {
	// Debug: when true, the host may emit supplementary dumps (tokens,
	// constants, variables, line-equivalence map).
	Debug bool `toml:"debug"`

	// CompileDespiteErrors: when true, the code generator runs even if
	// earlier stages reported errors; output is labeled "inoperante".
	CompileDespiteErrors bool `toml:"compile_despite_errors"`

	// Dump settings
	Dump struct {
		Format string `toml:"format"` // table, json
	} `toml:"dump"`

	// Output settings
	Output struct {
		Path string `toml:"path"` // "-" means stdout
	} `toml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Debug = false
	cfg.CompileDespiteErrors = false

	cfg.Dump.Format = "table"

	cfg.Output.Path = "-"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "simplec")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "simplec.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "simplec")

	default:
		return "simplec.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "simplec.toml"
	}

	return filepath.Join(configDir, "simplec.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
