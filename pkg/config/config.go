package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName     = "orgtodo"
	yamlConfigFile = "config.yaml"
	tomlConfigFile = "config.toml"
	envPrefix      = "ORGTODO_"

	DefaultSource = "~/Orgzly"
	DefaultOutput = "todo.md"
	DefaultSuffix = ".org"
)

type Config struct {
	Source   string `yaml:"source" toml:"source"`
	PostDays int    `yaml:"postdays" toml:"postdays"`
	Output   string `yaml:"output" toml:"output"`
	Suffix   string `yaml:"suffix,omitempty" toml:"suffix"`
	Tag      string `yaml:"tag,omitempty" toml:"tag"`
	Calendar string `yaml:"calendar,omitempty" toml:"calendar"`
	LogLevel string `yaml:"log_level,omitempty" toml:"log_level"`

	// Taskwarrior imports retained entries with `task import` after each run.
	Taskwarrior bool `yaml:"taskwarrior,omitempty" toml:"taskwarrior"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Source:   DefaultSource,
		Output:   DefaultOutput,
		Suffix:   DefaultSuffix,
		LogLevel: "info",
	}
}

// GetConfigDir returns ~/.config/orgtodo.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, yamlConfigFile), nil
}

// Load reads the user config and the environment (including ./.env) on top of the defaults.
func Load() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadDir(dir, ".env")
}

// LoadDir layers, in increasing priority: defaults, config.toml or config.yaml
// in dir, the dotenv file, and ORGTODO_* environment variables.
func LoadDir(dir, dotenv string) (*Config, error) {
	cfg := Default()

	if err := loadConfigFile(cfg, dir); err != nil {
		return nil, err
	}

	fileEnv := map[string]string{}
	if dotenv != "" {
		vars, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", dotenv, err)
		}
		if vars != nil {
			fileEnv = vars
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadConfigFile(cfg *Config, dir string) error {
	yamlPath := filepath.Join(dir, yamlConfigFile)
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML from %s: %w", yamlPath, err)
		}
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read file %s: %w", yamlPath, err)
	}

	tomlPath := filepath.Join(dir, tomlConfigFile)
	if _, err := os.Stat(tomlPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML from %s: %w", tomlPath, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "SOURCE"); ok && v != "" {
		cfg.Source = v
	}
	if v, ok := lookup(envPrefix + "POSTDAYS"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %sPOSTDAYS %q: %w", envPrefix, v, err)
		}
		cfg.PostDays = n
	}
	if v, ok := lookup(envPrefix + "OUTPUT"); ok && v != "" {
		cfg.Output = v
	}
	if v, ok := lookup(envPrefix + "SUFFIX"); ok && v != "" {
		cfg.Suffix = v
	}
	if v, ok := lookup(envPrefix + "TAG"); ok {
		cfg.Tag = v
	}
	if v, ok := lookup(envPrefix + "CALENDAR"); ok {
		cfg.Calendar = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "TASKWARRIOR"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sTASKWARRIOR %q: %w", envPrefix, v, err)
		}
		cfg.Taskwarrior = b
	}
	return nil
}

// Finalize expands ~ in paths and fills in an empty suffix.
func (c *Config) Finalize() error {
	var err error
	if c.Source, err = ExpandHome(c.Source); err != nil {
		return err
	}
	if c.Output, err = ExpandHome(c.Output); err != nil {
		return err
	}
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Save writes cfg to the user config file.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
