// Package config loads the fhirquery configuration file, which names the
// FHIR servers to validate against and tunes the validator itself.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bascanada/fhirquery/pkg/ty"
)

// ErrServerNotFound is a sentinel error allowing callers to detect missing
// server entries via errors.Is.
var ErrServerNotFound = errors.New("server not found")

// Sentinel errors returned by LoadConfig so callers can detect exact
// failure modes using errors.Is().
var (
	ErrConfigParse    = errors.New("invalid config content")
	ErrConfigNotFound = errors.New("config file not found")
)

const (
	// EnvConfigPath is the environment variable used to override the config path
	EnvConfigPath = "FHIRQUERY_CONFIG"

	// DefaultConfigDir is the directory under the user's home where the config
	// file is expected when no explicit path or env var is provided.
	DefaultConfigDir = ".fhirquery"

	// DefaultConfigFile is the config filename to look for in the default dir.
	DefaultConfigFile = "config.yaml"
)

// Server is one named FHIR endpoint.
type Server struct {
	URL string `json:"url" yaml:"url"`
	// Version is a hint like r3 or r4, used for display only.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Headers are sent on every request to the server (tokens, api keys).
	Headers ty.MS `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Cookie is a session cookie string; when set it takes precedence
	// over Headers for authentication.
	Cookie string `json:"cookie,omitempty" yaml:"cookie,omitempty"`
}

// ValidatorConfig tunes the query validator.
type ValidatorConfig struct {
	CustomResourceTypes []string `json:"customResourceTypes,omitempty" yaml:"customResourceTypes,omitempty"`
	CustomModifiers     []string `json:"customModifiers,omitempty" yaml:"customModifiers,omitempty"`
	Strict              bool     `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	// Color overrides terminal detection when set.
	Color *bool `json:"color,omitempty" yaml:"color,omitempty"`
}

type Servers map[string]Server

type Config struct {
	Servers   `json:"servers" yaml:"servers"`
	Validator ValidatorConfig `json:"validator" yaml:"validator"`
	Output    OutputConfig    `json:"output" yaml:"output"`
}

// ResolvePath returns the effective config path: the explicit path if
// given, otherwise the env var, otherwise the default location if it
// exists.
func ResolvePath(configPath string) string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
		if _, err := os.Stat(defaultPath); err == nil {
			return defaultPath
		}
	}
	return ""
}

// LoadConfig reads the configuration from configPath, or from the env
// var / default location when configPath is empty. JSON and YAML are
// both supported, selected by extension with a sniffing fallback.
func LoadConfig(configPath string) (*Config, error) {
	configPath = ResolvePath(configPath)

	if strings.TrimSpace(configPath) == "" {
		return nil, ErrConfigNotFound
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON %s: %v", ErrConfigParse, configPath, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML %s: %v", ErrConfigParse, configPath, err)
		}
	default:
		// Try JSON then YAML as a fallback
		if err := json.Unmarshal(data, &cfg); err == nil {
			break
		}
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			break
		}
		return nil, fmt.Errorf("%w: unsupported or invalid config format for file: %s", ErrConfigParse, configPath)
	}

	if cfg.Servers == nil {
		cfg.Servers = Servers{}
	}

	if err := validateServers(&cfg); err != nil {
		return nil, err
	}

	// Header values may reference env vars like ${FHIR_TOKEN} so secrets
	// stay out of the config file.
	for name, s := range cfg.Servers {
		if len(s.Headers) > 0 {
			s.Headers = s.Headers.ResolveVariables()
			cfg.Servers[name] = s
		}
	}

	return &cfg, nil
}

// validateServers performs lightweight validation of configured servers
// and returns a combined error describing any missing required fields.
// This is intended to help users detect common config typos.
func validateServers(cfg *Config) error {
	problems := []string{}

	for name, s := range cfg.Servers {
		if strings.TrimSpace(s.URL) == "" {
			problems = append(problems, fmt.Sprintf("server '%s' missing required field 'url'", name))
		}
		switch strings.ToLower(s.Version) {
		case "", "r3", "r4":
		default:
			problems = append(problems, fmt.Sprintf("server '%s' has unsupported version '%s' (expected r3 or r4)", name, s.Version))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid server configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// GetServer resolves a named server entry.
func (c Config) GetServer(name string) (Server, error) {
	if name == "" {
		return Server{}, errors.New("server name is empty, required when using config")
	}
	s, ok := c.Servers[name]
	if !ok {
		return Server{}, fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	return s, nil
}

// Save writes the configuration as YAML to path, creating the parent
// directory when needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// DefaultPath returns the default config location under the user home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}
