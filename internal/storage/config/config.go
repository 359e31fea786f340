package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hd2mm/internal/domain"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file inside the config directory
const FileName = "config.yaml"

// Config holds global application settings
type Config struct {
	GamePath      string            `yaml:"game_path,omitempty"`
	StoragePath   string            `yaml:"storage_path,omitempty"`
	TempPath      string            `yaml:"temp_path,omitempty"`
	LinkMethod    domain.LinkMethod `yaml:"-"`
	LinkMethodStr string            `yaml:"link_method,omitempty"`
	NexusAPIKey   string            `yaml:"nexus_api_key,omitempty"`
	ActiveProfile string            `yaml:"active_profile,omitempty"`
}

// Load reads configuration from the given directory. A missing file yields defaults.
func Load(configDir string) (*Config, error) {
	cfg := &Config{
		LinkMethod: domain.DefaultLinkMethod,
	}

	data, err := os.ReadFile(filepath.Join(configDir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	method, err := domain.ParseLinkMethod(cfg.LinkMethodStr)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.LinkMethod = method

	for _, p := range []*string{&cfg.GamePath, &cfg.StoragePath, &cfg.TempPath} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	return cfg, nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	c.LinkMethodStr = c.LinkMethod.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, FileName), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
