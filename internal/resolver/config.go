package resolver

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errMissingType = errors.New("repo.type is not set")

// Config is the configuration document stored for a repository:
//
//	repo:
//	  type: maven
//	  settings:
//	    ...
type Config struct {
	Repo RepoConfig `yaml:"repo"`
}

// RepoConfig describes how a repository is served. Settings is left
// undecoded so that each handler type can decode it into its own structure.
type RepoConfig struct {
	Type     string    `yaml:"type"`
	Settings yaml.Node `yaml:"settings"`
}

// DecodeSettings decodes the type specific settings into v
func (c RepoConfig) DecodeSettings(v interface{}) error {
	if c.Settings.IsZero() {
		return nil
	}

	return c.Settings.Decode(v)
}

// ParseConfig parses a repository configuration document
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing repository config: %w", err)
	}

	if config.Repo.Type == "" {
		return nil, errMissingType
	}

	return &config, nil
}
