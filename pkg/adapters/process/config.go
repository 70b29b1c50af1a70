package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes the external command that regenerates the background.
type Config struct {
	Source       string            `yaml:"source" json:"source"`
	Command      string            `yaml:"command" json:"command"`
	Args         []string          `yaml:"args" json:"args"`
	Environment  map[string]string `yaml:"env" json:"env"`
	Dir          string            `yaml:"dir" json:"dir"`
	ProbeCommand string            `yaml:"probe_command" json:"probe_command"`
	ProbeArgs    []string          `yaml:"probe_args" json:"probe_args"`
	ProbeTTL     time.Duration     `yaml:"probe_ttl" json:"probe_ttl"`
	MinInterval  time.Duration     `yaml:"min_interval" json:"min_interval"`
}

// ConfigFile represents the structure of image.yaml
type ConfigFile struct {
	Image Config `yaml:"image" json:"image"`
}

// LoadConfig reads a configuration file (YAML or JSON).
// A missing file yields an empty Config, which is never available.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read image config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse image config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse image config: %w", err)
		}
	}
	return cfg.Image, nil
}
