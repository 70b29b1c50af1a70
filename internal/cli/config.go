package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/segue/pkg/adapters/gemini"
	"github.com/aretw0/segue/pkg/adapters/process"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file looked up when --config is not given.
const DefaultConfigPath = "segue.yaml"

// Settings backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the content of segue.yaml.
type Config struct {
	LogLevel  string          `yaml:"log_level" json:"log_level"`
	Settings  SettingsConfig  `yaml:"settings" json:"settings"`
	Chat      ChatConfig      `yaml:"chat" json:"chat"`
	Generator GeneratorConfig `yaml:"generator" json:"generator"`
	Image     process.Config  `yaml:"image" json:"image"`
	// ImageFile points to a separate image backend config (see process.LoadConfig).
	ImageFile string     `yaml:"image_file" json:"image_file"`
	HTTP      HTTPConfig `yaml:"http" json:"http"`
}

type SettingsConfig struct {
	Backend  string        `yaml:"backend" json:"backend"`
	Path     string        `yaml:"path" json:"path"`
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
	Redis    RedisConfig   `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Address  string `yaml:"address" json:"address"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

type ChatConfig struct {
	// Path of the JSON transcript. Empty keeps the chat in memory.
	Path      string `yaml:"path" json:"path"`
	Character string `yaml:"character" json:"character"`
	Avatar    string `yaml:"avatar" json:"avatar"`
	User      string `yaml:"user" json:"user"`
}

type GeneratorConfig struct {
	// Provider is "gemini" or "none".
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"api_key" json:"api_key"`
}

type HTTPConfig struct {
	Address string `yaml:"address" json:"address"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Settings: SettingsConfig{
			Backend: BackendFile,
			Path:    filepath.Join(".segue", "settings.json"),
		},
		Chat: ChatConfig{
			Path:      filepath.Join(".segue", "chat.json"),
			Character: "Assistant",
			User:      "User",
		},
		Generator: GeneratorConfig{
			Provider: "gemini",
			Model:    gemini.DefaultModel,
		},
		HTTP: HTTPConfig{
			Address: ":8080",
		},
	}
}

// LoadConfig reads path over DefaultConfig. A missing file is not an error
// unless required is set. JSON is accepted for .json files.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg.withEnv(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.ImageFile != "" {
		image, err := process.LoadConfig(resolvePath(path, cfg.ImageFile))
		if err != nil {
			return Config{}, err
		}
		cfg.Image = image
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg.withEnv(), nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Settings.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown settings backend %q (file, redis, memory)", c.Settings.Backend)
	}
	switch c.Generator.Provider {
	case "gemini", "none", "":
	default:
		return fmt.Errorf("unknown generator provider %q (gemini, none)", c.Generator.Provider)
	}
	if c.Settings.Backend == BackendRedis && c.Settings.Redis.Address == "" {
		return fmt.Errorf("settings.redis.address is required for the redis backend")
	}
	return nil
}

func (c Config) withEnv() Config {
	if key := os.Getenv(gemini.EnvAPIKey); key != "" {
		c.Generator.APIKey = key
	}
	return c
}

// resolvePath makes rel relative to the directory of the config file.
func resolvePath(configPath, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(filepath.Dir(configPath), rel)
}
