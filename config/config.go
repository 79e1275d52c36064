// Package config provides configuration management for the nanograph
// library: logging preferences, the cache directory bootstrap, the shared
// LLM client settings and response formatting options. Files are YAML,
// decoded on top of defaults with environment variable expansion, then
// validated before use.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/nanograph-ai/nanograph/errors"
)

// Config is the complete library configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Cache      CacheConfig      `yaml:"cache"`
	Client     ClientConfig     `yaml:"client"`
	Formatting FormattingConfig `yaml:"formatting"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// Format specifies log output format: json or text
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`

	// File additionally writes logs to the log file in the cache directory
	File bool `yaml:"file"`
}

// CacheConfig locates the nanograph cache directory and its log file.
type CacheConfig struct {
	// Dir is the cache directory. Empty means ~/.cache/nanograph.
	Dir string `yaml:"dir"`

	// LogFile is the log file name inside Dir (default: nanograph.log)
	LogFile string `yaml:"log_file"`
}

// ClientConfig configures the shared LLM client handle.
type ClientConfig struct {
	// Provider specifies the LLM provider (e.g., "openai", "anthropic", "ollama")
	Provider string `yaml:"provider" validate:"required"`

	// Model is the name of the model to use (e.g., "gpt-4o", "claude-3-haiku")
	Model string `yaml:"model" validate:"required"`

	// APIKey is the authentication key for the provider's API.
	// Use environment references (e.g., ${OPENAI_API_KEY}) in config files.
	APIKey string `yaml:"api_key"`

	// Endpoint overrides the provider API endpoint (e.g., a local Ollama URL)
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`

	// Mode selects the structured output mode for the instructor-style client
	Mode string `yaml:"mode" validate:"omitempty,oneof=tool_call json json_schema md_json"`

	// SystemPrompt is the default system prompt swapped into flat threads
	SystemPrompt string `yaml:"system_prompt"`

	// Options contains generation parameters (temperature, max_tokens, ...)
	// applied to the client at initialization
	Options map[string]interface{} `yaml:"options"`
}

// FormattingConfig controls post-processing of completion responses.
type FormattingConfig struct {
	// CleanJSON strips markdown fences around JSON responses
	CleanJSON bool `yaml:"clean_json"`

	// TrimWhitespace trims leading/trailing whitespace from responses
	TrimWhitespace bool `yaml:"trim_whitespace"`

	// MaxLength truncates responses longer than this many bytes, cutting
	// on a rune boundary (0 = off)
	MaxLength int `yaml:"max_length" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when a file provides no
// overrides: a local Ollama model, JSON logging at info, and whitespace
// trimming.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			LogFile: "nanograph.log",
		},
		Client: ClientConfig{
			Provider: "ollama",
			Model:    "llama2",
			Mode:     "tool_call",
			Options: map[string]interface{}{
				"temperature": 0.7,
			},
		},
		Formatting: FormattingConfig{
			TrimWhitespace: true,
		},
	}
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return errors.NewConfigError("invalid configuration", err)
	}
	return nil
}

// LoadFile loads configuration from a YAML file.
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewConfigError("open config file", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads configuration from an io.Reader. Environment references in
// the YAML are expanded before decoding, the result is layered on top of
// DefaultConfig, and the merged configuration is validated.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewConfigError("read config", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.NewConfigError("decode config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandEnvVars resolves ${VAR} and ${VAR:-default} references. Expansion
// repeats until the result is stable so nested references resolve too.
func expandEnvVars(s string) string {
	result := os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			if val := os.Getenv(key[:i]); val != "" {
				return val
			}
			return key[i+2:]
		}
		return os.Getenv(key)
	})

	prev := ""
	for prev != result {
		prev = result
		result = os.Expand(result, os.Getenv)
	}
	return result
}

// String renders the config for debug logging with the API key redacted.
func (c *Config) String() string {
	key := c.Client.APIKey
	if key != "" {
		key = "***"
	}
	return fmt.Sprintf("config{provider=%s model=%s mode=%s log=%s/%s api_key=%s}",
		c.Client.Provider, c.Client.Model, c.Client.Mode,
		c.Logging.Level, c.Logging.Format, key)
}
