// Package config handles supportmesh configuration loading.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/supportmesh/logging"
)

// Supported model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderScripted  = "scripted"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUPPORTMESH_"

// DefaultSearchPaths returns the config file search order.
// An explicit path (from --config flag) is checked first.
// Then: ./supportmesh.yaml, ~/.config/supportmesh/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"supportmesh.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "supportmesh", "config.yaml"))
	}

	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns "" without error when nothing was found; defaults apply then.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}

// Config holds all supportmesh configuration.
type Config struct {
	Provider       string           `yaml:"provider"` // openai, anthropic, scripted
	Model          string           `yaml:"model"` // empty selects the provider default
	Temperature    float64          `yaml:"temperature"`
	MaxTokens      int64            `yaml:"max_tokens"`
	Stream         bool             `yaml:"stream"`
	OpenAI         ProviderConfig   `yaml:"openai"`
	Anthropic      ProviderConfig   `yaml:"anthropic"`
	LogLevel       string           `yaml:"log_level"`
	LogFormat      string           `yaml:"log_format"` // text, json
	RecursionLimit int              `yaml:"recursion_limit"`
	DiagramPath    string           `yaml:"diagram_path"`
	Classifier     ClassifierConfig `yaml:"classifier"`
	// Instructions holds optional system prompts keyed by agent node
	// (standard_agent, vip_agent, billing_agent).
	Instructions map[string]string `yaml:"instructions"`
}

// ProviderConfig holds provider credentials and endpoint overrides.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// ClassifierConfig configures the keyword classifier.
type ClassifierConfig struct {
	VIPKeywords     []string `yaml:"vip_keywords"`
	BillingKeywords []string `yaml:"billing_keywords"`
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Model:          "",
		Temperature:    0,
		MaxTokens:      1024,
		LogLevel:       "info",
		LogFormat:      "text",
		RecursionLimit: 25,
		DiagramPath:    "support_graph.mmd",
		Classifier: ClassifierConfig{
			VIPKeywords:     []string{"vip", "premium"},
			BillingKeywords: []string{"refund", "billing"},
		},
	}
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} references with environment values. Bare $
// characters are left alone so prompts may contain prices.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// Load reads configuration from a YAML file on top of Default. ${VAR}
// references are expanded from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from .env files without overriding variables
// already present in the environment. Missing files are ignored. With no
// paths, ./.env is tried.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SUPPORTMESH_* variables and fills missing
// provider API keys from OPENAI_API_KEY / ANTHROPIC_API_KEY.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup("PROVIDER"); ok {
		c.Provider = v
	}
	if v, ok := lookup("MODEL"); ok {
		c.Model = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := lookup("DIAGRAM_PATH"); ok {
		c.DiagramPath = v
	}
	if v, ok := lookup("TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sTEMPERATURE: %w", EnvPrefix, err)
		}
		c.Temperature = f
	}
	if v, ok := lookup("RECURSION_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sRECURSION_LIMIT: %w", EnvPrefix, err)
		}
		c.RecursionLimit = n
	}

	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Anthropic.APIKey == "" {
		c.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Validate checks structural consistency. Credentials are checked separately
// by ValidateCredentials so offline commands work without keys.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderScripted:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature))
	}
	if c.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max_tokens must not be negative"))
	}
	if c.RecursionLimit < 0 {
		errs = append(errs, fmt.Errorf("recursion_limit must not be negative"))
	}

	if !hasKeyword(c.Classifier.VIPKeywords) {
		errs = append(errs, errors.New("classifier.vip_keywords must not be empty"))
	}
	if !hasKeyword(c.Classifier.BillingKeywords) {
		errs = append(errs, errors.New("classifier.billing_keywords must not be empty"))
	}

	for name := range c.Instructions {
		switch name {
		case "standard_agent", "vip_agent", "billing_agent":
		default:
			errs = append(errs, fmt.Errorf("instructions for unknown agent %q", name))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}

// ValidateCredentials reports a missing API key for the selected provider.
func (c *Config) ValidateCredentials() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("missing OpenAI API key (set OPENAI_API_KEY or openai.api_key)")
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return errors.New("missing Anthropic API key (set ANTHROPIC_API_KEY or anthropic.api_key)")
		}
	}
	return nil
}

// LoggerConfig derives the logging configuration. Logs go to stderr so
// command output on stdout stays clean.
func (c *Config) LoggerConfig() (*logging.LoggerConfig, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	lc := logging.DefaultLoggerConfig()
	lc.Level = level
	lc.Output = os.Stderr
	if c.LogFormat != "" {
		lc.Format = strings.ToLower(c.LogFormat)
	}
	return lc, nil
}
