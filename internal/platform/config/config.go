package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint = "http://localhost:8001"

	EnvEndpoint = "GRAPHSEARCH_ENDPOINT"
	EnvTimeout  = "GRAPHSEARCH_TIMEOUT"
	EnvLogFile  = "GRAPHSEARCH_LOG_FILE"
	EnvLogLevel = "GRAPHSEARCH_LOG_LEVEL"
	EnvMarkdown = "GRAPHSEARCH_RENDER_MARKDOWN"
)

type Config struct {
	Endpoint       string        `yaml:"endpoint"`
	Timeout        time.Duration `yaml:"timeout"`
	LogFile        string        `yaml:"log_file"`
	LogLevel       string        `yaml:"log_level"`
	RenderMarkdown bool          `yaml:"render_markdown"`
}

// Overrides carries values set explicitly on the command line. Empty strings
// and nil pointers mean "not set".
type Overrides struct {
	Endpoint string
	Timeout  *time.Duration
	LogFile  string
	LogLevel string
	Markdown *bool
}

// Options controls where Load looks for its layers.
type Options struct {
	HomeDir    string
	ConfigPath string
	EnvFile    string
	Getenv     func(string) string
}

func Default(homeDir string) Config {
	return Config{
		Endpoint: DefaultEndpoint,
		LogFile:  filepath.Join(homeDir, ".graphsearch", "graphsearch.log"),
		LogLevel: "info",
	}
}

// DefaultPath is the config file read when no --config flag is given.
func DefaultPath(homeDir string) string {
	return filepath.Join(homeDir, ".graphsearch", "config.yaml")
}

// Load resolves configuration from defaults, the YAML file, the .env file and
// process environment, then the command-line overrides, in that order.
func Load(opts Options, over Overrides) (Config, error) {
	if opts.HomeDir == "" {
		return Config{}, fmt.Errorf("home directory is required")
	}
	cfg := Default(opts.HomeDir)

	path := opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = DefaultPath(opts.HomeDir)
	}
	if err := mergeFile(&cfg, path, explicit); err != nil {
		return Config{}, err
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if opts.EnvFile != "" {
		envFile, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read env file: %w", err)
		}
		base := getenv
		getenv = func(key string) string {
			if v := base(key); v != "" {
				return v
			}
			return envFile[key]
		}
	}
	if err := mergeEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if over.Endpoint != "" {
		cfg.Endpoint = over.Endpoint
	}
	if over.Timeout != nil {
		cfg.Timeout = *over.Timeout
	}
	if over.LogFile != "" {
		cfg.LogFile = over.LogFile
	}
	if over.LogLevel != "" {
		cfg.LogLevel = over.LogLevel
	}
	if over.Markdown != nil {
		cfg.RenderMarkdown = *over.Markdown
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q", c.Endpoint)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// YAML renders the effective configuration.
func (c Config) YAML() (string, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(raw), nil
}

func mergeFile(cfg *Config, path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func mergeEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvEndpoint)); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(getenv(EnvLogFile)); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(EnvMarkdown)); v != "" {
		cfg.RenderMarkdown = v == "1" || strings.EqualFold(v, "true")
	}
	return nil
}
