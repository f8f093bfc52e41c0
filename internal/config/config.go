// Package config loads CLI settings.
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("swagger-cli.yaml").
//	    Load()
//
// Precedence: defaults, then the YAML file, then SWAGGER_* environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/tarrence/swagger-cli/internal/security"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SWAGGER"

// ConfigPathEnv names the config file when --config is not given.
const ConfigPathEnv = "SWAGGER_CLI_CONFIG"

type Config struct {
	// Spec is a document path or URL. Empty selects the embedded petstore.
	Spec    string        `yaml:"spec" env:"SPEC"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// Auth is an apiKey token.
	Auth string `yaml:"auth" env:"AUTH"`
	// User is a basic auth pair written as name:password.
	User string `yaml:"user" env:"USER"`

	Scheme        string `yaml:"scheme" env:"SCHEME"`
	Format        string `yaml:"format" env:"FORMAT"`
	InsecureRetry bool   `yaml:"insecure_retry" env:"INSECURE_RETRY"`

	// RateLimit caps calls per second; zero disables pacing.
	RateLimit float64 `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int     `yaml:"rate_burst" env:"RATE_BURST"`

	// Headers are sent with every call.
	Headers map[string]string `yaml:"headers"`

	// MetricsFile receives the prometheus textfile exposition after each command.
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`
}

func Default() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		RateBurst: 1,
		Headers:   map[string]string{},
	}
}

// Credential returns the configured credential: a security.Token for Auth,
// a security.UserPassword for User, or nil.
func (c *Config) Credential() (security.Credential, error) {
	switch {
	case c.Auth != "" && c.User != "":
		return nil, errors.New("set only one of auth and user")
	case c.User != "":
		name, password, ok := strings.Cut(c.User, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("user must be name:password")
		}
		return security.UserPassword{Username: name, Password: password}, nil
	case c.Auth != "":
		return security.Token(c.Auth), nil
	}
	return nil, nil
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %g", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1, got %d", c.RateBurst)
	}
	if _, err := c.Credential(); err != nil {
		return err
	}
	return nil
}

type Loader struct {
	configPath string
	lookupEnv  func(string) (string, bool)
}

func NewLoader() *Loader {
	return &Loader{lookupEnv: os.LookupEnv}
}

// WithConfigPath sets the YAML file to read. An empty path falls back to
// $SWAGGER_CLI_CONFIG; when that is empty too no file is read.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithLookupEnv replaces os.LookupEnv.
func (l *Loader) WithLookupEnv(fn func(string) (string, bool)) *Loader {
	if fn != nil {
		l.lookupEnv = fn
	}
	return l
}

func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	path := l.configPath
	if path == "" {
		path, _ = l.lookupEnv(ConfigPathEnv)
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config from file: %w", err)
		}
	}

	if err := l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	return nil
}

func (l *Loader) setFieldsFromEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("env")
		if tag == "" {
			continue
		}
		name := EnvPrefix + "_" + tag
		value, ok := l.lookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := setFieldValue(v.Field(i), value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
