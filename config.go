package settingsflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/settingsflow/flow"
	"github.com/viant/settingsflow/internal/placeholder"
	"github.com/viant/settingsflow/messaging"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables overriding Config fields,
// e.g. SETTINGSFLOW_API_BASE_URL.
const EnvPrefix = "SETTINGSFLOW_"

// Config is a serialisable representation of the service configuration.
// Durations are written as Go duration strings ("1s", "500ms").
type Config struct {
	API         APIConfig         `json:"api" yaml:"api" envPrefix:"API_"`
	User        UserConfig        `json:"user" yaml:"user" envPrefix:"USER_"`
	Flow        FlowConfig        `json:"flow" yaml:"flow" envPrefix:"FLOW_"`
	Queue       QueueConfig       `json:"queue" yaml:"queue" envPrefix:"QUEUE_"`
	Cache       CacheConfig       `json:"cache" yaml:"cache" envPrefix:"CACHE_"`
	Log         LogConfig         `json:"log" yaml:"log" envPrefix:"LOG_"`
	Tracing     TracingConfig     `json:"tracing" yaml:"tracing" envPrefix:"TRACING_"`
	Coordinator CoordinatorConfig `json:"coordinator" yaml:"coordinator" envPrefix:"COORDINATOR_"`
}

type APIConfig struct {
	BaseURL   string        `json:"baseURL" yaml:"baseURL" env:"BASE_URL"`
	AuthToken string        `json:"authToken,omitempty" yaml:"authToken,omitempty" env:"AUTH_TOKEN"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout" env:"TIMEOUT"`
}

// UserConfig seeds the store with the authenticated user. Username and
// roles default to the claims of api.authToken.
type UserConfig struct {
	Username     string   `json:"username" yaml:"username" env:"USERNAME"`
	Roles        []string `json:"roles,omitempty" yaml:"roles,omitempty" env:"ROLES"`
	SiteLanguage string   `json:"siteLanguage,omitempty" yaml:"siteLanguage,omitempty" env:"SITE_LANGUAGE"`
	Locale       string   `json:"locale,omitempty" yaml:"locale,omitempty" env:"LOCALE"`
}

type FlowConfig struct {
	CloseFormDelay time.Duration `json:"closeFormDelay" yaml:"closeFormDelay" env:"CLOSE_FORM_DELAY"`
}

type QueueConfig struct {
	Vendor        messaging.Vendor `json:"vendor" yaml:"vendor" env:"VENDOR"`
	Buffer        int              `json:"buffer" yaml:"buffer" env:"BUFFER"`
	BaseURL       string           `json:"baseURL,omitempty" yaml:"baseURL,omitempty" env:"BASE_URL"`
	KeepCompleted bool             `json:"keepCompleted,omitempty" yaml:"keepCompleted,omitempty" env:"KEEP_COMPLETED"`
}

// CacheConfig controls the time-zone cache; MaxCountries 0 disables it.
type CacheConfig struct {
	MaxCountries int64         `json:"maxCountries" yaml:"maxCountries" env:"MAX_COUNTRIES"`
	TTL          time.Duration `json:"ttl" yaml:"ttl" env:"TTL"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LEVEL"`
	Format string `json:"format" yaml:"format" env:"FORMAT"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	ServiceName    string `json:"serviceName" yaml:"serviceName" env:"SERVICE_NAME"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion" env:"SERVICE_VERSION"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" env:"OUTPUT_FILE"`
}

type CoordinatorConfig struct {
	FailFast     bool          `json:"failFast" yaml:"failFast" env:"FAIL_FAST"`
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval" env:"POLL_INTERVAL"`
}

// DefaultConfig returns a Config with every optional setting populated.
// API base URL and username have no default.
func DefaultConfig() *Config {
	return &Config{
		API:  APIConfig{Timeout: 30 * time.Second},
		User: UserConfig{Locale: "en"},
		Flow: FlowConfig{CloseFormDelay: flow.DefaultCloseFormDelay},
		Queue: QueueConfig{
			Vendor: messaging.VendorMemory,
			Buffer: 100,
		},
		Cache:       CacheConfig{MaxCountries: 250, TTL: time.Hour},
		Log:         LogConfig{Level: "info", Format: "json"},
		Tracing:     TracingConfig{ServiceName: "settingsflow", ServiceVersion: "dev"},
		Coordinator: CoordinatorConfig{PollInterval: 50 * time.Millisecond},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.baseURL is required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be >= 0, got %v", c.API.Timeout))
	}
	if c.User.Username == "" && c.API.AuthToken == "" {
		errs = append(errs, errors.New("user.username is required without api.authToken"))
	}
	if c.Flow.CloseFormDelay < 0 {
		errs = append(errs, fmt.Errorf("flow.closeFormDelay must be >= 0, got %v", c.Flow.CloseFormDelay))
	}
	switch c.Queue.Vendor {
	case messaging.VendorMemory:
		if c.Queue.Buffer <= 0 {
			errs = append(errs, fmt.Errorf("queue.buffer must be > 0, got %d", c.Queue.Buffer))
		}
	case messaging.VendorFs:
		if c.Queue.BaseURL == "" {
			errs = append(errs, errors.New("queue.baseURL is required for the fs vendor"))
		}
	default:
		errs = append(errs, fmt.Errorf("queue.vendor %q is not supported", c.Queue.Vendor))
	}
	if c.Cache.MaxCountries < 0 {
		errs = append(errs, fmt.Errorf("cache.maxCountries must be >= 0, got %d", c.Cache.MaxCountries))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not supported", c.Log.Format))
	}
	if c.Coordinator.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("coordinator.pollInterval must be > 0, got %v", c.Coordinator.PollInterval))
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides c with the SETTINGSFLOW_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML (or JSON) config from URL on top of DefaultConfig,
// then applies environment overrides. ${env.KEY} placeholders are expanded
// before decoding.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	cfg := DefaultConfig()
	if err = yaml.Unmarshal([]byte(placeholder.Expand(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return cfg, nil
}
