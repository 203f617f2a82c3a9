package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/storage"
)

const (
	// ConfigFileName is the file read when no path is given.
	ConfigFileName = "contractflow.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CONTRACTFLOW_"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendSQLite = "sqlite"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Data    DataConfig    `yaml:"data" envPrefix:"DATA_"`
	Auth    AuthConfig    `yaml:"auth" envPrefix:"AUTH_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`

	// configPath is the file the config was loaded from, if any.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`

	// CookieSecure marks the client id cookie Secure.
	CookieSecure bool `yaml:"cookieSecure" env:"COOKIE_SECURE"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level" env:"LEVEL"`

	// Format is text or json.
	Format string `yaml:"format" env:"FORMAT"`
}

// StorageConfig selects the local-storage backend.
type StorageConfig struct {
	Backend string        `yaml:"backend" env:"BACKEND"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// Path is the file for the file backend and the database for sqlite.
	Path string `yaml:"path" env:"PATH"`

	S3 S3Config `yaml:"s3" envPrefix:"S3_"`
}

// S3Config holds the settings of the s3 backend.
type S3Config struct {
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	Prefix          string `yaml:"prefix" env:"PREFIX"`
	Region          string `yaml:"region" env:"REGION"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	AccessKeyID     string `yaml:"accessKeyId" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secretAccessKey" env:"SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"usePathStyle" env:"USE_PATH_STYLE"`
}

// DataConfig tunes the mock backend.
type DataConfig struct {
	// Seed makes the generated contracts and notifications reproducible.
	Seed uint64 `yaml:"seed" env:"SEED"`
}

// AuthConfig tunes sign-in.
type AuthConfig struct {
	TokenTTL      time.Duration `yaml:"tokenTTL" env:"TOKEN_TTL"`
	LoginDelay    time.Duration `yaml:"loginDelay" env:"LOGIN_DELAY"`
	RegisterDelay time.Duration `yaml:"registerDelay" env:"REGISTER_DELAY"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
	Path      string `yaml:"path" env:"PATH"`
}

// TracingConfig controls navigation spans.
type TracingConfig struct {
	Enabled      bool   `yaml:"enabled" env:"ENABLED"`
	TracerName   string `yaml:"tracerName" env:"TRACER_NAME"`
	IncludeQuery bool   `yaml:"includeQuery" env:"INCLUDE_QUERY"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Timeout: 5 * time.Second,
		},
		Data: DataConfig{Seed: 42},
		Auth: AuthConfig{
			TokenTTL:      24 * time.Hour,
			LoginDelay:    time.Second,
			RegisterDelay: 1500 * time.Millisecond,
		},
		Metrics: MetricsConfig{Enabled: true, Namespace: "contractflow", Path: "/metrics"},
		Tracing: TracingConfig{TracerName: "contractflow"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path,
// then CONTRACTFLOW_* environment overrides. An empty path reads
// ConfigFileName from the working directory if it exists.
func Load(path string) (*Config, error) {
	return load(path, nil)
}

// load is Load with an explicit environment; nil means the process
// environment.
func load(path string, environ map[string]string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E501").
				WithDetail("Failed to parse " + path + ": " + err.Error()).
				WithSuggestion("Check that " + path + " is valid YAML")
		}
		cfg.configPath = path
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return nil, errors.New("E501").
			WithDetail("No config file at " + path).
			WithSuggestion("Run 'contractflow config > " + ConfigFileName + "' to write the defaults")
	default:
		return nil, errors.New("E501").Wrap(err)
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.New("E500").WithDetail(err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New("E500").WithDetail(detail)
	}
	switch {
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return invalid("server.port must be between 0 and 65535")
	case c.Storage.Timeout <= 0:
		return invalid("storage.timeout must be positive")
	case c.Auth.TokenTTL <= 0:
		return invalid("auth.tokenTTL must be positive")
	case c.Auth.LoginDelay < 0 || c.Auth.RegisterDelay < 0:
		return invalid("auth delays must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return invalid("storage.path is required for the " + c.Storage.Backend + " backend")
		}
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return invalid("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return errors.New("E202").WithDetailf("backend %q", c.Storage.Backend).
			WithSuggestion("Use one of memory, file, s3 or sqlite")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with /")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New("E500").WithDetailf("log.level %q", s)
	}
	return level, nil
}

// Logger builds the configured slog logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenStorage opens the configured backend. Callers close it with
// storage.Closer when it implements one.
func (c *Config) OpenStorage(ctx context.Context) (storage.Storage, error) {
	switch c.Storage.Backend {
	case BackendMemory:
		return storage.NewMemory(), nil
	case BackendFile:
		f, err := storage.OpenFile(c.Storage.Path)
		if err != nil {
			return nil, errors.FromError(err, "E200")
		}
		return f, nil
	case BackendSQLite:
		db, err := storage.OpenSQLite(ctx, c.Storage.Path)
		if err != nil {
			return nil, errors.FromError(err, "E200")
		}
		return db, nil
	case BackendS3:
		s3c := c.Storage.S3
		client := storage.NewS3Client(storage.S3Config{
			Bucket:          s3c.Bucket,
			Prefix:          s3c.Prefix,
			Region:          s3c.Region,
			Endpoint:        s3c.Endpoint,
			AccessKeyID:     s3c.AccessKeyID,
			SecretAccessKey: s3c.SecretAccessKey,
			UsePathStyle:    s3c.UsePathStyle,
		})
		return storage.NewS3(client, s3c.Bucket, s3c.Prefix), nil
	default:
		return nil, errors.New("E202").WithDetailf("backend %q", c.Storage.Backend)
	}
}
