package config

import (
	"encoding/json"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/tagkit/internal/errors"
	"github.com/vango-dev/tagkit/pkg/diag"
)

const (
	// DefaultPort is the default playground port.
	DefaultPort = 7400

	// DefaultHost is the default playground host.
	DefaultHost = "localhost"

	// DefaultMaxFlushPasses bounds the render passes of one flush.
	DefaultMaxFlushPasses = 16

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "tagkit"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "tagkit"
)

// FileNames lists the configuration file names Load looks for, in order.
var FileNames = []string{"tagkit.json", "tagkit.yaml", "tagkit.yml"}

// Config represents the complete tagkit configuration.
type Config struct {
	// Render controls HTML output.
	Render RenderConfig `json:"render" yaml:"render"`

	// Scheduler controls render batching.
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`

	// Diagnostics controls how diagnostics are printed.
	Diagnostics DiagnosticsConfig `json:"diagnostics" yaml:"diagnostics"`

	// Serve contains playground server settings.
	Serve ServeConfig `json:"serve" yaml:"serve"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	// Pretty enables indented output.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`

	// Indent is the indentation used when Pretty is set.
	Indent string `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// SchedulerConfig contains render scheduler settings.
type SchedulerConfig struct {
	// MaxFlushPasses is the number of passes one flush may run.
	MaxFlushPasses int `json:"maxFlushPasses,omitempty" yaml:"maxFlushPasses,omitempty"`

	// ManualFlush disables flushing at the end of each unit of work.
	ManualFlush bool `json:"manualFlush,omitempty" yaml:"manualFlush,omitempty"`
}

// DiagnosticsConfig contains diagnostic output settings.
type DiagnosticsConfig struct {
	// Format is one of "text", "compact" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Color enables ANSI colors in text output.
	Color bool `json:"color" yaml:"color"`
}

// ServeConfig contains playground server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// AllowedOrigins lists origins allowed by CORS. Empty disables CORS.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName names the tracer spans are recorded with.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Render: RenderConfig{
			Indent: "  ",
		},
		Scheduler: SchedulerConfig{
			MaxFlushPasses: DefaultMaxFlushPasses,
		},
		Diagnostics: DiagnosticsConfig{
			Format: string(diag.FormatText),
			Color:  true,
		},
		Serve: ServeConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for each of FileNames in turn.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No " + strings.Join(FileNames, ", ") + " found in " + dir).
		WithSuggestion("Create tagkit.json or pass --config")
}

// LoadFile reads configuration from the specified file path. The decoder
// is chosen by extension: .json and .jsonc accept comments and trailing
// commas, .yaml and .yml are YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No config file at " + path)
		}
		return nil, errors.New(errors.CodeInvalidConfig).Wrap(err)
	}

	cfg := New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, errors.New(errors.CodeInvalidConfig).
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON; comments and trailing commas are allowed").
				Wrap(err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New(errors.CodeInvalidConfig).
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check the YAML indentation and key names").
				Wrap(err)
		}
	default:
		return nil, errors.New(errors.CodeInvalidConfig).
			WithDetail("Unsupported config file extension " + strconv.Quote(ext)).
			WithSuggestion("Use tagkit.json or tagkit.yaml")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Discover walks up from startDir and loads the first configuration it
// finds. Without one it returns the defaults.
func Discover(startDir string) (*Config, error) {
	dir, err := FindProjectRoot(startDir)
	if err != nil {
		if IsNotFound(err) {
			return New(), nil
		}
		return nil, err
	}
	return Load(dir)
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Diagnostics.Format == "" {
		c.Diagnostics.Format = string(diag.FormatText)
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("serve.port must be between 0 and 65535, got " + strconv.Itoa(c.Serve.Port))
	}
	if c.Scheduler.MaxFlushPasses <= 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("scheduler.maxFlushPasses must be positive, got " + strconv.Itoa(c.Scheduler.MaxFlushPasses))
	}
	if _, err := diag.ParseFormat(c.Diagnostics.Format); err != nil {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("diagnostics.format: " + err.Error()).
			WithSuggestion(`Use "text", "compact" or "json"`)
	}
	return nil
}

// DiagnosticFormat returns the configured diagnostic format. Call
// Validate first; an invalid value falls back to text.
func (c *Config) DiagnosticFormat() diag.Format {
	f, err := diag.ParseFormat(c.Diagnostics.Format)
	if err != nil {
		return diag.FormatText
	}
	return f
}

// Address returns the host:port the playground listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Serve.Host, strconv.Itoa(c.Serve.Port))
}

// URL returns the playground URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No config file found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// IsNotFound reports whether err means no configuration file exists.
func IsNotFound(err error) bool {
	var e *errors.Error
	return stderrors.As(err, &e) && e.Code == errors.CodeConfigNotFound
}
