// Package config loads the mailenc configuration file.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/crowdsecurity/go-cs-lib/ptr"

	"github.com/crowdsecurity/mailenc/pkg/headers"
	"github.com/crowdsecurity/mailenc/pkg/metrics"
)

const (
	defMaxSize  = 500
	defMaxFiles = 3
	defMaxAge   = 28
	defCompress = true
)

var (
	ErrInvalidHeaderOffset = errors.New("header_offset must be between 0 and 75")
	ErrInvalidColor        = errors.New("color must be one of yes, no, auto")
	ErrMissingLogDir       = errors.New("log_dir is required when log_media is file")
)

type Config struct {
	// SMTPUTF8 allows the 8bit transfer encoding for UTF-8 bodies.
	SMTPUTF8 bool `yaml:"smtputf8"`
	// HeaderOffset is the length of the line before the header value when
	// no prefix is given on the command line.
	HeaderOffset int `yaml:"header_offset"`

	LogMedia     string `yaml:"log_media"` // stdout, stderr or file
	LogDir       string `yaml:"log_dir,omitempty"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format,omitempty"`
	LogMaxSize   int    `yaml:"log_max_size,omitempty"`
	LogMaxFiles  int    `yaml:"log_max_files,omitempty"`
	LogMaxAge    int    `yaml:"log_max_age,omitempty"`
	CompressLogs *bool  `yaml:"compress_logs,omitempty"`

	Color        string `yaml:"color"` // yes, no or auto
	MetricsLevel string `yaml:"metrics_level"`

	logLevel     logrus.Level
	metricsLevel metrics.MetricsLevelConfig
}

// Getter gives commands a late-bound access to the configuration, which is
// only loaded once the flags are parsed.
type Getter func() *Config

func NewDefaultConfig() *Config {
	return &Config{
		LogMedia:     "stderr",
		LogLevel:     "info",
		LogFormat:    "text",
		CompressLogs: ptr.Of(defCompress),
		Color:        "auto",
		MetricsLevel: string(metrics.MetricsLevelDefault),
		logLevel:     logrus.InfoLevel,
		metricsLevel: metrics.MetricsLevelDefault,
	}
}

// NewConfig reads the configuration file at path on top of the defaults.
// Environment variables are expanded in the file before it's parsed.
func NewConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewDefaultConfig()

	if err := cfg.Unmarshal([]byte(os.ExpandEnv(string(content)))); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Unmarshal merges a YAML document into c and validates the result.
// Unknown keys are rejected. An empty document, or one with only comments or
// null, leaves c as it is.
func (c *Config) Unmarshal(b []byte) error {
	// the decoder zeroes the whole struct on a null document
	var keys map[string]any

	if err := yaml.Unmarshal(b, &keys); err != nil {
		return fmt.Errorf("cannot parse configuration: %s", yaml.FormatError(err, false, false))
	}

	if len(keys) == 0 {
		return c.Validate()
	}

	if err := yaml.UnmarshalWithOptions(b, c, yaml.Strict()); err != nil {
		return fmt.Errorf("cannot parse configuration: %s", yaml.FormatError(err, false, false))
	}

	return c.Validate()
}

// Validate checks the fields that can't be checked by the YAML decoder and
// caches the parsed levels.
func (c *Config) Validate() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	c.logLevel = level

	if c.metricsLevel, err = metrics.ParseMetricsLevel(c.MetricsLevel); err != nil {
		return fmt.Errorf("metrics_level: %w", err)
	}

	if c.HeaderOffset < 0 || c.HeaderOffset >= headers.MaxLineLen {
		return fmt.Errorf("%w: %d", ErrInvalidHeaderOffset, c.HeaderOffset)
	}

	switch c.Color {
	case "yes", "no", "auto":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Color)
	}

	if c.LogMedia == "file" && c.LogDir == "" {
		return ErrMissingLogDir
	}

	return nil
}

func (c *Config) Level() logrus.Level {
	return c.logLevel
}

func (c *Config) GetMetricsLevel() metrics.MetricsLevelConfig {
	return c.metricsLevel
}

func (c *Config) GetFormat() string {
	return c.LogFormat
}

func (c *Config) GetMedia() string {
	return c.LogMedia
}

// NewRotatingLogger returns the writer for file logging in LogDir, with
// the rotation policy of the configuration.
func (c *Config) NewRotatingLogger(filename string) *lumberjack.Logger {
	compress := defCompress
	if c.CompressLogs != nil {
		compress = *c.CompressLogs
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(c.LogDir, filename),
		MaxSize:    cmp.Or(c.LogMaxSize, defMaxSize),
		MaxBackups: cmp.Or(c.LogMaxFiles, defMaxFiles),
		MaxAge:     cmp.Or(c.LogMaxAge, defMaxAge),
		Compress:   compress,
	}
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
