// Package config loads the tool configuration of the casereport commands
// from an optional YAML file and CASEREPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/logger"
)

// EnvPrefix is the prefix of environment overrides, e.g. CASEREPORT_LOG_LEVEL.
const EnvPrefix = "CASEREPORT"

// Config holds all tool configuration
type Config struct {
	Log     LogConfig
	Render  RenderConfig
	Publish PublishConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RenderConfig holds document output settings
type RenderConfig struct {
	Compress          bool
	Creator           string
	MaxImageDimension int // pixels; negative disables downscaling
}

// PublishConfig holds the S3 upload settings
type PublishConfig struct {
	Enabled         bool
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // custom endpoint, e.g. MinIO
	UsePathStyle    bool
	AccessKeyID     string // static credentials; empty uses the default chain
	SecretAccessKey string
}

// Logger returns the logger configuration.
func (c LogConfig) Logger() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level, cfg.Format, cfg.Output = c.Level, c.Format, c.Output
	return cfg
}

// Load reads the configuration. With path empty, casereport.yaml in the
// working directory is used when present. Priority (highest to lowest):
// 1. Environment variables with CASEREPORT_ prefix
// 2. the configuration file
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, casereport.NewError("config.Load", casereport.ErrConfigNotFound, err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("casereport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, casereport.NewError("config.Load", casereport.ErrConfigParse, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Render: RenderConfig{
			Compress:          v.GetBool("render.compress"),
			Creator:           v.GetString("render.creator"),
			MaxImageDimension: v.GetInt("render.max_image_dimension"),
		},
		Publish: PublishConfig{
			Enabled:         v.GetBool("publish.enabled"),
			Bucket:          v.GetString("publish.bucket"),
			Prefix:          v.GetString("publish.prefix"),
			Region:          v.GetString("publish.region"),
			Endpoint:        v.GetString("publish.endpoint"),
			UsePathStyle:    v.GetBool("publish.use_path_style"),
			AccessKeyID:     v.GetString("publish.access_key_id"),
			SecretAccessKey: v.GetString("publish.secret_access_key"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Render: RenderConfig{
			Compress:          v.GetBool("render.compress"),
			Creator:           v.GetString("render.creator"),
			MaxImageDimension: v.GetInt("render.max_image_dimension"),
		},
		Publish: PublishConfig{
			Region: v.GetString("publish.region"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("render.compress", true)
	v.SetDefault("render.creator", "casereport")
	v.SetDefault("render.max_image_dimension", 0)
	v.SetDefault("publish.enabled", false)
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.prefix", "")
	v.SetDefault("publish.region", "us-east-1")
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.use_path_style", false)
	v.SetDefault("publish.access_key_id", "")
	v.SetDefault("publish.secret_access_key", "")
}

// Validate checks option values.
func (c *Config) Validate() error {
	var problems []string
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be console or json, got %q", c.Log.Format))
	}
	if c.Publish.Enabled && c.Publish.Bucket == "" {
		problems = append(problems, "publish.bucket is required when publishing is enabled")
	}
	if (c.Publish.AccessKeyID == "") != (c.Publish.SecretAccessKey == "") {
		problems = append(problems, "publish.access_key_id and publish.secret_access_key must be set together")
	}
	if len(problems) > 0 {
		return casereport.NewError("config.Validate", casereport.ErrValidation, errors.New(strings.Join(problems, "; ")))
	}
	return nil
}
