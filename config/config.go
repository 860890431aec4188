package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

const (
	CodeConfigLoadReadFailure      = "config.load.read_failure"
	CodeConfigValidateInvalidValue = "config.validate.invalid_value"
)

// EnvPrefix prefixes every environment override, e.g. QNN_SAMPLE.
const EnvPrefix = "QNN"

// Config is the top-level qnn configuration.
type Config struct {
	DataDir     string    `mapstructure:"data_dir" yaml:"data_dir"`
	VectorsPath string    `mapstructure:"vectors_path" yaml:"vectors_path"`
	DatasetPath string    `mapstructure:"dataset_path" yaml:"dataset_path"`
	VectorLimit int       `mapstructure:"vector_limit" yaml:"vector_limit"`
	Sample      int       `mapstructure:"sample" yaml:"sample"`
	K           int       `mapstructure:"k" yaml:"k"`
	BatchK      int       `mapstructure:"batch_k" yaml:"batch_k"`
	Workers     int       `mapstructure:"workers" yaml:"workers"`
	CachePath   string    `mapstructure:"cache_path" yaml:"cache_path"`
	Verify      bool      `mapstructure:"verify" yaml:"verify"`
	Log         LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig controls the slog handler built by the CLI.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	dataDir := filepath.Join("research", "data")
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, dataDir)
	}
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("vectors_path", "../fastText/pretrained/crawl-300d-2M.vec")
	v.SetDefault("dataset_path", "UnsupervisedQAData/train.json")
	v.SetDefault("vector_limit", 0)
	v.SetDefault("sample", 5)
	v.SetDefault("k", 4)
	v.SetDefault("batch_k", 2)
	v.SetDefault("workers", 0)
	v.SetDefault("cache_path", "")
	v.SetDefault("verify", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// SetupEnv binds QNN_-prefixed environment variables; nested keys use
// underscores, e.g. QNN_LOG_LEVEL.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none is
// given) into the process environment. Missing files are skipped and
// variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return oops.Code(CodeConfigLoadReadFailure).With("path", path).Wrapf(err, "config: loading env file")
		}
	}
	return nil
}

// Load reads configuration from the given path (or defaults only) with
// QNN_ environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, oops.Code(CodeConfigLoadReadFailure).With("path", path).Wrapf(err, "config: reading %s", path)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, oops.Code(CodeConfigValidateInvalidValue).Wrapf(err, "config: unmarshalling")
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, oops.Code(CodeConfigValidateInvalidValue).Wrapf(errors.Join(errs...), "config: validating")
	}
	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting all
// issues rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error
	invalid := func(key string, value any, msg string) {
		errs = append(errs, oops.Code(CodeConfigValidateInvalidValue).With("key", key, "value", value).Errorf("config: %s %s", key, msg))
	}
	if c.VectorsPath == "" {
		invalid("vectors_path", c.VectorsPath, "must not be empty")
	}
	if c.DatasetPath == "" {
		invalid("dataset_path", c.DatasetPath, "must not be empty")
	}
	if c.VectorLimit < 0 {
		invalid("vector_limit", c.VectorLimit, "must not be negative")
	}
	if c.Sample < 0 {
		invalid("sample", c.Sample, "must not be negative")
	}
	if c.K < 1 {
		invalid("k", c.K, "must be at least 1")
	}
	if c.BatchK < 1 {
		invalid("batch_k", c.BatchK, "must be at least 1")
	}
	if c.Workers < 0 {
		invalid("workers", c.Workers, "must not be negative")
	}
	if c.Verify && c.CachePath == "" {
		invalid("verify", c.Verify, "requires cache_path")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		invalid("log.level", c.Log.Level, "must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		invalid("log.format", c.Log.Format, "must be text or json")
	}
	return errs
}

// DatasetFile returns DatasetPath resolved under DataDir when relative.
func (c *Config) DatasetFile() string {
	if filepath.IsAbs(c.DatasetPath) || c.DataDir == "" {
		return c.DatasetPath
	}
	return filepath.Join(c.DataDir, c.DatasetPath)
}

// Parallelism returns Workers, or GOMAXPROCS when Workers is 0.
func (c *Config) Parallelism() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel maps Log.Level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := levels[strings.ToLower(c.Log.Level)]; ok {
		return l
	}
	return slog.LevelInfo
}
