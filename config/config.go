// Package config loads demopak settings from TOML files.
//
// A configuration file looks like:
//
//	[script]
//	backend = "wasm"
//	memory-limit-pages = 256
//	log-level = "info"
//
//	[pack]
//	compression = "zstd"
//
// Every key is optional; missing keys keep the values of Default.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/demopak/container"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
	"github.com/arloliu/demopak/script"
)

// Config is the root of a configuration file.
type Config struct {
	Script Script `toml:"script"`
	Pack   Pack   `toml:"pack"`
}

// Script configures the script engine.
type Script struct {
	// Backend is "native" or "wasm".
	Backend string `toml:"backend"`
	// MemoryLimitPages caps wasm program memory in 64KiB pages.
	MemoryLimitPages uint32 `toml:"memory-limit-pages"`
	// LogLevel is a zap level name, or "off" to disable logging.
	LogLevel string `toml:"log-level"`
}

// Pack configures container packing.
type Pack struct {
	// Compression is a codec name: none, zstd, s2, lz4 or snappy.
	Compression string `toml:"compression"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Script: Script{
			Backend:          format.BackendNative.String(),
			MemoryLimitPages: script.DefaultMemoryLimitPages,
			LogLevel:         "off",
		},
		Pack: Pack{
			Compression: strings.ToLower(format.CompressionNone.String()),
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates TOML configuration data on top of Default.
//
// Returns:
//   - Config: The decoded configuration
//   - error: A TOML syntax error, or ErrInvalidConfig for unknown keys and invalid values
func Parse(data []byte) (Config, error) {
	cfg := Default()

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", errs.ErrInvalidConfig, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every value of the configuration.
func (c Config) Validate() error {
	if _, err := c.Backend(); err != nil {
		return err
	}
	if _, err := c.Compression(); err != nil {
		return err
	}
	if c.Script.MemoryLimitPages == 0 || c.Script.MemoryLimitPages > 65536 {
		return fmt.Errorf("%w: script.memory-limit-pages must be in 1..65536, got %d", errs.ErrInvalidConfig, c.Script.MemoryLimitPages)
	}
	if _, err := c.level(); err != nil {
		return err
	}

	return nil
}

// Backend returns the configured script backend.
func (c Config) Backend() (format.Backend, error) {
	backend, ok := format.ParseBackend(c.Script.Backend)
	if !ok {
		return 0, fmt.Errorf("%w: unknown script.backend %q", errs.ErrInvalidConfig, c.Script.Backend)
	}

	return backend, nil
}

// Compression returns the configured container compression.
func (c Config) Compression() (format.CompressionType, error) {
	compression, ok := format.ParseCompressionType(c.Pack.Compression)
	if !ok {
		return 0, fmt.Errorf("%w: unknown pack.compression %q", errs.ErrInvalidConfig, c.Pack.Compression)
	}

	return compression, nil
}

// NewLogger builds the logger selected by script.log-level. "off" yields a no-op logger.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	if level == zapcore.InvalidLevel {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func (c Config) level() (zapcore.Level, error) {
	if c.Script.LogLevel == "" || strings.EqualFold(c.Script.LogLevel, "off") {
		return zapcore.InvalidLevel, nil
	}

	level, err := zapcore.ParseLevel(c.Script.LogLevel)
	if err != nil {
		return zapcore.InvalidLevel, fmt.Errorf("%w: script.log-level: %w", errs.ErrInvalidConfig, err)
	}

	return level, nil
}

// ScriptOptions returns the engine options for this configuration.
// The logger may be nil to keep the script package logger.
func (c Config) ScriptOptions(l *zap.Logger) ([]script.Option, error) {
	backend, err := c.Backend()
	if err != nil {
		return nil, err
	}

	return []script.Option{
		script.WithBackend(backend),
		script.WithMemoryLimitPages(c.Script.MemoryLimitPages),
		script.WithLogger(l),
	}, nil
}

// PackOptions returns the container options for this configuration.
func (c Config) PackOptions() ([]container.PackOption, error) {
	compression, err := c.Compression()
	if err != nil {
		return nil, err
	}

	return []container.PackOption{container.WithCompression(compression)}, nil
}
