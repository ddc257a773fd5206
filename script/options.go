package script

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
	"github.com/arloliu/demopak/internal/options"
)

// DefaultMemoryLimitPages caps the linear memory of wasm programs at 16MiB.
const DefaultMemoryLimitPages = 256

type engineConfig struct {
	backend          format.Backend
	logger           *zap.Logger
	memoryLimitPages uint32
	loader           loaderFunc
}

// Option configures an Engine.
type Option = options.Option[*engineConfig]

// WithBackend selects how program blobs are executed. The default is format.BackendNative.
func WithBackend(backend format.Backend) Option {
	return options.New(func(c *engineConfig) error {
		if _, err := loaderFor(backend); err != nil {
			return err
		}
		c.backend = backend

		return nil
	})
}

// WithLogger sets the engine's logger. The default is the package Logger.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMemoryLimitPages limits the linear memory of wasm programs, in 64KiB pages.
// The native backend ignores it.
func WithMemoryLimitPages(pages uint32) Option {
	return options.New(func(c *engineConfig) error {
		if pages == 0 || pages > 65536 {
			return fmt.Errorf("%w: memory limit of %d pages", errs.ErrInvalidConfig, pages)
		}
		c.memoryLimitPages = pages

		return nil
	})
}

// withLoader replaces the backend loader; tests use it to run fake programs.
func withLoader(fn loaderFunc) Option {
	return options.NoError(func(c *engineConfig) {
		c.loader = fn
	})
}

func newEngineConfig(opts []Option) (*engineConfig, error) {
	cfg := &engineConfig{
		backend:          format.BackendNative,
		memoryLimitPages: DefaultMemoryLimitPages,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}
	if cfg.loader == nil {
		loader, err := loaderFor(cfg.backend)
		if err != nil {
			return nil, err
		}
		cfg.loader = loader
	}

	return cfg, nil
}
