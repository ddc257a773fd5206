package stream

import "github.com/arloliu/demopak/internal/options"

type config struct {
	schema   *Schema
	sizeHint int
}

// Option configures a Writer or a Reader.
type Option = options.Option[*config]

// WithSchema verifies every typed call against schema.
//
// The first divergence is recorded as ErrSchemaMismatch and reported by Err, FinalScript
// (writers) or Done (readers).
func WithSchema(schema Schema) Option {
	return options.NoError(func(c *config) {
		c.schema = &schema
	})
}

// WithSizeHint pre-grows every writer plane to hold n bytes. Readers ignore it.
func WithSizeHint(n int) Option {
	return options.NoError(func(c *config) {
		c.sizeHint = max(n, 0)
	})
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
