package container

import (
	"fmt"

	"github.com/arloliu/demopak/compress"
	"github.com/arloliu/demopak/format"
	"github.com/arloliu/demopak/internal/options"
)

type packConfig struct {
	compression format.CompressionType
}

// PackOption configures Pack.
type PackOption = options.Option[*packConfig]

// WithCompression selects the payload codec. The default is format.CompressionNone.
//
// Returns ErrInvalidCompression from Pack if the type has no codec.
func WithCompression(compression format.CompressionType) PackOption {
	return options.New(func(c *packConfig) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return fmt.Errorf("container: %w", err)
		}
		c.compression = compression

		return nil
	})
}
