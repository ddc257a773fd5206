package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/demopak/container"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
	"github.com/arloliu/demopak/script"
)

const fullConfig = `
[script]
backend = "wasm"
memory-limit-pages = 64
log-level = "debug"

[pack]
compression = "Zstd"
`

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	backend, err := cfg.Backend()
	require.NoError(t, err)
	require.Equal(t, format.BackendNative, backend)

	compression, err := cfg.Compression()
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, compression)
}

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)
	require.Equal(t, "wasm", cfg.Script.Backend)
	require.Equal(t, uint32(64), cfg.Script.MemoryLimitPages)
	require.Equal(t, "debug", cfg.Script.LogLevel)

	backend, err := cfg.Backend()
	require.NoError(t, err)
	require.Equal(t, format.BackendWasm, backend)

	compression, err := cfg.Compression()
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, compression)
}

func TestParse_Partial(t *testing.T) {
	cfg, err := Parse([]byte("[pack]\ncompression = \"lz4\"\n"))
	require.NoError(t, err)
	require.Equal(t, Default().Script, cfg.Script)

	compression, err := cfg.Compression()
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, compression)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{name: "unknown key", data: "[script]\nbackends = \"wasm\"\n", err: errs.ErrInvalidConfig},
		{name: "unknown backend", data: "[script]\nbackend = \"jit\"\n", err: errs.ErrInvalidConfig},
		{name: "unknown compression", data: "[pack]\ncompression = \"brotli\"\n", err: errs.ErrInvalidConfig},
		{name: "zero pages", data: "[script]\nmemory-limit-pages = 0\n", err: errs.ErrInvalidConfig},
		{name: "too many pages", data: "[script]\nmemory-limit-pages = 70000\n", err: errs.ErrInvalidConfig},
		{name: "bad level", data: "[script]\nlog-level = \"loud\"\n", err: errs.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Parse([]byte("[script\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demopak.toml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "wasm", cfg.Script.Backend)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger(t *testing.T) {
	l, err := Default().NewLogger()
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.ErrorLevel), "off disables every level")

	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	l, err = cfg.NewLogger()
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestScriptOptions(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	opts, err := cfg.ScriptOptions(nil)
	require.NoError(t, err)

	e, err := script.NewEngine(opts...)
	require.NoError(t, err)
	defer e.Close()
	require.False(t, e.Loaded())
}

func TestPackOptions(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	opts, err := cfg.PackOptions()
	require.NoError(t, err)

	pkg, err := container.Pack([]byte("script bytes"), opts...)
	require.NoError(t, err)

	h, err := container.Inspect(pkg)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, h.Compression)
}
