// Package demopak packs the content of a real-time audiovisual production into one compact
// blob and executes the small compiled programs that animate it.
//
// The work is split across packages:
//
//   - stream: the multi-stream codec that separates typed values into byte planes so the
//     final script compresses well
//   - encoding: the adaptive bit-width sampler for quantized curve data
//   - script: the engine that runs compiled program blobs per owner and per frame
//   - container: integrity checked, optionally compressed packages around a script
//   - config: TOML configuration for the engine and for packing
//
// # Basic Usage
//
// Writing content and packing it:
//
//	w, _ := demopak.NewWriter()
//	defer w.Finish()
//
//	w.WriteU16(sceneCount)
//	w.WriteVec3(cameraPos)
//	_ = w.WriteString("intro")
//	_ = demopak.WriteProgram(w, programBlob)
//
//	pkg, _ := demopak.Pack(w, container.WithCompression(format.CompressionZstd))
//
// Reading it back and running the program:
//
//	r, _ := demopak.Open(pkg)
//	sceneCount := r.ReadU16()
//	cameraPos := r.ReadVec3()
//	name := r.ReadString()
//
//	engine, _ := demopak.NewEngine(script.WithBackend(format.BackendWasm))
//	defer engine.Close()
//	_ = demopak.LoadProgram(engine, r)
//
//	engine.SetTime(entity, t)
//	_ = engine.Run(entity, &out)
//
// This package provides convenient top-level wrappers for the most common use cases.
// For fine-grained control, use the packages directly.
package demopak

import (
	"fmt"

	"github.com/arloliu/demopak/config"
	"github.com/arloliu/demopak/container"
	"github.com/arloliu/demopak/internal/hash"
	"github.com/arloliu/demopak/script"
	"github.com/arloliu/demopak/stream"
)

// NewWriter creates a stream writer.
//
// Parameters:
//   - opts: Optional stream options (WithSchema, WithSizeHint)
//
// Returns:
//   - *stream.Writer: The writer; call Finish when done
//   - error: Option error
func NewWriter(opts ...stream.Option) (*stream.Writer, error) {
	return stream.NewWriter(opts...)
}

// NewReader creates a stream reader over a raw final script.
func NewReader(raw []byte, opts ...stream.Option) (*stream.Reader, error) {
	return stream.NewReader(raw, opts...)
}

// Pack assembles the writer's final script and wraps it into a container.
//
// The writer stays usable; Pack does not call Finish.
//
// Returns:
//   - []byte: The container
//   - error: A recorded writer error, such as a schema mismatch, or a container error
func Pack(w *stream.Writer, opts ...container.PackOption) ([]byte, error) {
	raw, err := w.FinalScript()
	if err != nil {
		return nil, fmt.Errorf("assemble script: %w", err)
	}

	return container.Pack(raw, opts...)
}

// Open validates a container and returns a reader over the script it carries.
//
// Returns:
//   - *stream.Reader: Reader positioned at the first value
//   - error: A container error (bad header, checksum mismatch) or ErrTruncatedScript
func Open(pkg []byte, opts ...stream.Option) (*stream.Reader, error) {
	raw, err := container.Unpack(pkg)
	if err != nil {
		return nil, err
	}

	return stream.NewReader(raw, opts...)
}

// NewEngine creates a script engine.
func NewEngine(opts ...script.Option) (*script.Engine, error) {
	return script.NewEngine(opts...)
}

// NewEngineFromConfig creates a script engine configured by cfg, with the logger cfg selects.
func NewEngineFromConfig(cfg config.Config) (*script.Engine, error) {
	l, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	opts, err := cfg.ScriptOptions(l)
	if err != nil {
		return nil, err
	}

	return script.NewEngine(opts...)
}

// WriteProgram embeds a compiled program blob as a raw block.
func WriteProgram(w *stream.Writer, program []byte) error {
	return w.WriteBlock(program)
}

// LoadProgram reads a raw block from r and loads it into engine.
//
// Returns:
//   - error: The reader's error if the block could not be read, or a load error
func LoadProgram(engine *script.Engine, r *stream.Reader) error {
	program := r.ReadBlock(nil)
	if err := r.Err(); err != nil {
		return fmt.Errorf("read program block: %w", err)
	}

	return engine.Load(program)
}

// ScriptID computes a 64-bit content identifier for a script using xxHash64.
//
// It matches the checksum a container stores for the same script.
func ScriptID(raw []byte) uint64 {
	return hash.Checksum(raw)
}
