// Package endian provides the byte order engine shared by the demopak wire formats.
//
// EndianEngine combines the ByteOrder and AppendByteOrder interfaces of encoding/binary.
// Every demopak wire format (stream scripts, program blobs, containers) is little-endian,
// whatever the host byte order:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, uint32(len(plane)))
//
// The returned engine is stateless and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
