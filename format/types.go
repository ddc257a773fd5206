package format

import "strings"

type (
	CompressionType uint8
	StreamID        uint8
	FieldKind       uint8
	Backend         uint8
)

const (
	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionSnappy CompressionType = 0x5 // CompressionSnappy represents Snappy block compression.
)

// Stream planes of the multi-stream codec, in wire order.
//
// The order is part of the serialized format and must never change.
const (
	StreamInt8    StreamID = iota // StreamInt8 holds 8-bit integers and booleans.
	StreamInt16Lo                 // StreamInt16Lo holds the low byte of 16-bit integers.
	StreamInt16Hi                 // StreamInt16Hi holds the high byte of 16-bit integers.
	StreamInt32B0                 // StreamInt32B0 holds byte 0 (low word, low byte) of 32-bit integers.
	StreamInt32B1                 // StreamInt32B1 holds byte 1 (low word, high byte) of 32-bit integers.
	StreamInt32B2                 // StreamInt32B2 holds byte 2 (high word, low byte) of 32-bit integers.
	StreamInt32B3                 // StreamInt32B3 holds byte 3 (high word, high byte) of 32-bit integers.
	StreamString                  // StreamString holds length-prefixed strings.
	StreamFix24                   // StreamFix24 holds the upper three bytes of scaled floats.

	NumStreams = int(StreamFix24) + 1
)

// Field kinds used by stream schemas. Composite kinds expand to their scalar fields on the wire.
const (
	KindU8 FieldKind = iota + 1
	KindU16
	KindU32
	KindString
	KindFloat
	KindBlock
	KindPoint
	KindRect
	KindVec2
	KindVec3
	KindVec4
)

// Script execution backends.
const (
	BackendNative Backend = iota + 1 // BackendNative runs raw machine code in executable memory.
	BackendWasm                      // BackendWasm runs a WebAssembly module in a wazero sandbox.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

// ParseCompressionType returns the compression type whose String matches name, ignoring
// case, and false if there is none.
func ParseCompressionType(name string) (CompressionType, bool) {
	for c := CompressionNone; c <= CompressionSnappy; c++ {
		if strings.EqualFold(c.String(), name) {
			return c, true
		}
	}

	return 0, false
}

func (s StreamID) String() string {
	switch s {
	case StreamInt8:
		return "INT8"
	case StreamInt16Lo:
		return "INT16_LO"
	case StreamInt16Hi:
		return "INT16_HI"
	case StreamInt32B0:
		return "INT32_B0"
	case StreamInt32B1:
		return "INT32_B1"
	case StreamInt32B2:
		return "INT32_B2"
	case StreamInt32B3:
		return "INT32_B3"
	case StreamString:
		return "STRING"
	case StreamFix24:
		return "FIX24"
	default:
		return "Unknown"
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindBlock:
		return "block"
	case KindPoint:
		return "point"
	case KindRect:
		return "rect"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindVec4:
		return "vec4"
	default:
		return "unknown"
	}
}

func (b Backend) String() string {
	switch b {
	case BackendNative:
		return "native"
	case BackendWasm:
		return "wasm"
	default:
		return "unknown"
	}
}

// ParseBackend returns the backend whose String matches name, ignoring case.
func ParseBackend(name string) (Backend, bool) {
	switch strings.ToLower(name) {
	case "native":
		return BackendNative, true
	case "wasm":
		return BackendWasm, true
	default:
		return 0, false
	}
}
