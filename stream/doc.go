// Package stream implements the multi-stream codec used for demo content.
//
// Typed values are split into nine byte planes by type and byte significance, in a fixed
// order that is part of the wire format:
//
//	INT8, INT16_LO, INT16_HI, INT32_B0, INT32_B1, INT32_B2, INT32_B3, STRING, FIX24
//
// Keeping bytes of the same significance together makes each plane highly repetitive, which
// is what the downstream compressor feeds on. Composite values (points, rectangles, vectors)
// are written as their scalar fields in declaration order, with no framing, and raw blocks
// are a 16-bit count followed by the bytes in the INT8 plane.
//
// # Final Script
//
// Writer.FinalScript assembles the planes into one blob: for every plane in order, a
// little-endian uint32 length followed by the plane bytes. NewReader slices the same blob
// back into zero-copy plane views:
//
//	w, _ := stream.NewWriter()
//	defer w.Finish()
//	w.WriteU8(7)
//	w.WriteU32(1000000)
//	w.WriteFloat(1.5)
//	script, _ := w.FinalScript()
//
//	r, _ := stream.NewReader(script)
//	a, b, c := r.ReadU8(), r.ReadU32(), r.ReadFloat()
//
// # Call Order
//
// The format is positional and untyped: readers must issue exactly the writer's call
// sequence. A Schema shared by both sides (WithSchema) detects divergence without changing
// the bytes on the wire.
package stream
