// Package container wraps final stream scripts into distributable packages.
//
// A stream script carries no integrity information: reading a damaged or mismatched script
// silently yields wrong values. A container adds a fixed 24-byte header with a magic number,
// sizes and an xxHash64 checksum of the script, and optionally compresses the script with one
// of the codecs from package compress.
//
// # Usage
//
//	script, _ := w.FinalScript()
//	pkg, err := container.Pack(script, container.WithCompression(format.CompressionZstd))
//	...
//	script, err = container.Unpack(pkg)
//	r, err := stream.NewReader(script)
//
// Inspect reads only the header, which is enough to report sizes and compression savings.
package container
