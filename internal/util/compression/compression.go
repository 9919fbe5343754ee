// Package compression provides the codecs used to store archived content.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ForCodec returns the compressor registered under name.
func ForCodec(name string) (Compressor, error) {
	switch name {
	case "zstd", "":
		return ZstdCompressor{}, nil
	case "gzip":
		return GzipCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compression codec %q", name)
	}
}
