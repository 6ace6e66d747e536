// Package compress is the notification payload codec: deterministic lossless
// zlib, invertible byte-for-byte. Faults come back wrapped in the shared
// taxonomy so write paths can abort instead of persisting plaintext.
package compress

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/OkayJosh/wrappai/internal/domain/errs"
)

// Compress encodes plain bytes with zlib at the default level. The level is
// fixed so the output is deterministic for a given input.
func Compress(plain []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("%w: init writer: %v", errs.ErrCompression, err)
	}
	if _, err := w.Write(plain); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: write: %v", errs.ErrCompression, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %v", errs.ErrCompression, err)
	}

	return buf.Bytes(), nil
}

// Decompress is the exact inverse of Compress. Corrupt or truncated input
// surfaces as ErrDecompression, never as an empty result.
func Decompress(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: open stream: %v", errs.ErrDecompression, err)
	}
	defer func() {
		_ = r.Close()
	}()

	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read stream: %v", errs.ErrDecompression, err)
	}

	return plain, nil
}
