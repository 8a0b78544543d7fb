package holocodec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/faanross/holocast/internal/holoerr"
)

// deflate zlib-compresses data at the given level. Grounded on the pack's
// raw-zlib-stream usage in kelindar-ultima-sdk/internal/uop (decodeZlib),
// the one example repo that speaks zlib rather than gzip.
func deflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("holocodec: zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("holocodec: zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("holocodec: zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

// inflate decompresses a raw zlib stream.
func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("holocodec: %w: zlib reader: %v", holoerr.ErrFormat, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("holocodec: %w: zlib read: %v", holoerr.ErrFormat, err)
	}
	return out, nil
}
