// Package holocodec implements the holographic chunk codec: the
// coarse/residual construction for each media kind (C1), the chunk
// serializer (C2), the partial reassembler (C3), and the mode dispatcher
// (C4). The only polymorphism in the package is Kind, a plain enum over
// Image/Audio/Binary dispatched by file extension on encode and by chunk
// magic on decode. A Kind value carries no per-kind state; the per-kind
// parameters live in ImageParams, AudioParams and BinaryParams.
package holocodec

import (
	"path/filepath"
	"strings"

	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/holofmt"
)

// Kind tags which codec path a file or chunk belongs to.
type Kind int

const (
	KindBinary Kind = iota
	KindImage
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	default:
		return "binary"
	}
}

// KindForExt dispatches by file extension (C4, encode side). Anything not
// recognized as image or audio falls back to Binary — a silent fallback,
// not an error, per the error taxonomy.
func KindForExt(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if holofmt.ImageExtensions[ext] {
		return KindImage
	}
	if holofmt.AudioExtensions[ext] {
		return KindAudio
	}
	return KindBinary
}

// KindForMagic dispatches by chunk magic (C4, decode side).
func KindForMagic(magic string) (Kind, error) {
	switch magic {
	case holofmt.MagicImage:
		return KindImage, nil
	case holofmt.MagicAudio:
		return KindAudio, nil
	case holofmt.MagicBinary:
		return KindBinary, nil
	default:
		return 0, holoerr.ErrFormat
	}
}
