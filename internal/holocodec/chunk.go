package holocodec

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/holofmt"
)

// computeN applies the target-size adjustment from §4.1: recompute N so
// each chunk fits approximately within targetChunkKB KiB. residualElems is
// the element count of the full residual (int16 count for image/audio,
// byte count for binary); residualBytes is its size in bytes before
// per-stripe compression.
func computeN(explicitN, targetChunkKB, coarseCompressedLen, residualBytes, residualElems int) int {
	if targetChunkKB <= 0 {
		if explicitN < 1 {
			return 1
		}
		return explicitN
	}

	targetBytes := targetChunkKB * 1024
	if targetBytes < 1 {
		targetBytes = 1
	}

	overhead := coarseCompressedLen + holofmt.ChunkHeaderMargin
	if targetBytes <= overhead+1 {
		return 1
	}

	n := int(math.Ceil(float64(residualBytes) / float64(targetBytes-overhead)))
	if n < 1 {
		n = 1
	}
	if residualElems > 0 && n > residualElems {
		n = residualElems
	}
	return n
}

// --- header packing -------------------------------------------------------

func putU32(buf []byte, off int, v uint32) { binary.BigEndian.PutUint32(buf[off:off+4], v) }
func getU32(buf []byte) uint32             { return binary.BigEndian.Uint32(buf) }

const imageHeaderSize = 4 + 1 + 4 + 4 + 1 + 4 + 4 + 4 + 4 // 30
const audioHeaderSize = 4 + 1 + 1 + 1 + 1 + 4 + 4 + 4 + 4 + 4 + 4 + 4 // 36
const binaryHeaderSize = 4 + 1 + 8 + 4 + 4 + 4 + 4 + 4 // 33

func packImageHeader(p ImageParams, blockID, coarseLen, residLen int) []byte {
	h := make([]byte, imageHeaderSize)
	copy(h[0:4], holofmt.MagicImage)
	h[4] = holofmt.ChunkVersion
	putU32(h, 5, uint32(p.H))
	putU32(h, 9, uint32(p.W))
	h[13] = byte(p.C)
	putU32(h, 14, uint32(p.N))
	putU32(h, 18, uint32(blockID))
	putU32(h, 22, uint32(coarseLen))
	putU32(h, 26, uint32(residLen))
	return h
}

type imageHeader struct {
	H, W, C, N, BlockID, CoarseLen, ResidLen int
}

func parseImageHeader(b []byte) (*imageHeader, error) {
	if len(b) < imageHeaderSize {
		return nil, fmt.Errorf("holocodec: %w: image header truncated", holoerr.ErrFormat)
	}
	if string(b[0:4]) != holofmt.MagicImage {
		return nil, fmt.Errorf("holocodec: %w: bad image magic", holoerr.ErrFormat)
	}
	if b[4] != holofmt.ChunkVersion {
		return nil, fmt.Errorf("holocodec: %w: unsupported image chunk version %d", holoerr.ErrFormat, b[4])
	}
	return &imageHeader{
		H:         int(getU32(b[5:9])),
		W:         int(getU32(b[9:13])),
		C:         int(b[13]),
		N:         int(getU32(b[14:18])),
		BlockID:   int(getU32(b[18:22])),
		CoarseLen: int(getU32(b[22:26])),
		ResidLen:  int(getU32(b[26:30])),
	}, nil
}

func packAudioHeader(p AudioParams, blockID, coarseSize, residSize int) []byte {
	h := make([]byte, audioHeaderSize)
	copy(h[0:4], holofmt.MagicAudio)
	h[4] = holofmt.ChunkVersion
	h[5] = byte(p.Channels)
	h[6] = 2 // sampwidth, always 2 (16-bit)
	h[7] = 0 // pad
	putU32(h, 8, p.SampleRate)
	putU32(h, 12, uint32(p.NFrames))
	putU32(h, 16, uint32(p.N))
	putU32(h, 20, uint32(blockID))
	putU32(h, 24, uint32(p.CoarseLen))
	putU32(h, 28, uint32(coarseSize))
	putU32(h, 32, uint32(residSize))
	return h
}

type audioHeader struct {
	Channels, SampWidth          int
	SampleRate                   uint32
	NFrames, N, BlockID          int
	CoarseLen, CoarseSize, ResidSize int
}

func parseAudioHeader(b []byte) (*audioHeader, error) {
	if len(b) < audioHeaderSize {
		return nil, fmt.Errorf("holocodec: %w: audio header truncated", holoerr.ErrFormat)
	}
	if string(b[0:4]) != holofmt.MagicAudio {
		return nil, fmt.Errorf("holocodec: %w: bad audio magic", holoerr.ErrFormat)
	}
	if b[4] != holofmt.ChunkVersion {
		return nil, fmt.Errorf("holocodec: %w: unsupported audio chunk version %d", holoerr.ErrFormat, b[4])
	}
	return &audioHeader{
		Channels:   int(b[5]),
		SampWidth:  int(b[6]),
		SampleRate: getU32(b[8:12]),
		NFrames:    int(getU32(b[12:16])),
		N:          int(getU32(b[16:20])),
		BlockID:    int(getU32(b[20:24])),
		CoarseLen:  int(getU32(b[24:28])),
		CoarseSize: int(getU32(b[28:32])),
		ResidSize:  int(getU32(b[32:36])),
	}, nil
}

func packBinaryHeader(p BinaryParams, blockID, coarseSize, residSize int) []byte {
	h := make([]byte, binaryHeaderSize)
	copy(h[0:4], holofmt.MagicBinary)
	h[4] = holofmt.ChunkVersion
	binary.BigEndian.PutUint64(h[5:13], uint64(p.L))
	putU32(h, 13, uint32(p.N))
	putU32(h, 17, uint32(blockID))
	putU32(h, 21, uint32(p.CoarseLen))
	putU32(h, 25, uint32(coarseSize))
	putU32(h, 29, uint32(residSize))
	return h
}

type binaryHeader struct {
	L                            int64
	N, BlockID, CoarseLen        int
	CoarseSize, ResidSize        int
}

func parseBinaryHeader(b []byte) (*binaryHeader, error) {
	if len(b) < binaryHeaderSize {
		return nil, fmt.Errorf("holocodec: %w: binary header truncated", holoerr.ErrFormat)
	}
	if string(b[0:4]) != holofmt.MagicBinary {
		return nil, fmt.Errorf("holocodec: %w: bad binary magic", holoerr.ErrFormat)
	}
	if b[4] != holofmt.ChunkVersion {
		return nil, fmt.Errorf("holocodec: %w: unsupported binary chunk version %d", holoerr.ErrFormat, b[4])
	}
	return &binaryHeader{
		L:          int64(binary.BigEndian.Uint64(b[5:13])),
		N:          int(getU32(b[13:17])),
		BlockID:    int(getU32(b[17:21])),
		CoarseLen:  int(getU32(b[21:25])),
		CoarseSize: int(getU32(b[25:29])),
		ResidSize:  int(getU32(b[29:33])),
	}, nil
}

// chunkPath builds the write-once chunk filename, 4-digit zero-padded per
// §3 ("Ownership"). N may exceed 9999; the decoder reads block_id from the
// header, not the filename, so wider N never collides on read-back.
func chunkPath(outDir string, blockID int) string {
	return filepath.Join(outDir, fmt.Sprintf("chunk_%04d.holo", blockID))
}

func writeChunkFile(outDir string, blockID int, parts ...[]byte) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("holocodec: mkdir %s: %w", outDir, err)
	}
	f, err := os.Create(chunkPath(outDir, blockID))
	if err != nil {
		return fmt.Errorf("holocodec: create chunk file: %w", err)
	}
	defer f.Close()
	for _, p := range parts {
		if _, err := f.Write(p); err != nil {
			return fmt.Errorf("holocodec: write chunk file: %w", err)
		}
	}
	return nil
}

func int16ToLEBytes(v []int16) []byte {
	out := make([]byte, len(v)*2)
	for i, s := range v {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func leBytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}
