package holocodec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/faanross/holocast/internal/audioio"
	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/imageio"
)

// DecodeResult carries whichever media was reconstructed, plus how much of
// the transfer was actually present (ChunksPresent out of N). The
// receiver's strict/best decode modes (§4.6) do not read these fields; they
// count completed chunks before calling Decode.
type DecodeResult struct {
	Kind          Kind
	Image         *imageio.RGB
	Audio         *audioio.PCM
	Binary        []byte
	ChunksPresent int
	N             int
}

// Decode enumerates chunk_*.holo in dir (lexicographic order, §4.3),
// truncates to maxChunks if maxChunks > 0, and reconstructs whatever signal
// the available chunks support. Permuting the chunk files on disk does not
// change the result (invariant #6): every chunk scatters into its own
// block_id slot regardless of read order.
func Decode(dir string, maxChunks int) (*DecodeResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "chunk_*.holo"))
	if err != nil {
		return nil, fmt.Errorf("holocodec: glob chunks: %w", err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("holocodec: %w: empty chunk directory", holoerr.ErrBadInput)
	}
	if maxChunks > 0 && len(paths) > maxChunks {
		paths = paths[:maxChunks]
	}

	raws := make([][]byte, len(paths))
	for i, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("holocodec: read %s: %w", p, err)
		}
		raws[i] = b
	}

	if len(raws[0]) < 4 {
		return nil, fmt.Errorf("holocodec: %w: first chunk too small to carry a magic", holoerr.ErrFormat)
	}
	kind, err := KindForMagic(string(raws[0][:4]))
	if err != nil {
		return nil, fmt.Errorf("holocodec: %w: unknown magic in first chunk", holoerr.ErrFormat)
	}

	switch kind {
	case KindImage:
		return decodeImageChunks(raws)
	case KindAudio:
		return decodeAudioChunks(raws)
	default:
		return decodeBinaryChunks(raws)
	}
}

func decodeImageChunks(raws [][]byte) (*DecodeResult, error) {
	var seed *imageHeader
	var coarseUp []int16
	var residual []int16
	seen := map[int]bool{}

	for _, raw := range raws {
		if len(raw) < imageHeaderSize {
			return nil, fmt.Errorf("holocodec: %w: image chunk truncated", holoerr.ErrFormat)
		}
		hdr, err := parseImageHeader(raw)
		if err != nil {
			return nil, err
		}

		if seed == nil {
			seed = hdr
			coarseBytes := sliceAfterHeader(raw, imageHeaderSize, hdr.CoarseLen)
			up, err := upsampleImageCoarse(coarseBytes, hdr.W, hdr.H)
			if err != nil {
				return nil, err
			}
			coarseUp = up
			residual = make([]int16, hdr.H*hdr.W*hdr.C)
		} else if hdr.H != seed.H || hdr.W != seed.W || hdr.C != seed.C || hdr.N != seed.N {
			return nil, fmt.Errorf("holocodec: %w: image chunk parameters disagree with first chunk", holoerr.ErrFormat)
		}

		residStart := imageHeaderSize + hdr.CoarseLen
		residBytes := sliceAt(raw, residStart, hdr.ResidLen)
		stripe, err := inflate(residBytes)
		if err != nil {
			return nil, err
		}
		stripeScatterI16(residual, leBytesToInt16(stripe), hdr.BlockID, seed.N)
		seen[hdr.BlockID] = true
	}

	rgb := reconstructImage(seed.W, seed.H, coarseUp, residual)
	return &DecodeResult{Kind: KindImage, Image: rgb, ChunksPresent: len(seen), N: seed.N}, nil
}

func decodeAudioChunks(raws [][]byte) (*DecodeResult, error) {
	var seed *audioHeader
	var coarseUp []int16
	var residual []int16
	seen := map[int]bool{}

	for _, raw := range raws {
		if len(raw) < audioHeaderSize {
			return nil, fmt.Errorf("holocodec: %w: audio chunk truncated", holoerr.ErrFormat)
		}
		hdr, err := parseAudioHeader(raw)
		if err != nil {
			return nil, err
		}

		if seed == nil {
			seed = hdr
			coarseBytes := sliceAfterHeader(raw, audioHeaderSize, hdr.CoarseSize)
			coarseRaw, err := inflate(coarseBytes)
			if err != nil {
				return nil, err
			}
			coarse := leBytesToInt16(coarseRaw)
			coarseUp = upsampleAudioCoarse(coarse, hdr.Channels, hdr.CoarseLen, hdr.NFrames)
			residual = make([]int16, hdr.NFrames*hdr.Channels)
		} else if hdr.Channels != seed.Channels || hdr.SampleRate != seed.SampleRate ||
			hdr.NFrames != seed.NFrames || hdr.N != seed.N || hdr.CoarseLen != seed.CoarseLen {
			return nil, fmt.Errorf("holocodec: %w: audio chunk parameters disagree with first chunk", holoerr.ErrFormat)
		}

		residStart := audioHeaderSize + hdr.CoarseSize
		residBytes := sliceAt(raw, residStart, hdr.ResidSize)
		stripe, err := inflate(residBytes)
		if err != nil {
			return nil, err
		}
		stripeScatterI16(residual, leBytesToInt16(stripe), hdr.BlockID, seed.N)
		seen[hdr.BlockID] = true
	}

	samples := reconstructAudio(coarseUp, residual)
	pcm := &audioio.PCM{
		Channels:   seed.Channels,
		SampleRate: seed.SampleRate,
		NFrames:    seed.NFrames,
		Samples:    samples,
	}
	return &DecodeResult{Kind: KindAudio, Audio: pcm, ChunksPresent: len(seen), N: seed.N}, nil
}

func decodeBinaryChunks(raws [][]byte) (*DecodeResult, error) {
	var seed *binaryHeader
	var coarse []byte
	var residual []byte
	seen := map[int]bool{}

	for _, raw := range raws {
		if len(raw) < binaryHeaderSize {
			return nil, fmt.Errorf("holocodec: %w: binary chunk truncated", holoerr.ErrFormat)
		}
		hdr, err := parseBinaryHeader(raw)
		if err != nil {
			return nil, err
		}

		if seed == nil {
			seed = hdr
			coarseBytes := sliceAfterHeader(raw, binaryHeaderSize, hdr.CoarseSize)
			c, err := inflate(coarseBytes)
			if err != nil {
				return nil, err
			}
			coarse = c
			residual = make([]byte, int(hdr.L)-hdr.CoarseLen)
		} else if hdr.L != seed.L || hdr.N != seed.N || hdr.CoarseLen != seed.CoarseLen {
			return nil, fmt.Errorf("holocodec: %w: binary chunk parameters disagree with first chunk", holoerr.ErrFormat)
		}

		residStart := binaryHeaderSize + hdr.CoarseSize
		residBytes := sliceAt(raw, residStart, hdr.ResidSize)
		stripe, err := inflate(residBytes)
		if err != nil {
			return nil, err
		}
		stripeScatterByte(residual, stripe, hdr.BlockID, seed.N)
		seen[hdr.BlockID] = true
	}

	out := reconstructBinary(coarse, residual)
	return &DecodeResult{Kind: KindBinary, Binary: out, ChunksPresent: len(seen), N: seed.N}, nil
}

func sliceAfterHeader(raw []byte, headerSize, length int) []byte {
	return sliceAt(raw, headerSize, length)
}

func sliceAt(raw []byte, start, length int) []byte {
	end := start + length
	if end > len(raw) {
		end = len(raw)
	}
	if start > len(raw) {
		start = len(raw)
	}
	return raw[start:end]
}
