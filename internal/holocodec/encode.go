package holocodec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"

	"github.com/faanross/holocast/internal/audioio"
	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/holofmt"
	"github.com/faanross/holocast/internal/imageio"
)

// EncodeConfig tunes the coarse/residual construction and chunk count. Zero
// values fall back to the §4.1 defaults, mirroring the teacher's
// constructor-fills-in-zero-values convention (chunker.NewChunker).
type EncodeConfig struct {
	CoarseMaxSide   int // image
	CoarseMaxFrames int // audio
	CoarseLen       int // binary
	N               int // explicit chunk count; ignored if TargetChunkKB > 0
	TargetChunkKB   int // if > 0, recompute N per §4.1 "Target-size adjustment"
}

func (c *EncodeConfig) fillDefaults() {
	if c.CoarseMaxSide <= 0 {
		c.CoarseMaxSide = holofmt.DefaultCoarseMaxSide
	}
	if c.CoarseMaxFrames <= 0 {
		c.CoarseMaxFrames = holofmt.DefaultCoarseMaxFrames
	}
	if c.CoarseLen <= 0 {
		c.CoarseLen = holofmt.DefaultBinaryCoarseLen
	}
	// Neither an explicit chunk count nor a target size was requested:
	// fall back to DefaultChunkKB rather than collapsing to a single,
	// non-redundant chunk.
	if c.N < 1 && c.TargetChunkKB <= 0 {
		c.TargetChunkKB = holofmt.DefaultChunkKB
	}
	if c.N < 1 {
		c.N = 1
	}
}

// Encode reads sourcePath, dispatches on its extension (C4), and writes N
// holographic chunks into outDir (C1+C2).
func Encode(sourcePath, outDir string, cfg EncodeConfig) error {
	cfg.fillDefaults()

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("holocodec: %w: %v", holoerr.ErrBadInput, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("holocodec: %w: empty source file", holoerr.ErrBadInput)
	}

	switch KindForExt(sourcePath) {
	case KindImage:
		return encodeImage(sourcePath, data, outDir, cfg)
	case KindAudio:
		return encodeAudio(sourcePath, outDir, cfg)
	default:
		return encodeBinary(data, outDir, cfg)
	}
}

func encodeImage(sourcePath string, data []byte, outDir string, cfg EncodeConfig) error {
	rgb, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("holocodec: %w: %v", holoerr.ErrBadInput, err)
	}

	cr, err := buildImageCoarseResidual(rgb, cfg.CoarseMaxSide)
	if err != nil {
		return err
	}

	n := computeN(cfg.N, cfg.TargetChunkKB, len(cr.CoarseBytes), len(cr.Residual)*2, len(cr.Residual))
	cr.Params.N = n

	for b := 0; b < n; b++ {
		stripe := stripeExtractI16(cr.Residual, b, n)
		compressed, err := deflate(int16ToLEBytes(stripe), zlib.BestCompression)
		if err != nil {
			return err
		}
		header := packImageHeader(cr.Params, b, len(cr.CoarseBytes), len(compressed))
		if err := writeChunkFile(outDir, b, header, cr.CoarseBytes, compressed); err != nil {
			return err
		}
	}
	return nil
}

func encodeAudio(sourcePath, outDir string, cfg EncodeConfig) error {
	f, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("holocodec: %w: %v", holoerr.ErrBadInput, err)
	}
	defer f.Close()

	pcm, err := audioio.Read(f)
	if err != nil {
		return err
	}

	cr := buildAudioCoarseResidual(pcm, cfg.CoarseMaxFrames)

	coarseCompressed, err := deflate(int16ToLEBytes(cr.Coarse), zlib.BestCompression)
	if err != nil {
		return err
	}

	n := computeN(cfg.N, cfg.TargetChunkKB, len(coarseCompressed), len(cr.Residual)*2, len(cr.Residual))
	cr.Params.N = n

	for b := 0; b < n; b++ {
		stripe := stripeExtractI16(cr.Residual, b, n)
		residCompressed, err := deflate(int16ToLEBytes(stripe), zlib.BestCompression)
		if err != nil {
			return err
		}
		header := packAudioHeader(cr.Params, b, len(coarseCompressed), len(residCompressed))
		if err := writeChunkFile(outDir, b, header, coarseCompressed, residCompressed); err != nil {
			return err
		}
	}
	return nil
}

func encodeBinary(data []byte, outDir string, cfg EncodeConfig) error {
	cr := buildBinaryCoarseResidual(data, cfg.CoarseLen)

	coarseCompressed, err := deflate(cr.Coarse, zlib.BestCompression)
	if err != nil {
		return err
	}

	n := computeN(cfg.N, cfg.TargetChunkKB, len(coarseCompressed), len(cr.Residual), len(cr.Residual))
	cr.Params.N = n

	for b := 0; b < n; b++ {
		stripe := stripeExtractByte(cr.Residual, b, n)
		residCompressed, err := deflate(stripe, zlib.BestCompression)
		if err != nil {
			return err
		}
		header := packBinaryHeader(cr.Params, b, len(coarseCompressed), len(residCompressed))
		if err := writeChunkFile(outDir, b, header, coarseCompressed, residCompressed); err != nil {
			return err
		}
	}
	return nil
}
