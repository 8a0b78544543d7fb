package holocodec

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/imageio"
)

func makeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rgb := &imageio.RGB{W: w, H: h, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := rgb.At(x, y)
			rgb.Pix[o+0] = uint8((x * 255) / w)
			rgb.Pix[o+1] = uint8((y * 255) / h)
			rgb.Pix[o+2] = uint8((x + y) % 256)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imageio.EncodePNG(&buf, rgb))
	return buf.Bytes()
}

func TestEncodeDecodeImage_FullSetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	png := makeTestPNG(t, 48, 32)
	src := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(src, png, 0o644))

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 3, CoarseMaxSide: 16}))

	result, err := Decode(chunkDir, 0)
	require.NoError(t, err)
	require.Equal(t, KindImage, result.Kind)
	require.Equal(t, 3, result.ChunksPresent)
	require.Equal(t, 48, result.Image.W)
	require.Equal(t, 32, result.Image.H)
	require.Len(t, result.Image.Pix, 48*32*3)

	// coarse_up is recomputed at decode time with the same resize routine
	// used at encode time, so residual + coarse_up reproduces the source
	// pixel-for-pixel when every chunk is present (invariant #2).
	original, err := imageio.DecodePNGBlob(png)
	require.NoError(t, err)
	require.Equal(t, original.Pix, result.Image.Pix)
}

func TestEncodeDecodeImage_MismatchedChunkParamsRejected(t *testing.T) {
	dir := t.TempDir()
	png := makeTestPNG(t, 32, 32)
	src := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(src, png, 0o644))

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 3, CoarseMaxSide: 16}))

	// Doctor the second chunk's N field (header offset 14, 4 bytes) so its
	// global parameters disagree with the first chunk's.
	corruptHeaderU32(t, chunkPath(chunkDir, 1), 14, 99)

	_, err := Decode(chunkDir, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, holoerr.ErrFormat)
}

func TestEncodeDecodeImage_PartialSetStillProducesFullSizedImage(t *testing.T) {
	dir := t.TempDir()
	png := makeTestPNG(t, 40, 40)
	src := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(src, png, 0o644))

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 5, CoarseMaxSide: 16}))
	require.NoError(t, os.Remove(chunkPath(chunkDir, 1)))
	require.NoError(t, os.Remove(chunkPath(chunkDir, 3)))

	result, err := Decode(chunkDir, 0)
	require.NoError(t, err)
	require.Equal(t, 3, result.ChunksPresent)
	require.Equal(t, 5, result.N)
	// Missing residual blocks degrade quality, not dimensions: a coherent
	// (if blurrier) image is always recoverable from the coarse thumbnail.
	require.Len(t, result.Image.Pix, 40*40*3)
}
