package holocodec

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/faanross/holocast/internal/audioio"
	"github.com/faanross/holocast/internal/holoerr"
)

func TestLinspace_MatchesEndpoints(t *testing.T) {
	out := linspace(0, 10, 5)
	require.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, out)
}

func TestLinspace_SingleValueIsStart(t *testing.T) {
	require.Equal(t, []float64{3}, linspace(3, 99, 1))
}

func TestClipInt16_SaturatesAtBounds(t *testing.T) {
	require.Equal(t, int16(32767), clipInt16(1e9))
	require.Equal(t, int16(-32768), clipInt16(-1e9))
	require.Equal(t, int16(42), clipInt16(42.4))
}

func makeTestWAV(t *testing.T, dir, name string, channels int, sampleRate uint32, nframes int) (string, *audioio.PCM) {
	t.Helper()
	samples := make([]int16, nframes*channels)
	for i := 0; i < nframes; i++ {
		v := int16(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = v
		}
	}
	pcm := &audioio.PCM{Channels: channels, SampleRate: sampleRate, NFrames: nframes, Samples: samples}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, audioio.Write(f, pcm))
	return path, pcm
}

func TestEncodeDecodeAudio_FullSetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src, original := makeTestWAV(t, dir, "tone.wav", 1, 8000, 4000)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 4, CoarseMaxFrames: 200}))

	result, err := Decode(chunkDir, 0)
	require.NoError(t, err)
	require.Equal(t, KindAudio, result.Kind)
	require.Equal(t, 4, result.ChunksPresent)
	require.Equal(t, 8000, int(result.Audio.SampleRate))
	require.Equal(t, 4000, result.Audio.NFrames)
	require.Len(t, result.Audio.Samples, 4000)

	// coarse_up is recomputed with the same linear-interpolation routine
	// used at encode time, so residual + coarse_up reproduces the source
	// sample-for-sample when every chunk is present (invariant #3).
	require.Equal(t, original.Samples, result.Audio.Samples)
}

func TestEncodeDecodeAudio_MismatchedChunkParamsRejected(t *testing.T) {
	dir := t.TempDir()
	src, _ := makeTestWAV(t, dir, "tone.wav", 1, 8000, 4000)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 4, CoarseMaxFrames: 200}))

	// Doctor the second chunk's N field (header offset 16, 4 bytes) so its
	// global parameters disagree with the first chunk's.
	corruptHeaderU32(t, chunkPath(chunkDir, 1), 16, 99)

	_, err := Decode(chunkDir, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, holoerr.ErrFormat)
}

func TestEncodeDecodeAudio_PartialSetPreservesFrameCount(t *testing.T) {
	dir := t.TempDir()
	src, _ := makeTestWAV(t, dir, "tone.wav", 2, 16000, 6000)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 6, CoarseMaxFrames: 300}))
	require.NoError(t, os.Remove(chunkPath(chunkDir, 2)))

	result, err := Decode(chunkDir, 0)
	require.NoError(t, err)
	require.Equal(t, 5, result.ChunksPresent)
	require.Equal(t, 2, result.Audio.Channels)
	require.Len(t, result.Audio.Samples, 6000*2)
}
