package holocodec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/faanross/holocast/internal/holoerr"
)

func writeSourceFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestEncodeDecodeBinary_FullSetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 5000)
	for i := range data {
		data[i] = byte(i * 7)
	}
	src := writeSourceFile(t, dir, "blob.bin", data)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 6}))

	entries, err := os.ReadDir(chunkDir)
	require.NoError(t, err)
	require.Len(t, entries, 6)

	result, err := Decode(chunkDir, 0)
	require.NoError(t, err)
	require.Equal(t, KindBinary, result.Kind)
	require.Equal(t, 6, result.ChunksPresent)
	require.Equal(t, 6, result.N)
	require.Equal(t, data, result.Binary)
}

func TestEncodeDecodeBinary_PartialSetReconstructsCoherentPrefix(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 4000)
	for i := range data {
		data[i] = byte(i)
	}
	src := writeSourceFile(t, dir, "blob.bin", data)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 4, CoarseLen: 512}))

	// Drop one block's chunk — only its residual stripe is unrecoverable;
	// the coarse prefix and the other stripes still decode.
	require.NoError(t, os.Remove(chunkPath(chunkDir, 2)))

	result, err := Decode(chunkDir, 0)
	require.NoError(t, err)
	require.Equal(t, 3, result.ChunksPresent)
	require.Equal(t, 4, result.N)
	require.Len(t, result.Binary, len(data))

	// The coarse prefix is always intact, regardless of which residual
	// blocks are missing.
	require.Equal(t, data[:512], result.Binary[:512])
}

func TestEncodeDecodeBinary_PermutingChunkFilesIsOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	data := []byte("order must not matter for reconstruction, only block_id does")
	src := writeSourceFile(t, dir, "blob.bin", data)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 5}))

	before, err := Decode(chunkDir, 0)
	require.NoError(t, err)

	// Swap block_id suffixes in reverse, keeping the chunk_XXXX.holo name
	// Decode's glob expects, so lexicographic read order no longer matches
	// block_id order.
	const n = 5
	tmp := chunkPath(chunkDir, n) // n is free — no block n-1 collides with it
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		require.NoError(t, os.Rename(chunkPath(chunkDir, i), tmp))
		require.NoError(t, os.Rename(chunkPath(chunkDir, j), chunkPath(chunkDir, i)))
		require.NoError(t, os.Rename(tmp, chunkPath(chunkDir, j)))
	}

	after, err := Decode(chunkDir, 0)
	require.NoError(t, err)
	require.Equal(t, before.Binary, after.Binary)
}

func TestEncodeDecodeBinary_MismatchedChunkParamsRejected(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 4000)
	src := writeSourceFile(t, dir, "blob.bin", data)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{N: 4, CoarseLen: 512}))

	// Doctor the second chunk's N field (header offset 13, 4 bytes) so its
	// global parameters disagree with the first chunk's.
	corruptHeaderU32(t, chunkPath(chunkDir, 1), 13, 99)

	_, err := Decode(chunkDir, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, holoerr.ErrFormat)
}

func TestEncodeDecodeBinary_TargetChunkKBDerivesN(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 200_000)
	src := writeSourceFile(t, dir, "blob.bin", data)

	chunkDir := filepath.Join(dir, "chunks")
	require.NoError(t, Encode(src, chunkDir, EncodeConfig{TargetChunkKB: 16}))

	entries, err := os.ReadDir(chunkDir)
	require.NoError(t, err)
	require.Greater(t, len(entries), 1, "200KB source at a 16KB target should split into multiple chunks")
}

func TestEncode_RejectsEmptySource(t *testing.T) {
	dir := t.TempDir()
	src := writeSourceFile(t, dir, "empty.bin", nil)

	err := Encode(src, filepath.Join(dir, "chunks"), EncodeConfig{})
	require.Error(t, err)
}

func TestDecode_RejectsEmptyChunkDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := Decode(dir, 0)
	require.Error(t, err)
}
