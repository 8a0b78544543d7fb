package holocodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildReconstructBinary_RoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, to pad this out")

	cr := buildBinaryCoarseResidual(data, 16)
	require.Equal(t, int64(len(data)), cr.Params.L)
	require.Equal(t, 16, cr.Params.CoarseLen)
	require.Len(t, cr.Coarse, 16)
	require.Len(t, cr.Residual, len(data)-16)

	out := reconstructBinary(cr.Coarse, cr.Residual)
	require.Equal(t, data, out)
}

func TestBuildBinaryCoarseResidual_CoarseLenClampedToDataLength(t *testing.T) {
	data := []byte("short")
	cr := buildBinaryCoarseResidual(data, 1024)

	require.Equal(t, len(data), cr.Params.CoarseLen)
	require.Equal(t, data, cr.Coarse)
	require.Empty(t, cr.Residual)
}
