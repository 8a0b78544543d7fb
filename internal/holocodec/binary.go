package holocodec

// BinaryParams are the global parameters every chunk of a binary transfer
// must agree on.
type BinaryParams struct {
	L         int64
	CoarseLen int
	N         int
}

type binaryCoarseResidual struct {
	Params   BinaryParams
	Coarse   []byte
	Residual []byte
}

// buildBinaryCoarseResidual splits data into a coarse prefix and the
// residual tail, per §4.1 "Binary path" — there is no arithmetic, the
// residual is simply whatever wasn't captured in the prefix.
func buildBinaryCoarseResidual(data []byte, coarseLen int) *binaryCoarseResidual {
	if coarseLen > len(data) {
		coarseLen = len(data)
	}
	coarse := make([]byte, coarseLen)
	copy(coarse, data[:coarseLen])
	residual := make([]byte, len(data)-coarseLen)
	copy(residual, data[coarseLen:])

	return &binaryCoarseResidual{
		Params:   BinaryParams{L: int64(len(data)), CoarseLen: coarseLen},
		Coarse:   coarse,
		Residual: residual,
	}
}

// reconstructBinary concatenates the coarse prefix with the recovered
// residual. Only valid when every chunk was present (§4.3).
func reconstructBinary(coarse, residual []byte) []byte {
	out := make([]byte, 0, len(coarse)+len(residual))
	out = append(out, coarse...)
	out = append(out, residual...)
	return out
}
