package holocodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripeExtractScatterI16_RoundTrip(t *testing.T) {
	residual := []int16{10, -20, 30, -40, 50, -60, 70}
	const n = 3

	dst := make([]int16, len(residual))
	for b := 0; b < n; b++ {
		stripe := stripeExtractI16(residual, b, n)
		stripeScatterI16(dst, stripe, b, n)
	}

	require.Equal(t, residual, dst)
}

func TestStripeExtractI16_Partition(t *testing.T) {
	residual := make([]int16, 10)
	for i := range residual {
		residual[i] = int16(i)
	}
	const n = 4

	total := 0
	for b := 0; b < n; b++ {
		total += len(stripeExtractI16(residual, b, n))
	}
	require.Equal(t, len(residual), total, "every residual element belongs to exactly one stripe")
}

func TestStripeScatterByte_LeavesMissingBlocksZero(t *testing.T) {
	dst := make([]byte, 9)
	const n = 3

	stripeScatterByte(dst, []byte{1, 2, 3}, 0, n)
	// block 1 and 2 never arrive

	require.Equal(t, []byte{1, 0, 0, 2, 0, 0, 3, 0, 0}, dst)
}
