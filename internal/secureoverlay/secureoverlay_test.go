package secureoverlay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeystream_SymmetricRoundTrip(t *testing.T) {
	key := DeriveKey([]byte("correct horse battery staple"), 12345)
	plain := []byte("the residual stripe for block 3, segment 1")

	cipher := Keystream(key, 0x0003_0001, plain)
	require.NotEqual(t, plain, cipher)

	back := Keystream(key, 0x0003_0001, cipher)
	require.Equal(t, plain, back)
}

func TestKeystream_DifferentCountersDifferentCiphertext(t *testing.T) {
	key := DeriveKey([]byte("passphrase"), 1)
	plain := []byte("identical payload bytes across two counters")

	a := Keystream(key, 1, plain)
	b := Keystream(key, 2, plain)
	require.NotEqual(t, a, b)
}

func TestDeriveKey_DifferentTransferIDsDifferentKeys(t *testing.T) {
	a := DeriveKey([]byte("passphrase"), 1)
	b := DeriveKey([]byte("passphrase"), 2)
	require.NotEqual(t, a, b)
	require.Len(t, a, keySize)
}
