package holonet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/faanross/holocast/internal/holocodec"
)

func TestSendRun_EndToEndOverLoopbackUDP(t *testing.T) {
	srcDir := t.TempDir()
	data := []byte("a small file sent over loopback UDP, chunked and reassembled")
	srcPath := filepath.Join(srcDir, "message.bin")
	require.NoError(t, os.WriteFile(srcPath, data, 0o644))

	chunkDir := t.TempDir()
	require.NoError(t, holocodec.Encode(srcPath, chunkDir, holocodec.EncodeConfig{N: 4}))

	outDir := t.TempDir()
	const port = 18421

	done := make(chan error, 1)
	go func() {
		done <- Run(ReceiveConfig{
			Port:        port,
			BaseDir:     outDir,
			IdleTimeout: 400 * time.Millisecond,
			DecodeMode:  "best",
		})
	}()
	time.Sleep(100 * time.Millisecond) // let the listener bind before sending

	err := Send(chunkDir, "message.bin", "127.0.0.1", port, TransmitConfig{
		Loops: 1,
	})
	require.NoError(t, err)

	require.NoError(t, <-done)

	got, err := os.ReadFile(filepath.Join(outDir, "message.bin"))
	require.NoError(t, err)
	require.Equal(t, data, got)
}
