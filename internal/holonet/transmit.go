package holonet

import (
	"fmt"
	"math"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/holofmt"
	"github.com/faanross/holocast/internal/secureoverlay"
)

// TransmitConfig tunes the UDP transmitter (§4.5).
type TransmitConfig struct {
	MaxPayload int
	Delay      time.Duration
	Loops      int
	Passphrase string // optional; enables the secureoverlay keystream (C12)
}

func (c *TransmitConfig) fillDefaults() {
	if c.MaxPayload <= 0 {
		c.MaxPayload = holofmt.DefaultMaxPayload
	}
	if c.Loops <= 0 {
		c.Loops = holofmt.DefaultLoops
	}
}

// Send streams every chunk_*.holo file in dir to host:port, looping
// cfg.Loops times in freshly shuffled order each pass, then deletes dir.
// The transmitter is fire-and-forget: no acks, no retries (§4.5).
func Send(dir, fileName, host string, port int, cfg TransmitConfig) error {
	cfg.fillDefaults()
	if cfg.MaxPayload <= holofmt.HeaderSize {
		return fmt.Errorf("holonet: %w: max payload %d must exceed header size %d", holoerr.ErrBadInput, cfg.MaxPayload, holofmt.HeaderSize)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "chunk_*.holo"))
	if err != nil {
		return fmt.Errorf("holonet: glob chunks: %w", err)
	}
	sort.Strings(paths)
	n := len(paths)
	if n == 0 {
		return fmt.Errorf("holonet: %w: no chunks to send in %s", holoerr.ErrBadInput, dir)
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return fmt.Errorf("holonet: dial %s: %w", addr, err)
	}
	defer conn.Close()

	transferID := randomNonzeroU32()

	var key []byte
	if cfg.Passphrase != "" {
		key = secureoverlay.DeriveKey([]byte(cfg.Passphrase), transferID)
	}

	segPayloadSize := cfg.MaxPayload - holofmt.HeaderSize

	for loop := 0; loop < cfg.Loops; loop++ {
		metaHeader := WireHeader{PktType: holofmt.PktMeta, TransferID: transferID, TotalChunks: uint32(n)}
		if _, err := conn.Write(append(metaHeader.Marshal(), []byte(fileName)...)); err != nil {
			return fmt.Errorf("holonet: send meta: %w", err)
		}

		indices := rand.Perm(n)
		for _, idx := range indices {
			chunkBytes, err := os.ReadFile(paths[idx])
			if err != nil {
				return fmt.Errorf("holonet: read %s: %w", paths[idx], err)
			}

			totalSegments := int(math.Ceil(float64(len(chunkBytes)) / float64(segPayloadSize)))
			if totalSegments == 0 {
				totalSegments = 1
			}

			for seg := 0; seg < totalSegments; seg++ {
				start := seg * segPayloadSize
				end := start + segPayloadSize
				if end > len(chunkBytes) {
					end = len(chunkBytes)
				}
				payload := chunkBytes[start:end]
				if key != nil {
					payload = secureoverlay.Keystream(key, uint64(idx)<<32|uint64(seg), payload)
				}

				dh := WireHeader{
					PktType:       holofmt.PktData,
					TransferID:    transferID,
					TotalChunks:   uint32(n),
					ChunkIndex:    uint32(idx),
					SegmentIndex:  uint16(seg),
					TotalSegments: uint16(totalSegments),
				}
				datagram := append(dh.Marshal(), payload...)
				if _, err := conn.Write(datagram); err != nil {
					return fmt.Errorf("holonet: send data chunk=%d seg=%d: %w", idx, seg, err)
				}
				if cfg.Delay > 0 {
					time.Sleep(cfg.Delay)
				}
			}
		}
	}

	return os.RemoveAll(dir)
}

func randomNonzeroU32() uint32 {
	for {
		v := rand.Uint32()
		if v != 0 {
			return v
		}
	}
}
