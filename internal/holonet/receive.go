package holonet

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/faanross/holocast/internal/holocodec"
	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/holofmt"
	"github.com/faanross/holocast/internal/secureoverlay"
)

// ReceiveConfig tunes the UDP receiver (§4.6).
type ReceiveConfig struct {
	Port        int
	BaseDir     string
	IdleTimeout time.Duration // 0 disables — never give up
	MaxPayload  int
	DecodeMode  string // "strict" or "best"
	Passphrase  string
}

func (c *ReceiveConfig) fillDefaults() {
	if c.MaxPayload <= 0 {
		c.MaxPayload = holofmt.DefaultRxMaxPayload
	}
	if c.DecodeMode == "" {
		c.DecodeMode = "best"
	}
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
}

type chunkAssembly struct {
	totalSegments uint16
	segments      map[uint16][]byte
	complete      bool
}

// transferState is the receiver's single in-flight transfer (§4.6,
// §9 "Global mutable state" — owned exclusively by the receive loop, never
// process-wide).
type transferState struct {
	transferID uint32
	n          int
	fileName   string
	dir        string
	key        []byte
	chunks     map[uint32]*chunkAssembly
}

// Run listens on cfg.Port, reassembles incoming chunks until cfg.IdleTimeout
// elapses with no traffic, then invokes the decoder per cfg.DecodeMode.
func Run(cfg ReceiveConfig) error {
	cfg.fillDefaults()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: cfg.Port})
	if err != nil {
		return fmt.Errorf("holonet: listen udp :%d: %w", cfg.Port, err)
	}
	defer conn.Close()

	buf := make([]byte, cfg.MaxPayload)
	var state *transferState
	lastPacket := time.Now()

	for {
		if cfg.IdleTimeout > 0 && time.Since(lastPacket) > cfg.IdleTimeout {
			break
		}

		conn.SetReadDeadline(time.Now().Add(holofmt.SocketReadTimeout * time.Second))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("holonet: recv: %w", err)
		}
		lastPacket = time.Now()

		hdr, payload, err := unmarshalHeader(buf[:n])
		if err != nil {
			continue // TransportError: silently drop (§7)
		}

		state = bindTransfer(state, hdr, cfg.BaseDir, cfg.Passphrase)

		switch hdr.PktType {
		case holofmt.PktMeta:
			handleMeta(state, payload)
		case holofmt.PktData:
			handleData(state, hdr, payload)
		default:
			continue
		}
	}

	if state == nil {
		return nil
	}
	return finishTransfer(state, cfg)
}

// bindTransfer implements §4.6 step 5: a fresh or differing transfer_id
// replaces any in-progress transfer outright — there is no multi-transfer
// concurrency (§9 open question #2).
func bindTransfer(state *transferState, hdr WireHeader, baseDir, passphrase string) *transferState {
	if state != nil && state.transferID == hdr.TransferID {
		if state.n == 0 && hdr.TotalChunks > 0 {
			state.n = int(hdr.TotalChunks)
		}
		return state
	}

	dir := filepath.Join(baseDir, fmt.Sprintf("transfer_%d.holo", hdr.TransferID))
	os.RemoveAll(dir)
	os.MkdirAll(dir, 0o755)

	var key []byte
	if passphrase != "" {
		key = secureoverlay.DeriveKey([]byte(passphrase), hdr.TransferID)
	}

	s := &transferState{
		transferID: hdr.TransferID,
		dir:        dir,
		key:        key,
		chunks:     map[uint32]*chunkAssembly{},
	}
	if hdr.TotalChunks > 0 {
		s.n = int(hdr.TotalChunks)
	}
	return s
}

// handleMeta implements §4.6 step 6: set the filename and rename the
// transfer directory to match it, wiping any existing same-name directory.
func handleMeta(state *transferState, payload []byte) {
	name := filepath.Base(trimTrailingNulls(string(payload)))
	if name == "" || name == "." {
		return
	}
	state.fileName = name

	newDir := filepath.Join(filepath.Dir(state.dir), name+".holo")
	if newDir != state.dir {
		os.RemoveAll(newDir)
		if err := os.Rename(state.dir, newDir); err == nil {
			state.dir = newDir
		}
	}
}

func trimTrailingNulls(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == 0 {
		i--
	}
	return s[:i]
}

// handleData implements §4.6 step 7: accumulate segments, first-writer-wins
// on a disagreeing total_segments, dedupe on segment_index, and flush to
// disk once every segment of a chunk has arrived.
func handleData(state *transferState, hdr WireHeader, payload []byte) {
	asm, ok := state.chunks[hdr.ChunkIndex]
	if !ok {
		asm = &chunkAssembly{totalSegments: hdr.TotalSegments, segments: map[uint16][]byte{}}
		state.chunks[hdr.ChunkIndex] = asm
	}
	if asm.complete {
		return
	}
	if asm.totalSegments != hdr.TotalSegments {
		return // disagreement with the first writer for this chunk
	}
	if _, dup := asm.segments[hdr.SegmentIndex]; dup {
		return
	}

	clear := payload
	if state.key != nil {
		clear = secureoverlay.Keystream(state.key, uint64(hdr.ChunkIndex)<<32|uint64(hdr.SegmentIndex), payload)
	}
	buf := make([]byte, len(clear))
	copy(buf, clear)
	asm.segments[hdr.SegmentIndex] = buf

	if uint16(len(asm.segments)) != asm.totalSegments {
		return
	}

	ordered := make([]uint16, 0, len(asm.segments))
	for seg := range asm.segments {
		ordered = append(ordered, seg)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	var full []byte
	for _, seg := range ordered {
		full = append(full, asm.segments[seg]...)
	}

	path := filepath.Join(state.dir, fmt.Sprintf("chunk_%04d.holo", hdr.ChunkIndex))
	if err := os.WriteFile(path, full, 0o644); err != nil {
		return
	}
	asm.complete = true
}

func completeCount(state *transferState) int {
	c := 0
	for _, asm := range state.chunks {
		if asm.complete {
			c++
		}
	}
	return c
}

// finishTransfer runs the decoder per cfg.DecodeMode once the receive loop
// has gone idle (§4.6, end of loop).
func finishTransfer(state *transferState, cfg ReceiveConfig) error {
	complete := completeCount(state)

	if cfg.DecodeMode == "strict" && (state.n == 0 || complete != state.n) {
		return fmt.Errorf("holonet: %w: strict decode needs %d chunks, have %d", holoerr.ErrPartialData, state.n, complete)
	}
	if complete == 0 {
		return fmt.Errorf("holonet: %w: no complete chunks received", holoerr.ErrPartialData)
	}

	result, err := holocodec.Decode(state.dir, 0)
	if err != nil {
		return err
	}

	outName := state.fileName
	if outName == "" {
		outName = fmt.Sprintf("transfer_%d.out", state.transferID)
	}
	outPath := filepath.Join(cfg.BaseDir, outName)
	if err := holocodec.WriteResult(result, outPath); err != nil {
		return err
	}

	return os.RemoveAll(state.dir)
}
