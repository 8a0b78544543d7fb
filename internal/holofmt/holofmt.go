// Package holofmt holds the wire-level constants shared by the encoder,
// decoder, and UDP transport: magic bytes, format versions, and the default
// tuning knobs for the coarse/residual split. Everything here is a literal
// constant pulled from the on-disk and on-wire layouts; no behavior lives in
// this package.
package holofmt

// Chunk magics, one per MediaKind. Read from the first 4 bytes of a chunk
// file to dispatch the decoder.
const (
	MagicImage  = "HOCH"
	MagicAudio  = "HOAU"
	MagicBinary = "HOBI"
)

// MagicWire identifies a UDP datagram belonging to this protocol.
const MagicWire = "HNET"

// ChunkVersion is the only supported chunk format version.
const ChunkVersion = 1

// WireVersion is the only supported UDP wire version.
const WireVersion = 1

// Packet types carried in the wire header.
const (
	PktMeta byte = 0
	PktData byte = 1
)

// HeaderSize is the fixed size, in bytes, of the UDP wire header (§6.2).
// The field table in §6.2 (magic 4 + version 1 + pkt_type 1 + transfer_id 4
// + total_chunks 4 + chunk_index 4 + segment_index 2 + total_segments 2)
// sums to 22, not the 20 the section's title states; this implementation
// trusts the field table — every field is load-bearing — and treats 22 as
// the real header size (see DESIGN.md).
const HeaderSize = 22

// Defaults for the coarse/residual construction (§4.1).
const (
	DefaultCoarseMaxSide   = 64   // image: longer side of the coarse thumbnail
	DefaultCoarseMaxFrames = 2048 // audio: cap on coarse frame count
	DefaultBinaryCoarseLen = 1024 // binary: coarse prefix length in bytes

	// ChunkHeaderMargin is the slack the target-size formula reserves for
	// header bytes beyond the coarse blob itself.
	ChunkHeaderMargin = 64
)

// Defaults for the transport (§4.5/§4.6).
const (
	DefaultLoops = 3

	// DefaultMaxPayload is the transmitter's MTU-safe datagram size.
	DefaultMaxPayload = 1400

	// DefaultRxMaxPayload sizes the receiver's read buffer to the largest
	// possible UDP datagram, independent of any given sender's payload
	// size — the receiver doesn't know the transmitter's MTU assumption
	// in advance, so it must be ready for the protocol maximum.
	DefaultRxMaxPayload = 65507

	DefaultIdleTimeout = 5 // seconds
	SocketReadTimeout  = 1 // seconds; the receiver's cooperative yield
)

// DefaultChunkKB is the target chunk size, in KB, used when neither an
// explicit chunk count nor target size is given — so an out-of-the-box
// transfer is already split into multiple holographic chunks rather than
// collapsing to N=1.
const DefaultChunkKB = 32

// ImageExtensions maps a lowercased file extension (including the leading
// dot) to true when it dispatches to the image codec path.
var ImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
}

// AudioExtensions maps a lowercased extension to true when it dispatches to
// the audio codec path.
var AudioExtensions = map[string]bool{
	".wav": true,
}
