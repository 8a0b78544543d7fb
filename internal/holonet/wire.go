// Package holonet implements the UDP transport: the transmitter that
// segments and shuffles chunks across redundancy loops (C5), and the
// receiver that reassembles segments and triggers decode on idle (C6).
package holonet

import (
	"encoding/binary"
	"fmt"

	"github.com/faanross/holocast/internal/holoerr"
	"github.com/faanross/holocast/internal/holofmt"
)

// WireHeader is the header on every UDP datagram (§6.2).
type WireHeader struct {
	PktType       byte
	TransferID    uint32
	TotalChunks   uint32
	ChunkIndex    uint32
	SegmentIndex  uint16
	TotalSegments uint16
}

// Marshal packs h into the fixed wire layout.
func (h WireHeader) Marshal() []byte {
	b := make([]byte, holofmt.HeaderSize)
	copy(b[0:4], holofmt.MagicWire)
	b[4] = holofmt.WireVersion
	b[5] = h.PktType
	binary.BigEndian.PutUint32(b[6:10], h.TransferID)
	binary.BigEndian.PutUint32(b[10:14], h.TotalChunks)
	binary.BigEndian.PutUint32(b[14:18], h.ChunkIndex)
	binary.BigEndian.PutUint16(b[18:20], h.SegmentIndex)
	binary.BigEndian.PutUint16(b[20:22], h.TotalSegments)
	return b
}

// unmarshalHeader parses the wire header from a datagram, validating magic
// and version. A malformed header is a TransportError (§7): callers must
// silently drop the datagram rather than propagate the error.
func unmarshalHeader(b []byte) (WireHeader, []byte, error) {
	if len(b) < holofmt.HeaderSize {
		return WireHeader{}, nil, fmt.Errorf("holonet: %w: datagram shorter than header", holoerr.ErrTransport)
	}
	if string(b[0:4]) != holofmt.MagicWire {
		return WireHeader{}, nil, fmt.Errorf("holonet: %w: bad wire magic", holoerr.ErrTransport)
	}
	if b[4] != holofmt.WireVersion {
		return WireHeader{}, nil, fmt.Errorf("holonet: %w: unsupported wire version %d", holoerr.ErrTransport, b[4])
	}
	h := WireHeader{
		PktType:       b[5],
		TransferID:    binary.BigEndian.Uint32(b[6:10]),
		TotalChunks:   binary.BigEndian.Uint32(b[10:14]),
		ChunkIndex:    binary.BigEndian.Uint32(b[14:18]),
		SegmentIndex:  binary.BigEndian.Uint16(b[18:20]),
		TotalSegments: binary.BigEndian.Uint16(b[20:22]),
	}
	return h, b[holofmt.HeaderSize:], nil
}
