// Package audioio adapts github.com/jonchammer/audio-io/wave into the plain
// int16 PCM frame arrays the holographic audio codec operates on. 24-bit
// source files are downshifted to 16-bit range; wave.ReadInt24 already
// performs the sign-extension trick (see wave/io.go) before this package's
// arithmetic shift-right by 8.
package audioio

import (
	"fmt"
	"io"

	"github.com/jonchammer/audio-io/wave"
	"github.com/faanross/holocast/internal/holoerr"
)

// PCM is interleaved 16-bit PCM audio: Frames rows of Channels samples each,
// flattened [frame*Channels + ch].
type PCM struct {
	Channels   int
	SampleRate uint32
	NFrames    int
	Samples    []int16 // len == NFrames*Channels
}

// Read decodes a WAV file's audio data into 16-bit PCM, downshifting 24-bit
// sources. Any other bit depth is rejected as ErrBadInput.
func Read(r io.ReadSeeker) (*PCM, error) {
	rd := wave.NewReader(r)
	header, err := rd.Header()
	if err != nil {
		return nil, fmt.Errorf("audioio: read header: %w", err)
	}

	st, err := header.SampleType()
	if err != nil {
		return nil, fmt.Errorf("audioio: %w: %v", holoerr.ErrBadInput, err)
	}

	ch := int(header.ChannelCount())
	n := int(header.FrameCount())
	total := n * ch

	pcm := &PCM{Channels: ch, SampleRate: header.FrameRate(), NFrames: n, Samples: make([]int16, total)}

	switch st {
	case wave.SampleTypeInt16:
		if _, err := rd.ReadInt16(pcm.Samples); err != nil && err != io.EOF {
			return nil, fmt.Errorf("audioio: read int16 samples: %w", err)
		}
	case wave.SampleTypeInt24:
		raw := make([]int32, total)
		if _, err := rd.ReadInt24(raw); err != nil && err != io.EOF {
			return nil, fmt.Errorf("audioio: read int24 samples: %w", err)
		}
		for i, v := range raw {
			pcm.Samples[i] = int16(v >> 8)
		}
	default:
		return nil, fmt.Errorf("audioio: %w: unsupported wav sample width (want 16 or 24 bit PCM)", holoerr.ErrBadInput)
	}

	return pcm, nil
}

// Write encodes pcm as a 16-bit PCM WAV file.
func Write(w io.WriteSeeker, pcm *PCM) error {
	wr, err := wave.NewWriter(w, wave.SampleTypeInt16, pcm.SampleRate, wave.WithChannelCount(uint16(pcm.Channels)))
	if err != nil {
		return fmt.Errorf("audioio: new writer: %w", err)
	}
	if err := wr.WriteInterleavedInt16(pcm.Samples); err != nil {
		return fmt.Errorf("audioio: write samples: %w", err)
	}
	if err := wr.Flush(); err != nil {
		return fmt.Errorf("audioio: flush: %w", err)
	}
	return nil
}
