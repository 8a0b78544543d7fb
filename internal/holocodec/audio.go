package holocodec

import (
	"github.com/faanross/holocast/internal/audioio"
)

// AudioParams are the global parameters every chunk of an audio transfer
// must agree on.
type AudioParams struct {
	Channels   int
	SampleRate uint32
	NFrames    int
	CoarseLen  int
	N          int
}

type audioCoarseResidual struct {
	Params   AudioParams
	Coarse   []int16 // shape (CoarseLen, Channels), interleaved
	CoarseUp []int16 // shape (NFrames, Channels), interleaved
	Residual []int16 // source - CoarseUp
}

// linspace mirrors numpy.linspace(start, end, num) for num >= 1.
func linspace(start, end float64, num int) []float64 {
	out := make([]float64, num)
	if num == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(num-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func roundToInt(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return -int(-f + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clipInt16(v float64) int16 {
	r := roundToInt(v)
	if r < -32768 {
		return -32768
	}
	if r > 32767 {
		return 32767
	}
	return int16(r)
}

// buildAudioCoarseResidual computes the evenly-sampled coarse signal and
// the linear-interpolation residual, per §4.1 "Audio path".
func buildAudioCoarseResidual(pcm *audioio.PCM, coarseMaxFrames int) *audioCoarseResidual {
	ch := pcm.Channels
	n := pcm.NFrames

	coarseLen := coarseMaxFrames
	if n < coarseLen {
		coarseLen = n
	}
	if coarseLen < 2 {
		coarseLen = 2
	}

	idxF := linspace(0, float64(n-1), coarseLen)
	coarse := make([]int16, coarseLen*ch)
	for i, f := range idxF {
		idx := clampInt(roundToInt(f), 0, n-1)
		copy(coarse[i*ch:(i+1)*ch], pcm.Samples[idx*ch:(idx+1)*ch])
	}

	tGrid := linspace(0, float64(coarseLen-1), n)
	coarseUp := make([]int16, n*ch)
	for i, t := range tGrid {
		k0 := int(t)
		if k0 < 0 {
			k0 = 0
		}
		k1 := k0 + 1
		if k1 > coarseLen-1 {
			k1 = coarseLen - 1
		}
		alpha := t - float64(k0)
		for cix := 0; cix < ch; cix++ {
			a := float64(coarse[k0*ch+cix])
			b := float64(coarse[k1*ch+cix])
			coarseUp[i*ch+cix] = clipInt16((1-alpha)*a + alpha*b)
		}
	}

	residual := make([]int16, n*ch)
	for i := range residual {
		residual[i] = int16(int32(pcm.Samples[i]) - int32(coarseUp[i]))
	}

	return &audioCoarseResidual{
		Params: AudioParams{
			Channels:   ch,
			SampleRate: pcm.SampleRate,
			NFrames:    n,
			CoarseLen:  coarseLen,
		},
		Coarse:   coarse,
		CoarseUp: coarseUp,
		Residual: residual,
	}
}

// upsampleAudioCoarse repeats the linear-interpolation step against a coarse
// buffer recovered from a chunk, used to seed the decoder's CoarseUp.
func upsampleAudioCoarse(coarse []int16, ch, coarseLen, n int) []int16 {
	tGrid := linspace(0, float64(coarseLen-1), n)
	coarseUp := make([]int16, n*ch)
	for i, t := range tGrid {
		k0 := int(t)
		if k0 < 0 {
			k0 = 0
		}
		k1 := k0 + 1
		if k1 > coarseLen-1 {
			k1 = coarseLen - 1
		}
		alpha := t - float64(k0)
		for cix := 0; cix < ch; cix++ {
			a := float64(coarse[k0*ch+cix])
			b := float64(coarse[k1*ch+cix])
			coarseUp[i*ch+cix] = clipInt16((1-alpha)*a + alpha*b)
		}
	}
	return coarseUp
}

// reconstructAudio clips coarseUp+residual to int16 range, per §4.3.
func reconstructAudio(coarseUp, residual []int16) []int16 {
	out := make([]int16, len(coarseUp))
	for i := range out {
		v := int32(coarseUp[i]) + int32(residual[i])
		if v < -32768 {
			v = -32768
		} else if v > 32767 {
			v = 32767
		}
		out[i] = int16(v)
	}
	return out
}
