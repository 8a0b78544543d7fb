package holocodec

import (
	"bytes"
	"fmt"
	"math"

	"github.com/faanross/holocast/internal/imageio"
)

// ImageParams are the global parameters every chunk of an image transfer
// must agree on (§3 "Global-parameter consistency").
type ImageParams struct {
	H, W, C int
	N       int
}

// imageCoarseResidual is the output of the image coarse/residual model
// (§4.1 "Image path").
type imageCoarseResidual struct {
	Params      ImageParams
	CoarseBytes []byte  // PNG-encoded thumbnail
	CoarseUp    []int16 // full-resolution upsample, row-major [H,W,C]
	Residual    []int16 // source - CoarseUp, row-major [H,W,C]
}

// buildImageCoarseResidual computes the coarse thumbnail and residual for an
// RGB source image, per §4.1 steps 1-5.
func buildImageCoarseResidual(rgb *imageio.RGB, coarseMaxSide int) (*imageCoarseResidual, error) {
	h, w, c := rgb.H, rgb.W, 3

	longSide := w
	if h > longSide {
		longSide = h
	}
	scale := 1.0
	if longSide > coarseMaxSide {
		scale = float64(coarseMaxSide) / float64(longSide)
	}

	cw := clampAtLeastOne(int(math.Round(float64(w) * scale)))
	ch := clampAtLeastOne(int(math.Round(float64(h) * scale)))

	thumb := imageio.Resize(rgb, cw, ch)

	var coarseBuf bytes.Buffer
	if err := imageio.EncodePNG(&coarseBuf, thumb); err != nil {
		return nil, fmt.Errorf("holocodec: encode coarse png: %w", err)
	}

	coarseUpRGB := imageio.Resize(thumb, w, h)
	coarseUp := make([]int16, w*h*c)
	residual := make([]int16, w*h*c)
	for i, v := range coarseUpRGB.Pix {
		coarseUp[i] = int16(v)
	}
	for i := range residual {
		residual[i] = int16(rgb.Pix[i]) - coarseUp[i]
	}

	return &imageCoarseResidual{
		Params:      ImageParams{H: h, W: w, C: c},
		CoarseBytes: coarseBuf.Bytes(),
		CoarseUp:    coarseUp,
		Residual:    residual,
	}, nil
}

// upsampleImageCoarse decodes a coarse PNG blob and bicubic-upsamples it to
// (w,h), returning a flat int16 [H,W,C] buffer — used by the decoder to
// seed CoarseUp from whichever chunk arrives first.
func upsampleImageCoarse(coarseBytes []byte, w, h int) ([]int16, error) {
	thumb, err := imageio.DecodePNGBlob(coarseBytes)
	if err != nil {
		return nil, err
	}
	up := imageio.Resize(thumb, w, h)
	out := make([]int16, w*h*3)
	for i, v := range up.Pix {
		out[i] = int16(v)
	}
	return out, nil
}

// reconstructImage composes clip(coarseUp + residual, 0, 255) into RGB,
// per §4.3 "Final composition — Image".
func reconstructImage(w, h int, coarseUp, residual []int16) *imageio.RGB {
	out := &imageio.RGB{W: w, H: h, Pix: make([]uint8, w*h*3)}
	for i := range out.Pix {
		v := int32(coarseUp[i]) + int32(residual[i])
		out.Pix[i] = clipUint8(v)
	}
	return out
}

func clipUint8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampAtLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
