// Package imageio adapts the standard image codecs (plus golang.org/x/image
// for formats the standard library doesn't decode) into the plain RGB byte
// arrays the holographic codec operates on, and supplies the bicubic-style
// resampling used to build and reconstitute the coarse thumbnail.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// RGB is a decoded image flattened row-major as [H][W][3]uint8.
type RGB struct {
	W, H int
	Pix  []uint8 // len == W*H*3
}

// At returns the byte offset of pixel (x,y)'s red channel.
func (r *RGB) At(x, y int) int { return (y*r.W + x) * 3 }

// Decode reads an image in any of the supported container formats and
// flattens it to RGB, dropping alpha.
func Decode(r io.Reader) (*RGB, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return fromImage(img), nil
}

func fromImage(img image.Image) *RGB {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &RGB{W: w, H: h, Pix: make([]uint8, w*h*3)}
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := nrgba.PixOffset(x, y)
			o := (y*w + x) * 3
			out.Pix[o+0] = nrgba.Pix[i+0]
			out.Pix[o+1] = nrgba.Pix[i+1]
			out.Pix[o+2] = nrgba.Pix[i+2]
		}
	}
	return out
}

// EncodePNG writes rgb as a lossless PNG, used both for final reconstructed
// images and for the coarse thumbnail blob embedded in every chunk.
func EncodePNG(w io.Writer, rgb *RGB) error {
	img := toImage(rgb)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imageio: encode png: %w", err)
	}
	return nil
}

func toImage(rgb *RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, rgb.W, rgb.H))
	for y := 0; y < rgb.H; y++ {
		for x := 0; x < rgb.W; x++ {
			o := rgb.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = rgb.Pix[o+0]
			img.Pix[i+1] = rgb.Pix[o+1]
			img.Pix[i+2] = rgb.Pix[o+2]
			img.Pix[i+3] = 255
		}
	}
	return img
}

// DecodePNGBlob decodes a coarse thumbnail blob back into RGB.
func DecodePNGBlob(blob []byte) (*RGB, error) {
	img, err := png.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode coarse blob: %w", err)
	}
	return fromImage(img), nil
}

// Resize scales src to (w,h) using the Catmull-Rom kernel, the closest
// golang.org/x/image equivalent to PIL's bicubic convention (see
// golang.org/x/image/draw's use in the pack's image-processing tools).
func Resize(src *RGB, w, h int) *RGB {
	srcImg := toImage(src)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), srcImg, srcImg.Bounds(), xdraw.Src, nil)
	out := &RGB{W: w, H: h, Pix: make([]uint8, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := dst.PixOffset(x, y)
			o := out.At(x, y)
			out.Pix[o+0] = dst.Pix[i+0]
			out.Pix[o+1] = dst.Pix[i+1]
			out.Pix[o+2] = dst.Pix[i+2]
		}
	}
	return out
}

func init() {
	// Decode support beyond the standard library's built-in png/jpeg/gif.
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
	image.RegisterFormat("tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig)
}

// EncodeByExt writes rgb to w using the container format implied by path's
// extension, defaulting to PNG for unrecognized or missing extensions.
func EncodeByExt(w io.Writer, path string, rgb *RGB) error {
	img := toImage(rgb)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}
