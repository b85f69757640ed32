package preprocess

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// LetterboxImage is a pure Go alternative to Resizer for callers not using
// gocv Mats.  It resizes src into a destWidth by destHeight image with a
// bilinear resampler, preserving aspect ratio, placing the content in the
// top left corner and filling the remaining area with the PadValue
// mid-gray.  It returns the padded image and the uniform scale ratio.
func LetterboxImage(src image.Image, destWidth, destHeight int) (*image.RGBA, float32) {

	bounds := src.Bounds()

	scaleW := float64(destWidth) / float64(bounds.Dx())
	scaleH := float64(destHeight) / float64(bounds.Dy())

	scale := math.Min(scaleW, scaleH)

	resizeW := int(float64(bounds.Dx()) * scale)
	resizeH := int(float64(bounds.Dy()) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, destWidth, destHeight))

	pad := image.NewUniform(color.RGBA{R: PadValue, G: PadValue, B: PadValue, A: 255})
	draw.Draw(dst, dst.Bounds(), pad, image.Point{}, draw.Src)

	draw.BiLinear.Scale(dst, image.Rect(0, 0, resizeW, resizeH),
		src, bounds, draw.Src, nil)

	return dst, float32(scale)
}
