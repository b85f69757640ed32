package preprocess

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// PadValue is the constant mid-gray used to fill the letterbox padding
// area, matching the padding the model was trained with
const PadValue = 114

// Resizer defines the struct used for handling letterbox image resizing
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
	// scale is the uniform scale ratio applied to both axis
	scale float32
	// resize dimensions
	resizeW int
	resizeH int
}

// NewResizer returns a resizer used for scaling an image to the needed
// dimensions for input tensor size
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		tempMat:    gocv.NewMat(),
	}

	// precalculate scaling dimensions
	r.preCalc()

	return r
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc the uniform scale ratio and resized content dimensions.  The
// ratio math is done in float64, truncating from float32 here can lose a
// pixel of the content region
func (r *Resizer) preCalc() {

	scaleW := float64(r.destWidth) / float64(r.srcWidth)
	scaleH := float64(r.destHeight) / float64(r.srcHeight)

	scale := math.Min(scaleW, scaleH)

	r.resizeW = int(float64(r.srcWidth) * scale)
	r.resizeH = int(float64(r.srcHeight) * scale)
	r.scale = float32(scale)
}

// LetterboxResize resizes the input image to the dimensions needed for the
// input tensor size whilst maintaining image aspect.  The resized content
// is placed in the top left corner and the remaining area on the right and
// bottom is filled with the PadValue mid-gray on every channel.
func (r *Resizer) LetterboxResize(src gocv.Mat, dest *gocv.Mat) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationLinear)

	pad := color.RGBA{R: PadValue, G: PadValue, B: PadValue, A: 255}

	gocv.CopyMakeBorder(r.tempMat, dest, 0, r.destHeight-r.resizeH,
		0, r.destWidth-r.resizeW, gocv.BorderConstant, pad)
}

// ScaleFactor returns the uniform scale ratio used in letterbox resize.
// Dividing decoded box coordinates by this ratio projects them back into
// the source image coordinate space.
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// ResizeWidth returns the width of the resized content region
func (r *Resizer) ResizeWidth() int {
	return r.resizeW
}

// ResizeHeight returns the height of the resized content region
func (r *Resizer) ResizeHeight() int {
	return r.resizeH
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}
