package postprocess

import (
	"fmt"
	"math"
)

// GridCell is a single anchor point in decoder space.  X and Y are the cell
// coordinates within the feature map of the given stride level.
type GridCell struct {
	X      int
	Y      int
	Stride int
}

// MakeGrid generates the anchor grid for a network input of the given size.
// For each stride level the feature map is height/stride by width/stride
// cells, generated in row-major order (all x for y=0, then y=1 and so on),
// with stride levels concatenated in the order given.  Strides must be
// listed ascending, the resulting cell order is the layout contract the raw
// output tensor's row dimension must follow.  The grid is regenerated on
// every call, it is never cached.
func MakeGrid(height, width int, strides []int) []GridCell {

	total := 0

	for _, stride := range strides {
		total += (height / stride) * (width / stride)
	}

	cells := make([]GridCell, 0, total)

	for _, stride := range strides {

		gridH := height / stride
		gridW := width / stride

		for y := 0; y < gridH; y++ {
			for x := 0; x < gridW; x++ {
				cells = append(cells, GridCell{X: x, Y: y, Stride: stride})
			}
		}
	}

	return cells
}

// DecodeOutputs converts a raw output tensor of per cell relative offsets
// and log sizes into absolute network input coordinates.  The tensor is a
// flat buffer of one row per grid cell, each row holding
// [centerX, centerY, width, height, objectness, class0..classN].  The
// transform is applied in place, consuming the input buffer: centers become
// (offset+cell)*stride, sizes become exp(size)*stride, all remaining
// channels pass through unchanged.  No clamping is applied to the
// exponential, an extreme raw size value propagates as +Inf.
//
// The row count must match the grid generated from the image size and
// stride list, a mismatch is an error and the buffer is left unmodified.
func DecodeOutputs(raw []float32, height, width int, strides []int) error {

	cells := MakeGrid(height, width, strides)

	if err := checkRows(len(raw), len(cells)); err != nil {
		return err
	}

	if len(cells) == 0 {
		return nil
	}

	decodeGrid(raw, len(raw)/len(cells), cells)
	return nil
}

// checkRows verifies the raw buffer divides into one row of box attributes
// per grid cell
func checkRows(rawLen, numCells int) error {

	if numCells == 0 {
		if rawLen != 0 {
			return fmt.Errorf("output buffer has %d values but grid is empty", rawLen)
		}
		return nil
	}

	if rawLen%numCells != 0 {
		return fmt.Errorf("output buffer length %d is not divisible by grid size %d",
			rawLen, numCells)
	}

	if rawLen/numCells < 5 {
		return fmt.Errorf("output row length %d is too short for box attributes",
			rawLen/numCells)
	}

	return nil
}

// decodeGrid applies the absolute coordinate transform to each row of the
// raw buffer using the matching grid cell
func decodeGrid(raw []float32, rowLen int, cells []GridCell) {

	for i, cell := range cells {

		row := raw[i*rowLen:]
		stride := float32(cell.Stride)

		row[0] = (row[0] + float32(cell.X)) * stride
		row[1] = (row[1] + float32(cell.Y)) * stride
		row[2] = float32(math.Exp(float64(row[2]))) * stride
		row[3] = float32(math.Exp(float64(row[3]))) * stride
	}
}

// CornerBoxes converts the decoded center/size columns of each row into
// corner form boxes.  rowLen is the number of channels per row and must be
// at least the five box attributes.
func CornerBoxes(raw []float32, rowLen int) []Box {

	if rowLen < 5 {
		return nil
	}

	boxes := make([]Box, 0, len(raw)/rowLen)

	for i := 0; i+rowLen <= len(raw); i += rowLen {

		cx := raw[i]
		cy := raw[i+1]
		w := raw[i+2]
		h := raw[i+3]

		boxes = append(boxes, Box{
			X1: cx - w/2.0,
			Y1: cy - h/2.0,
			X2: cx + w/2.0,
			Y2: cy + h/2.0,
		})
	}

	return boxes
}

// ClassScores builds the flat row-major score matrix used by multiclass
// suppression, multiplying each row's objectness by its per class scores.
// The result has rowLen-5 columns per box.
func ClassScores(raw []float32, rowLen int) []float32 {

	if rowLen < 5 {
		return nil
	}

	numClasses := rowLen - 5
	scores := make([]float32, 0, len(raw)/rowLen*numClasses)

	for i := 0; i+rowLen <= len(raw); i += rowLen {

		obj := raw[i+4]

		for k := 0; k < numClasses; k++ {
			scores = append(scores, obj*raw[i+5+k])
		}
	}

	return scores
}
