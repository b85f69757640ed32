package preprocess

import (
	"fmt"

	"gocv.io/x/gocv"
)

// NCHW converts an interleaved HWC uint8 Mat into a planar NCHW float32
// buffer as expected by inference engine input tensors.  This is a pure
// data layout transform, pixel values are not scaled or normalized.
func NCHW(src gocv.Mat) ([]float32, error) {

	data, err := src.DataPtrUint8()

	if err != nil {
		return nil, fmt.Errorf("error getting mat data: %w", err)
	}

	channels := src.Channels()
	plane := src.Rows() * src.Cols()

	if len(data) != channels*plane {
		return nil, fmt.Errorf("mat data length %d does not match %d channels of %d pixels",
			len(data), channels, plane)
	}

	out := make([]float32, len(data))

	for i := 0; i < plane; i++ {
		for c := 0; c < channels; c++ {
			out[c*plane+i] = float32(data[i*channels+c])
		}
	}

	return out, nil
}
