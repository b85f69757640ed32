package postprocess

import (
	"fmt"

	"github.com/edgevision/go-detpost"
)

// YOLOX defines the struct for YOLOX model inference post processing
type YOLOX struct {
	// Params are the Model configuration parameters
	Params YOLOXParams
	// suppress is the multiclass suppression strategy resolved from
	// Params.Policy at setup time
	suppress func(boxes []Box, scores []float32, numClasses int,
		iouThr, scoreThr float32) ([]Detection, error)
	// idGen is a counter that increments and provides the next number
	// for each detection result ID
	idGen *idGenerator
}

// YOLOXParams defines the struct containing the YOLOX parameters to use
// for post processing operations
type YOLOXParams struct {
	// InputHeight is the height of the network input tensor in pixels
	InputHeight int
	// InputWidth is the width of the network input tensor in pixels
	InputWidth int
	// Strides are the downsampling factors of the model's feature map
	// levels, in ascending order.  Standard models use 8, 16, and 32, the
	// larger receptive field P6 variants add 64
	Strides []int
	// BoxThreshold is the minimum score required for a bounding box
	// candidate to be considered for processing
	BoxThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for
	// defining the maximum allowed Intersection over Union (IoU) between
	// two bounding boxes for both to be kept
	NMSThreshold float32
	// ObjectClassNum is the number of different object classes the Model
	// has been trained with
	ObjectClassNum int
	// MaxObjectNumber is the maximum number of objects detected that can
	// be returned, zero means unlimited
	MaxObjectNumber int
	// Policy selects class aware or class agnostic suppression
	Policy SuppressionPolicy
}

// YOLOXCOCOParams returns an instance of YOLOXParams configured with
// default values for a Model trained on the COCO dataset featuring:
// - Input Size: 640x640
// - Object Classes: 80
// - Strides of: 8, 16, 32
// - Box Threshold: 0.25
// - NMS Threshold: 0.45
// - Maximum Object Number: 64
// - Class agnostic suppression
func YOLOXCOCOParams() YOLOXParams {
	return YOLOXParams{
		InputHeight:     640,
		InputWidth:      640,
		Strides:         []int{8, 16, 32},
		BoxThreshold:    0.25,
		NMSThreshold:    0.45,
		ObjectClassNum:  80,
		MaxObjectNumber: 64,
		Policy:          ClassAgnostic,
	}
}

// NewYOLOX returns an instance of the YOLOX post processor
func NewYOLOX(p YOLOXParams) *YOLOX {

	y := &YOLOX{
		Params: p,
		idGen:  newIDGenerator(),
	}

	switch p.Policy {
	case ClassAware:
		y.suppress = nmsClassAware
	default:
		y.suppress = nmsClassAgnostic
	}

	return y
}

// YOLOXResult defines a struct used for object detection results
type YOLOXResult struct {
	Detections []Detection
}

// GetDetectResults returns the object detection results containing bounding
// boxes
func (r YOLOXResult) GetDetectResults() []Detection {
	return r.Detections
}

// DetectObjects takes the raw output tensor from model inference and runs
// the object detection process, returning detections with bounding boxes in
// original image coordinates.  scaleFactor is the uniform letterbox ratio
// returned by the preprocessor, every decoded coordinate is divided by it
// to project back into the source image space.
//
// The raw buffer is decoded in place and must not be reused by the caller
// afterwards, nor shared across concurrent calls.
func (y *YOLOX) DetectObjects(raw []float32,
	scaleFactor float32) (DetectionResult, error) {

	if scaleFactor <= 0 {
		return nil, fmt.Errorf("scale factor must be positive, got %f", scaleFactor)
	}

	cells := MakeGrid(y.Params.InputHeight, y.Params.InputWidth, y.Params.Strides)

	if err := checkRows(len(raw), len(cells)); err != nil {
		return nil, err
	}

	if len(cells) == 0 {
		return YOLOXResult{}, nil
	}

	rowLen := len(raw) / len(cells)

	if rowLen != 5+y.Params.ObjectClassNum {
		return nil, fmt.Errorf("output row length %d does not match %d object classes",
			rowLen, y.Params.ObjectClassNum)
	}

	decodeGrid(raw, rowLen, cells)

	boxes := CornerBoxes(raw, rowLen)
	scores := ClassScores(raw, rowLen)

	// project boxes back into original image coordinates
	for i := range boxes {
		boxes[i].X1 /= scaleFactor
		boxes[i].Y1 /= scaleFactor
		boxes[i].X2 /= scaleFactor
		boxes[i].Y2 /= scaleFactor
	}

	dets, err := y.suppress(boxes, scores, y.Params.ObjectClassNum,
		y.Params.NMSThreshold, y.Params.BoxThreshold)

	if err != nil {
		return nil, err
	}

	if dets == nil {
		// no object detected
		return YOLOXResult{}, nil
	}

	group := make([]Detection, 0, len(dets))

	for _, det := range dets {

		if y.Params.MaxObjectNumber > 0 && len(group) >= y.Params.MaxObjectNumber {
			break
		}

		det.ID = y.idGen.getNext()
		group = append(group, det)
	}

	return YOLOXResult{
		Detections: group,
	}, nil
}

// DetectObjectsFloat16 is a variant of DetectObjects for inference engines
// that emit half precision output tensors, given as raw float16 bit
// patterns.  The converted copy is consumed in place of the input buffer.
func (y *YOLOX) DetectObjectsFloat16(raw []uint16,
	scaleFactor float32) (DetectionResult, error) {

	return y.DetectObjects(detpost.Float16ToFloat32(raw), scaleFactor)
}
