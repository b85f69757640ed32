package postprocess

// DetectionResult is the interface implemented by model specific result
// types returned from post processing
type DetectionResult interface {
	GetDetectResults() []Detection
}

// Box is an axis aligned bounding box in corner form.  Coordinates are in a
// single shared space, either network input pixels or original image
// pixels, and are never mixed within one computation.  X2 >= X1 and
// Y2 >= Y1 is assumed, not enforced.
type Box struct {
	X1 float32
	Y1 float32
	X2 float32
	Y2 float32
}

// Detection defines the attributes of a single object detected
type Detection struct {
	// Box are the bounding box dimensions of the object location
	Box Box
	// Score is the confidence score of the object detected
	Score float32
	// Class is the line number in the labels file the Model was trained on
	// defining the Class of the detected object
	Class int
	// ID is a unique ID assigned to the detection result
	ID int64
}
