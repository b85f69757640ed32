package postprocess

import (
	"math"
)

// ComputeIoU computes the Intersection over Union (IoU) between the given
// box and each candidate box, returning one value in the range [0, 1] per
// candidate.  An empty candidate list returns an empty slice.
func ComputeIoU(box Box, candidates []Box) []float32 {

	ious := make([]float32, len(candidates))

	for i, c := range candidates {
		ious[i] = calculateOverlap(box, c)
	}

	return ious
}

// calculateOverlap works out the Intersection over Union (IoU) value of two
// boxes dimensions
func calculateOverlap(a, b Box) float32 {

	w := math.Max(0.0, math.Min(float64(a.X2), float64(b.X2))-math.Max(float64(a.X1), float64(b.X1))+1.0)
	h := math.Max(0.0, math.Min(float64(a.Y2), float64(b.Y2))-math.Max(float64(a.Y1), float64(b.Y1))+1.0)
	intersection := float32(w * h)

	// Calculate the area of both rectangles with added 1.0 for inclusive
	// pixel calculation
	areaA := (a.X2 - a.X1 + 1) * (a.Y2 - a.Y1 + 1)
	areaB := (b.X2 - b.X1 + 1) * (b.Y2 - b.Y1 + 1)

	union := areaA + areaB - intersection

	if union <= 0 {
		return 0.0
	}

	return intersection / union
}
