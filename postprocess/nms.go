package postprocess

import (
	"fmt"
	"sort"
)

// SuppressionPolicy selects how multiclass non-maximum suppression treats
// class labels.  The policy is a deployment time choice made per model, it
// is resolved once during pipeline setup and not inferred from data.
type SuppressionPolicy int

const (
	// ClassAware runs suppression independently for each class column, so
	// a single box may be emitted multiple times under different class IDs
	// when it clears the score threshold for more than one class
	ClassAware SuppressionPolicy = iota
	// ClassAgnostic keeps only each box's highest scoring class and runs a
	// single suppression pass across all classes, so a box can suppress a
	// box of a different class.  Each surviving box contributes exactly one
	// detection
	ClassAgnostic
)

// NMS runs greedy single class non-maximum suppression over the given
// boxes and their scores and returns the indices of the kept boxes ordered
// by descending score.  Candidates are visited highest score first, equal
// scores keep their original relative order.  A remaining candidate is
// dropped when its IoU with a kept box exceeds iouThreshold, a candidate
// with IoU exactly equal to the threshold is kept.  The boxes and scores
// slices are read but never modified.
func NMS(boxes []Box, scores []float32, iouThreshold float32) ([]int, error) {

	if len(boxes) != len(scores) {
		return nil, fmt.Errorf("boxes and scores length mismatch: %d boxes, %d scores",
			len(boxes), len(scores))
	}

	order := make([]int, len(boxes))

	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	keep := make([]int, 0, len(order))

	for len(order) > 0 {

		top := order[0]
		keep = append(keep, top)

		if len(order) == 1 {
			break
		}

		rest := order[1:]
		candidates := make([]Box, len(rest))

		for i, n := range rest {
			candidates[i] = boxes[n]
		}

		ious := ComputeIoU(boxes[top], candidates)

		// retain candidates at or below the threshold.  a NaN IoU fails
		// this comparison so boxes with non-finite geometry are dropped
		// rather than surviving suppression
		next := 0

		for i, n := range rest {
			if ious[i] <= iouThreshold {
				rest[next] = n
				next++
			}
		}

		order = rest[:next]
	}

	return keep, nil
}

// MulticlassNMS runs non-maximum suppression over boxes with per class
// scores using the given policy.  scores is a flat row-major matrix of
// len(boxes) rows by numClasses columns.  A candidate's score must exceed
// scoreThr (strictly) for the candidate to be considered, a NaN score
// always fails the threshold.
//
// A nil result with a nil error is the explicit no detections state
// returned when nothing clears the score threshold, including for empty
// input.  This differs from NMS which always returns a non-nil, possibly
// empty, index slice.
func MulticlassNMS(boxes []Box, scores []float32, numClasses int,
	iouThr, scoreThr float32, policy SuppressionPolicy) ([]Detection, error) {

	if numClasses <= 0 {
		return nil, fmt.Errorf("number of classes must be positive, got %d", numClasses)
	}

	if len(scores) != len(boxes)*numClasses {
		return nil, fmt.Errorf("scores length %d does not match %d boxes by %d classes",
			len(scores), len(boxes), numClasses)
	}

	switch policy {
	case ClassAware:
		return nmsClassAware(boxes, scores, numClasses, iouThr, scoreThr)
	case ClassAgnostic:
		return nmsClassAgnostic(boxes, scores, numClasses, iouThr, scoreThr)
	default:
		return nil, fmt.Errorf("unknown suppression policy %d", policy)
	}
}

// nmsClassAware suppresses each class column independently.  Multi-label
// output is intentional, one box clearing the threshold for several
// classes is emitted once per class
func nmsClassAware(boxes []Box, scores []float32, numClasses int,
	iouThr, scoreThr float32) ([]Detection, error) {

	var dets []Detection

	for c := 0; c < numClasses; c++ {

		var validBoxes []Box
		var validScores []float32

		for i := range boxes {
			if s := scores[i*numClasses+c]; s > scoreThr {
				validBoxes = append(validBoxes, boxes[i])
				validScores = append(validScores, s)
			}
		}

		if len(validBoxes) == 0 {
			continue
		}

		keep, err := NMS(validBoxes, validScores, iouThr)

		if err != nil {
			return nil, err
		}

		for _, n := range keep {
			dets = append(dets, Detection{
				Box:   validBoxes[n],
				Score: validScores[n],
				Class: c,
			})
		}
	}

	return dets, nil
}

// nmsClassAgnostic selects each box's single best class then runs one
// suppression pass across all classes together
func nmsClassAgnostic(boxes []Box, scores []float32, numClasses int,
	iouThr, scoreThr float32) ([]Detection, error) {

	var validBoxes []Box
	var validScores []float32
	var validClasses []int

	for i := range boxes {

		row := scores[i*numClasses : (i+1)*numClasses]

		bestClass := 0
		bestScore := row[0]

		for k := 1; k < numClasses; k++ {
			if row[k] > bestScore {
				bestClass = k
				bestScore = row[k]
			}
		}

		if bestScore > scoreThr {
			validBoxes = append(validBoxes, boxes[i])
			validScores = append(validScores, bestScore)
			validClasses = append(validClasses, bestClass)
		}
	}

	if len(validBoxes) == 0 {
		return nil, nil
	}

	keep, err := NMS(validBoxes, validScores, iouThr)

	if err != nil {
		return nil, err
	}

	dets := make([]Detection, 0, len(keep))

	for _, n := range keep {
		dets = append(dets, Detection{
			Box:   validBoxes[n],
			Score: validScores[n],
			Class: validClasses[n],
		})
	}

	return dets, nil
}
