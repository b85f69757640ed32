package postprocess

import (
	"math"
	"testing"
)

func TestMakeGridOrdering(t *testing.T) {

	// 16x16 input with strides 8 and 16 produces a 2x2 level then a 1x1
	// level, cells in row-major order within each level
	cells := MakeGrid(16, 16, []int{8, 16})

	expected := []GridCell{
		{X: 0, Y: 0, Stride: 8},
		{X: 1, Y: 0, Stride: 8},
		{X: 0, Y: 1, Stride: 8},
		{X: 1, Y: 1, Stride: 8},
		{X: 0, Y: 0, Stride: 16},
	}

	if len(cells) != len(expected) {
		t.Fatalf("expected %d cells, got %d", len(expected), len(cells))
	}

	for i, cell := range expected {
		if cells[i] != cell {
			t.Errorf("cell %d: expected %v, got %v", i, cell, cells[i])
		}
	}
}

func TestMakeGridRectangular(t *testing.T) {

	// 32 high by 16 wide at stride 8 is a 4 row by 2 column grid
	cells := MakeGrid(32, 16, []int{8})

	if len(cells) != 8 {
		t.Fatalf("expected 8 cells, got %d", len(cells))
	}

	// second row starts after the two columns of the first
	if cells[2].X != 0 || cells[2].Y != 1 {
		t.Errorf("expected cell 2 at (0,1), got (%d,%d)", cells[2].X, cells[2].Y)
	}
}

func TestDecodeOutputs(t *testing.T) {

	// single 1x1 level at stride 16, one row of 7 channels
	raw := []float32{0.5, 0.25, 0.0, math.Ln2, 0.9, 0.8, 0.7}

	if err := DecodeOutputs(raw, 16, 16, []int{16}); err != nil {
		t.Fatalf("DecodeOutputs returned error: %v", err)
	}

	// center (offset+cell)*stride, size exp(log)*stride
	expectCloseTo(t, "centerX", raw[0], 8.0)
	expectCloseTo(t, "centerY", raw[1], 4.0)
	expectCloseTo(t, "width", raw[2], 16.0)
	expectCloseTo(t, "height", raw[3], 32.0)

	// objectness and class channels pass through unchanged
	if raw[4] != 0.9 || raw[5] != 0.8 || raw[6] != 0.7 {
		t.Errorf("expected score channels untouched, got %v", raw[4:])
	}
}

func TestDecodeOutputsMultiLevel(t *testing.T) {

	// 16x16 input, strides 8 and 16, five cells of 6 channels each
	raw := make([]float32, 5*6)

	if err := DecodeOutputs(raw, 16, 16, []int{8, 16}); err != nil {
		t.Fatalf("DecodeOutputs returned error: %v", err)
	}

	// zero offsets decode to the cell origin, zero log sizes to the stride
	cases := []struct {
		row     int
		centerX float32
		centerY float32
		size    float32
	}{
		{0, 0, 0, 8},
		{1, 8, 0, 8},
		{2, 0, 8, 8},
		{3, 8, 8, 8},
		{4, 0, 0, 16},
	}

	for _, tc := range cases {
		base := tc.row * 6

		if raw[base] != tc.centerX || raw[base+1] != tc.centerY {
			t.Errorf("row %d: expected center (%f,%f), got (%f,%f)",
				tc.row, tc.centerX, tc.centerY, raw[base], raw[base+1])
		}

		if raw[base+2] != tc.size || raw[base+3] != tc.size {
			t.Errorf("row %d: expected size %f, got (%f,%f)",
				tc.row, tc.size, raw[base+2], raw[base+3])
		}
	}
}

func TestDecodeOutputsOverflow(t *testing.T) {

	// extreme raw size values overflow the exponential and propagate as
	// +Inf, no clamping is applied
	raw := []float32{0, 0, 100, 100, 0, 0}

	if err := DecodeOutputs(raw, 16, 16, []int{16}); err != nil {
		t.Fatalf("DecodeOutputs returned error: %v", err)
	}

	if !math.IsInf(float64(raw[2]), 1) || !math.IsInf(float64(raw[3]), 1) {
		t.Errorf("expected +Inf sizes, got (%f,%f)", raw[2], raw[3])
	}
}

func TestDecodeOutputsShapeMismatch(t *testing.T) {

	// 16x16 with strides 8 and 16 is five cells, seven values do not
	// divide into them
	if err := DecodeOutputs(make([]float32, 7), 16, 16, []int{8, 16}); err == nil {
		t.Error("expected error for buffer not divisible by grid size")
	}

	// rows shorter than the five box attributes are rejected
	if err := DecodeOutputs(make([]float32, 5*4), 16, 16, []int{8, 16}); err == nil {
		t.Error("expected error for row length below box attributes")
	}

	// data with an empty grid is a mismatch
	if err := DecodeOutputs(make([]float32, 6), 16, 16, nil); err == nil {
		t.Error("expected error for data with empty grid")
	}
}

func TestDecodeOutputsEmpty(t *testing.T) {

	if err := DecodeOutputs(nil, 16, 16, nil); err != nil {
		t.Errorf("expected empty input to be valid, got error: %v", err)
	}
}

func TestCornerBoxes(t *testing.T) {

	raw := []float32{
		8, 8, 4, 6, 0.9, 0.5,
		100, 50, 20, 10, 0.8, 0.4,
	}

	boxes := CornerBoxes(raw, 6)

	expected := []Box{
		{6, 5, 10, 11},
		{90, 45, 110, 55},
	}

	if len(boxes) != len(expected) {
		t.Fatalf("expected %d boxes, got %d", len(expected), len(boxes))
	}

	for i, b := range expected {
		if boxes[i] != b {
			t.Errorf("box %d: expected %v, got %v", i, b, boxes[i])
		}
	}
}

func TestClassScores(t *testing.T) {

	raw := []float32{
		0, 0, 0, 0, 0.5, 1.0, 0.5, 0.25,
		0, 0, 0, 0, 1.0, 0.0, 0.9, 0.1,
	}

	scores := ClassScores(raw, 8)

	expected := []float32{0.5, 0.25, 0.125, 0.0, 0.9, 0.1}

	if len(scores) != len(expected) {
		t.Fatalf("expected %d scores, got %d", len(expected), len(scores))
	}

	for i, s := range expected {
		if scores[i] != s {
			t.Errorf("score %d: expected %f, got %f", i, s, scores[i])
		}
	}
}

func expectCloseTo(t *testing.T, name string, got, expected float32) {
	t.Helper()

	if math.Abs(float64(got-expected)) > 1e-5 {
		t.Errorf("%s: expected %f, got %f", name, expected, got)
	}
}
