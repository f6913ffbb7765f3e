package segmentation

import "testing"

func fillRect(plane []uint32, width int, y0 int, x0 int, y1 int, x1 int, label uint32) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			plane[y*width+x] = label
		}
	}
}

func countLabel(plane []uint32, label uint32) int {
	n := 0
	for _, v := range plane {
		if v == label {
			n++
		}
	}
	return n
}

func TestFilterRemovesBorderObjects(t *testing.T) {
	const h, w = 30, 30
	plane := make([]uint32, h*w)

	// Label 1 starts at row 3, inside the 5 pixel margin. Big enough to
	// pass the size filter, but it must still go.
	fillRect(plane, w, 3, 10, 12, 18, 1)
	// Label 2 is well inside
	fillRect(plane, w, 10, 10, 16, 16, 2)

	filtered := filterPlane(plane, h, w, BorderBuffer, MinObjectArea)

	if countLabel(filtered, 1) != 0 {
		t.Errorf("border object survived")
	}
	if countLabel(filtered, 2) != 36 {
		t.Errorf("interior object lost pixels: %v", countLabel(filtered, 2))
	}
}

func TestFilterRemovesSmallObjects(t *testing.T) {
	const h, w = 30, 30
	plane := make([]uint32, h*w)

	// 10 pixels: at the threshold, must be removed (area <= 10)
	fillRect(plane, w, 10, 10, 12, 15, 3)
	// 11 pixels: survives
	fillRect(plane, w, 20, 10, 21, 21, 4)

	filtered := filterPlane(plane, h, w, BorderBuffer, MinObjectArea)

	if countLabel(filtered, 3) != 0 {
		t.Errorf("object with area 10 survived")
	}
	if countLabel(filtered, 4) != 11 {
		t.Errorf("object with area 11 should survive intact, got %v pixels", countLabel(filtered, 4))
	}
}

func TestRescaleRange(t *testing.T) {
	plane := make([]float64, 1000)
	for i := range plane {
		plane[i] = float64(i)
	}

	scaled := rescaleIntensity(plane, 1, 99)

	if scaled[0] != 0 {
		t.Errorf("lowest pixel should clamp to 0, got %v", scaled[0])
	}
	if scaled[len(scaled)-1] != 1 {
		t.Errorf("highest pixel should clamp to 1, got %v", scaled[len(scaled)-1])
	}
	for i := 1; i < len(scaled); i++ {
		if scaled[i] < scaled[i-1] {
			t.Fatalf("rescale must be monotonic, broken at %v", i)
		}
	}
}

func TestRescaleFlatImage(t *testing.T) {
	plane := []float64{7, 7, 7, 7}
	scaled := rescaleIntensity(plane, 1, 99)
	for i, v := range scaled {
		if v != 0 {
			t.Errorf("flat image should rescale to zero, got %v at %v", v, i)
		}
	}
}
