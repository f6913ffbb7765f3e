package segmentation

// filterPlane - post-filter for one timepoint of raw model output:
// objects touching (or within borderBuffer pixels of) the image border are
// removed, then objects whose remaining area is <= minArea pixels are
// removed. Surviving pixels keep their original label values.
func filterPlane(plane []uint32, height int, width int, borderBuffer int, minArea int) []uint32 {
	// Labels with any pixel inside the border margin
	borderLabels := map[uint32]bool{}
	inMargin := func(y int, x int) bool {
		return y < borderBuffer || y >= height-borderBuffer || x < borderBuffer || x >= width-borderBuffer
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := plane[y*width+x]
			if v != 0 && inMargin(y, x) {
				borderLabels[v] = true
			}
		}
	}

	// Area per surviving label
	areas := map[uint32]int{}
	for _, v := range plane {
		if v != 0 && !borderLabels[v] {
			areas[v]++
		}
	}

	result := make([]uint32, len(plane))
	for i, v := range plane {
		if v != 0 && !borderLabels[v] && areas[v] > minArea {
			result[i] = v
		}
	}
	return result
}
