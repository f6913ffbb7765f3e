package imagestack

// LabelMask - segmentation result for one compartment. 0 is background, each
// positive value identifies one object. Labels are only meaningful within a
// timepoint: label 5 at t=0 and label 5 at t=1 are unrelated objects, as are
// equal labels across compartments.
type LabelMask struct {
	Timepoints int
	Height     int
	Width      int

	// Element width (8, 16 or 32 bits) used when the mask is persisted.
	// In memory values are always held as uint32.
	Bits int

	Data []uint32
}

func MakeLabelMask(timepoints int, height int, width int) LabelMask {
	return LabelMask{
		Timepoints: timepoints,
		Height:     height,
		Width:      width,
		Bits:       32,
		Data:       make([]uint32, timepoints*height*width),
	}
}

func (m LabelMask) PlaneSize() int {
	return m.Height * m.Width
}

func (m LabelMask) Plane(t int) []uint32 {
	sz := m.PlaneSize()
	return m.Data[t*sz : (t+1)*sz]
}

func (m LabelMask) At(t int, y int, x int) uint32 {
	return m.Data[t*m.PlaneSize()+y*m.Width+x]
}

func (m LabelMask) Set(t int, y int, x int, v uint32) {
	m.Data[t*m.PlaneSize()+y*m.Width+x] = v
}

func (m LabelMask) SameShape(other LabelMask) bool {
	return m.Timepoints == other.Timepoints && m.Height == other.Height && m.Width == other.Width
}

// Max - the largest label present anywhere in the mask
func (m LabelMask) Max() uint32 {
	max := uint32(0)
	for _, v := range m.Data {
		if v > max {
			max = v
		}
	}
	return max
}

// Compact - shrinks the persisted element width to the smallest unsigned
// width that can hold every label. Values are never changed, only Bits.
func Compact(m LabelMask) LabelMask {
	max := m.Max()
	if max < 1<<8 {
		m.Bits = 8
	} else if max < 1<<16 {
		m.Bits = 16
	} else {
		m.Bits = 32
	}
	return m
}

// CompactPair - a freshly computed nucleus+cell pair is persisted as one
// two-channel image, so both masks must share the same element width. The
// width is chosen from the larger of the two maximum labels.
func CompactPair(nucleus LabelMask, cell LabelMask) (LabelMask, LabelMask) {
	max := nucleus.Max()
	if cellMax := cell.Max(); cellMax > max {
		max = cellMax
	}

	bits := 32
	if max < 1<<8 {
		bits = 8
	} else if max < 1<<16 {
		bits = 16
	}
	nucleus.Bits = bits
	cell.Bits = bits
	return nucleus, cell
}

// DeriveCytoplasm - cytoplasm pixels are cell pixels not covered by any
// nucleus; each retained pixel keeps its cell label. A shape mismatch
// yields an all-zero mask of the cell's shape rather than an error.
func DeriveCytoplasm(nucleus LabelMask, cell LabelMask) LabelMask {
	cyto := MakeLabelMask(cell.Timepoints, cell.Height, cell.Width)
	if !nucleus.SameShape(cell) {
		return cyto
	}

	for i, c := range cell.Data {
		if c != 0 && nucleus.Data[i] == 0 {
			cyto.Data[i] = c
		}
	}
	return cyto
}
