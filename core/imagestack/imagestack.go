// Package imagestack holds the in-memory image types the screen pipeline
// works on: float intensity stacks and integer label masks, both laid out
// as (timepoint, y, x).
package imagestack

// ImageStack - a single channel's intensity data across timepoints.
// Data is timepoint-major, then row-major within a timepoint.
type ImageStack struct {
	Timepoints int
	Height     int
	Width      int
	Data       []float64
}

func MakeImageStack(timepoints int, height int, width int) ImageStack {
	return ImageStack{
		Timepoints: timepoints,
		Height:     height,
		Width:      width,
		Data:       make([]float64, timepoints*height*width),
	}
}

func (s ImageStack) PlaneSize() int {
	return s.Height * s.Width
}

// Plane - one timepoint's pixels as a slice view into Data
func (s ImageStack) Plane(t int) []float64 {
	sz := s.PlaneSize()
	return s.Data[t*sz : (t+1)*sz]
}

func (s ImageStack) At(t int, y int, x int) float64 {
	return s.Data[t*s.PlaneSize()+y*s.Width+x]
}

func (s ImageStack) Set(t int, y int, x int, v float64) {
	s.Data[t*s.PlaneSize()+y*s.Width+x] = v
}

func (s ImageStack) SameShape(other ImageStack) bool {
	return s.Timepoints == other.Timepoints && s.Height == other.Height && s.Width == other.Width
}
