// Package flatfield divides raw channel images by a precomputed illumination
// correction field to even out intensity across the field of view.
package flatfield

import (
	"fmt"

	"github.com/wellquant/core/core/imagestack"
)

// ShapeMismatchError - the correction field's shape disagrees with the image.
// This is fatal for the image being processed.
type ShapeMismatchError struct {
	ImageHeight, ImageWidth int
	FieldHeight, FieldWidth int
}

func (e ShapeMismatchError) Error() string {
	return fmt.Sprintf("flatfield shape %vx%v does not match image shape %vx%v",
		e.FieldHeight, e.FieldWidth, e.ImageHeight, e.ImageWidth)
}

// Correct - divides every timepoint of raw by the correction field,
// element-wise. The field must be a single plane matching the image's
// spatial shape and is assumed strictly positive.
func Correct(raw imagestack.ImageStack, field imagestack.ImageStack) (imagestack.ImageStack, error) {
	if field.Timepoints != 1 || field.Height != raw.Height || field.Width != raw.Width {
		return imagestack.ImageStack{}, ShapeMismatchError{
			ImageHeight: raw.Height,
			ImageWidth:  raw.Width,
			FieldHeight: field.Height,
			FieldWidth:  field.Width,
		}
	}

	corrected := imagestack.MakeImageStack(raw.Timepoints, raw.Height, raw.Width)
	fieldPlane := field.Plane(0)
	planeSize := raw.PlaneSize()

	for t := 0; t < raw.Timepoints; t++ {
		rawPlane := raw.Plane(t)
		outPlane := corrected.Plane(t)
		for i := 0; i < planeSize; i++ {
			outPlane[i] = rawPlane[i] / fieldPlane[i]
		}
	}
	return corrected, nil
}
