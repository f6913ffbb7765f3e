// Package segmentation turns corrected channel images into nucleus and cell
// label masks using an external ML model, one timepoint at a time.
package segmentation

import "errors"

// ErrModelIndexFault - raised by a model when it cannot index into a
// degenerate image region. The engine recovers from this by substituting an
// all-background mask for the affected timepoint; any other model error is
// propagated.
var ErrModelIndexFault = errors.New("model index fault")

// ChannelSpec - channel role encoding handed to the model. Grayscale
// nucleus segmentation uses [0,0]; cell segmentation on a two-plane
// composite uses [2,1] (cell-type plane as primary, nucleus as secondary).
type ChannelSpec [2]int

var (
	NucleusChannels = ChannelSpec{0, 0}
	CellChannels    = ChannelSpec{2, 1}
)

// Model - the external segmentation model, treated as a black box. One call
// segments one timepoint. planes holds one plane for grayscale input or
// [nucleus, cellType] for composite input, each of length height*width.
// diameter <= 0 means no diameter hint.
type Model interface {
	Eval(modelID string, planes [][]float64, height int, width int, channels ChannelSpec, diameter float64, normalize bool) ([]uint32, error)
}
