package segmentation

import (
	"errors"
	"fmt"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/logger"
)

const (
	// Objects within this many pixels of the image border are discarded
	BorderBuffer = 5

	// Objects of this many pixels or fewer are discarded
	MinObjectArea = 10

	rescaleLowPercentile  = 1
	rescaleHighPercentile = 99
)

// Engine - runs the external model per timepoint and post-filters the
// result into clean label masks
type Engine struct {
	model  Model
	policy Policy
	log    logger.ILogger
}

func MakeEngine(model Model, policy Policy, log logger.ILogger) Engine {
	return Engine{model: model, policy: policy, log: log}
}

// SegmentNuclei - segments the nucleus channel, one timepoint at a time.
// A model index fault on a timepoint leaves that timepoint all background.
func (e Engine) SegmentNuclei(nucleusImg imagestack.ImageStack, cellLine string) (imagestack.LabelMask, error) {
	if e.model == nil {
		return imagestack.LabelMask{}, errors.New("no segmentation model configured")
	}

	diameter, _ := e.policy.Select(cellLine)
	mask := imagestack.MakeLabelMask(nucleusImg.Timepoints, nucleusImg.Height, nucleusImg.Width)

	for t := 0; t < nucleusImg.Timepoints; t++ {
		scaled := rescaleIntensity(nucleusImg.Plane(t), rescaleLowPercentile, rescaleHighPercentile)

		e.log.Infof("Segmenting nuclei at timepoint %v with diameter %v", t, diameter)
		raw, err := e.model.Eval(e.policy.NucleusModelID, [][]float64{scaled}, nucleusImg.Height, nucleusImg.Width, NucleusChannels, diameter, false)
		if err != nil {
			if !errors.Is(err, ErrModelIndexFault) {
				return imagestack.LabelMask{}, err
			}
			e.log.Errorf("Model index fault on nucleus timepoint %v, substituting background", t)
			raw = make([]uint32, nucleusImg.PlaneSize())
		}

		copy(mask.Plane(t), filterPlane(raw, nucleusImg.Height, nucleusImg.Width, BorderBuffer, MinObjectArea))
	}
	return mask, nil
}

// SegmentCells - segments whole cells from a two-channel composite of the
// nucleus channel and the cell-type channel. Both channels must cover the
// same timepoints; cell segmentation needs them in sync.
func (e Engine) SegmentCells(nucleusImg imagestack.ImageStack, cellTypeImg imagestack.ImageStack, cellLine string) (imagestack.LabelMask, error) {
	if e.model == nil {
		return imagestack.LabelMask{}, errors.New("no segmentation model configured")
	}

	if nucleusImg.Timepoints != cellTypeImg.Timepoints {
		return imagestack.LabelMask{}, fmt.Errorf("time dimension mismatch between nucleus (%v) and cell-type (%v) channels",
			nucleusImg.Timepoints, cellTypeImg.Timepoints)
	}

	_, cellModelID := e.policy.Select(cellLine)
	mask := imagestack.MakeLabelMask(nucleusImg.Timepoints, nucleusImg.Height, nucleusImg.Width)

	for t := 0; t < nucleusImg.Timepoints; t++ {
		// The composite is stretched as one array: percentiles come from
		// both channels combined, keeping their relative intensity
		nucScaled, cellScaled := rescaleComposite(nucleusImg.Plane(t), cellTypeImg.Plane(t),
			rescaleLowPercentile, rescaleHighPercentile)

		e.log.Infof("Segmenting cells at timepoint %v with model %v", t, cellModelID)
		raw, err := e.model.Eval(cellModelID, [][]float64{nucScaled, cellScaled}, nucleusImg.Height, nucleusImg.Width, CellChannels, 0, false)
		if err != nil {
			if !errors.Is(err, ErrModelIndexFault) {
				return imagestack.LabelMask{}, err
			}
			e.log.Errorf("Model index fault on cell timepoint %v, substituting background", t)
			raw = make([]uint32, nucleusImg.PlaneSize())
		}

		copy(mask.Plane(t), filterPlane(raw, nucleusImg.Height, nucleusImg.Width, BorderBuffer, MinObjectArea))
	}
	return mask, nil
}
