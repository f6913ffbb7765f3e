package segmentation

import (
	"testing"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/logger"
)

type evalCall struct {
	modelID  string
	planes   int
	channels ChannelSpec
	diameter float64
}

type queuedResult struct {
	plane []uint32
	err   error
}

// fakeModel - replays queued planes/errors and records what it was asked
type fakeModel struct {
	calls   []evalCall
	results []queuedResult
}

func (m *fakeModel) Eval(modelID string, planes [][]float64, height int, width int, channels ChannelSpec, diameter float64, normalize bool) ([]uint32, error) {
	m.calls = append(m.calls, evalCall{modelID: modelID, planes: len(planes), channels: channels, diameter: diameter})
	r := m.results[0]
	m.results = m.results[1:]
	return r.plane, r.err
}

func interiorObjectPlane(h int, w int, label uint32) []uint32 {
	plane := make([]uint32, h*w)
	fillRect(plane, w, 10, 10, 16, 16, label)
	return plane
}

func TestSegmentNucleiRecoversIndexFault(t *testing.T) {
	const h, w = 30, 30
	img := imagestack.MakeImageStack(2, h, w)
	for i := range img.Data {
		img.Data[i] = float64(i % 97)
	}

	model := &fakeModel{results: []queuedResult{
		{plane: interiorObjectPlane(h, w, 1)},
		{err: ErrModelIndexFault},
	}}
	engine := MakeEngine(model, MakeDefaultPolicy(), &logger.NullLogger{})

	mask, err := engine.SegmentNuclei(img, "RPE-1 40X")
	if err != nil {
		t.Fatalf("SegmentNuclei: %v", err)
	}

	if countLabel(mask.Plane(0), 1) != 36 {
		t.Errorf("timepoint 0 object missing")
	}
	for i, v := range mask.Plane(1) {
		if v != 0 {
			t.Fatalf("timepoint 1 should be all background after index fault, got %v at %v", v, i)
		}
	}

	// Policy selection must flow into the model call
	if model.calls[0].diameter != 100 || model.calls[0].channels != NucleusChannels || model.calls[0].planes != 1 {
		t.Errorf("unexpected nucleus eval call: %+v", model.calls[0])
	}
}

func TestSegmentCellsCompositeCall(t *testing.T) {
	const h, w = 30, 30
	nucImg := imagestack.MakeImageStack(1, h, w)
	cellImg := imagestack.MakeImageStack(1, h, w)
	for i := range nucImg.Data {
		nucImg.Data[i] = float64(i % 31)
		cellImg.Data[i] = float64(i % 53)
	}

	model := &fakeModel{results: []queuedResult{
		{plane: interiorObjectPlane(h, w, 9)},
	}}
	engine := MakeEngine(model, MakeDefaultPolicy(), &logger.NullLogger{})

	mask, err := engine.SegmentCells(nucImg, cellImg, "U2OS")
	if err != nil {
		t.Fatalf("SegmentCells: %v", err)
	}
	if countLabel(mask.Plane(0), 9) != 36 {
		t.Errorf("cell object missing")
	}
	if model.calls[0].modelID != "U2OS_Tub_Hoechst" || model.calls[0].channels != CellChannels || model.calls[0].planes != 2 {
		t.Errorf("unexpected cell eval call: %+v", model.calls[0])
	}
}

func TestSegmentCellsTimepointMismatch(t *testing.T) {
	nucImg := imagestack.MakeImageStack(2, 10, 10)
	cellImg := imagestack.MakeImageStack(3, 10, 10)

	engine := MakeEngine(&fakeModel{}, MakeDefaultPolicy(), &logger.NullLogger{})
	if _, err := engine.SegmentCells(nucImg, cellImg, "U2OS"); err == nil {
		t.Errorf("expected time dimension mismatch error")
	}
}
