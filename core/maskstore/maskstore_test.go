package maskstore

import (
	"testing"

	"github.com/wellquant/core/core/fileaccess"
	"github.com/wellquant/core/core/imagerepo"
	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/logger"
)

func computedPair() (imagestack.LabelMask, *imagestack.LabelMask, error) {
	nuc := imagestack.MakeLabelMask(1, 8, 8)
	cell := imagestack.MakeLabelMask(1, 8, 8)
	nuc.Set(0, 3, 3, 1)
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			cell.Set(0, y, x, 1)
		}
	}
	return nuc, &cell, nil
}

func TestComputePersistsOnce(t *testing.T) {
	repo := imagerepo.MakeStoreRepository(fileaccess.MakeMemoryAccess(), "screen-data")
	store := MakeStore(repo, &logger.NullLogger{})

	computeCalls := 0
	compute := func() (imagestack.LabelMask, *imagestack.LabelMask, error) {
		computeCalls++
		return computedPair()
	}

	set, err := store.GetOrCompute("ds1", "im1", compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if computeCalls != 1 {
		t.Errorf("expected 1 compute call, got %v", computeCalls)
	}
	if set.Cell == nil || set.Cytoplasm == nil {
		t.Fatalf("expected cell and cytoplasm masks")
	}
	if set.Nucleus.Bits != 8 {
		t.Errorf("mask should be compacted to 8 bits, got %v", set.Nucleus.Bits)
	}
	// Cytoplasm excludes the nucleus pixel
	if set.Cytoplasm.At(0, 3, 3) != 0 || set.Cytoplasm.At(0, 4, 4) != 1 {
		t.Errorf("cytoplasm derivation wrong")
	}

	// Second call must come from the store without recomputation
	set2, err := store.GetOrCompute("ds1", "im1", compute)
	if err != nil {
		t.Fatalf("GetOrCompute (cached): %v", err)
	}
	if computeCalls != 1 {
		t.Errorf("cached lookup ran segmentation again (%v calls)", computeCalls)
	}
	for i := range set.Nucleus.Data {
		if set2.Nucleus.Data[i] != set.Nucleus.Data[i] || set2.Cell.Data[i] != set.Cell.Data[i] {
			t.Fatalf("cached masks differ at %v", i)
		}
	}
}

func TestNucleusOnlyCompute(t *testing.T) {
	repo := imagerepo.MakeStoreRepository(fileaccess.MakeMemoryAccess(), "screen-data")
	store := MakeStore(repo, &logger.NullLogger{})

	compute := func() (imagestack.LabelMask, *imagestack.LabelMask, error) {
		nuc := imagestack.MakeLabelMask(1, 4, 4)
		nuc.Set(0, 1, 1, 2)
		return nuc, nil, nil
	}

	set, err := store.GetOrCompute("ds1", "im5", compute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if set.Cell != nil || set.Cytoplasm != nil {
		t.Errorf("nucleus-only image should have no cell or cytoplasm mask")
	}
	if set.Nucleus.At(0, 1, 1) != 2 {
		t.Errorf("nucleus label lost")
	}
}
