package imagerepo

import (
	"testing"

	"github.com/wellquant/core/core/fileaccess"
	"github.com/wellquant/core/core/imagestack"
)

func makeRepo() StoreRepository {
	return MakeStoreRepository(fileaccess.MakeMemoryAccess(), "screen-data")
}

func TestImageRoundTrip(t *testing.T) {
	repo := makeRepo()

	dapi := imagestack.MakeImageStack(2, 3, 4)
	tub := imagestack.MakeImageStack(2, 3, 4)
	for i := range dapi.Data {
		dapi.Data[i] = float64(i) * 0.5
		tub.Data[i] = float64(i) * 1.25
	}

	meta := ImageMeta{ID: "im1", Name: "well A1 field 0", DatasetID: "ds9"}
	if err := repo.SaveImage(meta, []imagestack.ImageStack{dapi, tub}); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}

	gotMeta, channels, err := repo.GetImage("im1")
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if gotMeta != meta {
		t.Errorf("meta mismatch: %+v", gotMeta)
	}
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels, got %v", len(channels))
	}
	for i := range dapi.Data {
		if channels[0].Data[i] != dapi.Data[i] || channels[1].Data[i] != tub.Data[i] {
			t.Fatalf("pixel mismatch at %v", i)
		}
	}

	children, err := repo.ListChildren("ds9")
	if err != nil || len(children) != 1 || children[0].ID != "im1" {
		t.Errorf("ListChildren: %v, %+v", err, children)
	}
}

func maskRoundTrip(t *testing.T, maxLabel uint32, wantBits int) {
	repo := makeRepo()

	nuc := imagestack.MakeLabelMask(2, 4, 4)
	cell := imagestack.MakeLabelMask(2, 4, 4)
	nuc.Data[0] = 1
	nuc.Data[20] = maxLabel
	cell.Data[0] = 2
	cell.Data[21] = 3
	nuc, cell = imagestack.CompactPair(nuc, cell)
	if nuc.Bits != wantBits {
		t.Fatalf("compacted to %v bits, expected %v", nuc.Bits, wantBits)
	}

	maskID, err := repo.UploadMasks("ds9", "im1", nuc, &cell)
	if err != nil {
		t.Fatalf("UploadMasks: %v", err)
	}
	if maskID != "im1_segmentation" {
		t.Errorf("mask id: %v", maskID)
	}

	gotNuc, gotCell, err := repo.GetMaskImage(maskID)
	if err != nil {
		t.Fatalf("GetMaskImage: %v", err)
	}
	if gotCell == nil {
		t.Fatalf("cell mask missing")
	}
	for i := range nuc.Data {
		if gotNuc.Data[i] != nuc.Data[i] || gotCell.Data[i] != cell.Data[i] {
			t.Fatalf("mask pixel mismatch at %v: %v/%v %v/%v", i, gotNuc.Data[i], nuc.Data[i], gotCell.Data[i], cell.Data[i])
		}
	}
}

func TestMaskRoundTrip8Bit(t *testing.T)  { maskRoundTrip(t, 200, 8) }
func TestMaskRoundTrip16Bit(t *testing.T) { maskRoundTrip(t, 60000, 16) }
func TestMaskRoundTrip32Bit(t *testing.T) { maskRoundTrip(t, 70000, 32) }

func TestNucleusOnlyMask(t *testing.T) {
	repo := makeRepo()

	nuc := imagestack.Compact(imagestack.MakeLabelMask(1, 4, 4))
	nuc.Data[5] = 1

	maskID, err := repo.UploadMasks("ds9", "im2", nuc, nil)
	if err != nil {
		t.Fatalf("UploadMasks: %v", err)
	}

	gotNuc, gotCell, err := repo.GetMaskImage(maskID)
	if err != nil {
		t.Fatalf("GetMaskImage: %v", err)
	}
	if gotCell != nil {
		t.Errorf("expected no cell mask")
	}
	if gotNuc.Data[5] != 1 {
		t.Errorf("nucleus label lost")
	}
}
