package regionprops

import (
	"fmt"
	"testing"

	"github.com/wellquant/core/core/imagestack"
)

func TestMeasureSingleTimepoint(t *testing.T) {
	mask := imagestack.MakeLabelMask(1, 2, 4)
	img := imagestack.MakeImageStack(1, 2, 4)

	// Object 1: two pixels valued 10 and 20. Object 3: one pixel valued 5.
	mask.Data = []uint32{1, 1, 0, 3, 0, 0, 0, 0}
	img.Data = []float64{10, 20, 99, 5, 0, 0, 0, 0}

	tab, err := Measure(mask, img, DefaultFeatures, "DAPI", "nucleus")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}

	wantCols := "[label area_nucleus intensity_max_DAPI_nucleus intensity_min_DAPI_nucleus intensity_mean_DAPI_nucleus timepoint]"
	if fmt.Sprintf("%v", tab.Names()) != wantCols {
		t.Fatalf("columns: %v", tab.Names())
	}

	if tab.RowCount() != 2 {
		t.Fatalf("expected 2 rows, got %v", tab.RowCount())
	}

	if tab.IntAt("label", 0) != 1 || tab.IntAt("area_nucleus", 0) != 2 ||
		tab.FloatAt("intensity_mean_DAPI_nucleus", 0) != 15 ||
		tab.FloatAt("intensity_max_DAPI_nucleus", 0) != 20 ||
		tab.FloatAt("intensity_min_DAPI_nucleus", 0) != 10 {
		t.Errorf("object 1 stats wrong")
	}
	if tab.IntAt("label", 1) != 3 || tab.IntAt("area_nucleus", 1) != 1 || tab.FloatAt("intensity_mean_DAPI_nucleus", 1) != 5 {
		t.Errorf("object 3 stats wrong")
	}
	// Single timepoint data still carries timepoint = 0
	if tab.IntAt("timepoint", 0) != 0 || tab.IntAt("timepoint", 1) != 0 {
		t.Errorf("timepoint column wrong")
	}
}

func TestMeasureMultiTimepoint(t *testing.T) {
	mask := imagestack.MakeLabelMask(2, 1, 3)
	img := imagestack.MakeImageStack(2, 1, 3)

	mask.Data = []uint32{2, 0, 1, 0, 0, 0} // t1 has no objects
	img.Data = []float64{8, 0, 4, 1, 1, 1}

	tab, err := Measure(mask, img, DefaultFeatures, "Tub", "cell")
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}

	if tab.RowCount() != 2 {
		t.Fatalf("expected 2 rows (t1 empty), got %v", tab.RowCount())
	}
	// Sorted by (timepoint, label): label 1 before label 2 at t=0
	if tab.IntAt("label", 0) != 1 || tab.IntAt("label", 1) != 2 {
		t.Errorf("row order wrong: %v %v", tab.IntAt("label", 0), tab.IntAt("label", 1))
	}
	if tab.FloatAt("intensity_mean_Tub_cell", 0) != 4 || tab.FloatAt("intensity_mean_Tub_cell", 1) != 8 {
		t.Errorf("intensity values wrong")
	}
}

func TestMeasureShapeMismatch(t *testing.T) {
	mask := imagestack.MakeLabelMask(1, 2, 2)
	img := imagestack.MakeImageStack(1, 3, 3)
	if _, err := Measure(mask, img, DefaultFeatures, "DAPI", "nucleus"); err == nil {
		t.Errorf("expected shape mismatch error")
	}
}

func TestMeasureUnknownFeature(t *testing.T) {
	mask := imagestack.MakeLabelMask(1, 2, 2)
	img := imagestack.MakeImageStack(1, 2, 2)
	if _, err := Measure(mask, img, []string{"label", "perimeter"}, "DAPI", "nucleus"); err == nil {
		t.Errorf("expected unknown feature error")
	}
}
