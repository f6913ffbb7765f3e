package metadata

import (
	"fmt"
	"testing"
)

func Example_staticProvider() {
	provider := &StaticProvider{
		Plates: []PlateMeta{
			{PlateID: "p1", Name: "exp-2024-01", Channels: map[string]int{"DAPI": 0}},
		},
		WellMetas: []WellMeta{
			{PlateID: "p1", Position: "A1", WellID: "w1", Conditions: map[string]string{"cell_line": "RPE-1"}},
			{PlateID: "p1", Position: "B2", WellID: "w2", Conditions: map[string]string{"cell_line": "U2OS"}},
			{PlateID: "p2", Position: "A1", WellID: "w9", Conditions: map[string]string{}},
		},
	}

	plate, err := provider.Plate("p1")
	fmt.Printf("%v|%v\n", plate.Name, err)

	wells, err := provider.Wells("p1")
	fmt.Printf("%v|%v\n", len(wells), err)

	well, err := provider.Well("p1", "B2")
	fmt.Printf("%v|%v\n", well.WellID, err)

	_, err = provider.Well("p1", "C3")
	fmt.Printf("%v\n", err)

	// Output:
	// exp-2024-01|<nil>
	// 2|<nil>
	// w2|<nil>
	// well C3 not found on plate p1
}

func TestCellLine(t *testing.T) {
	well := WellMeta{Position: "A1", Conditions: map[string]string{"cell_line": "RPE-1"}}
	if line, err := well.CellLine(); err != nil || line != "RPE-1" {
		t.Errorf("lower-case key: got %v, %v", line, err)
	}

	well = WellMeta{Position: "A1", Conditions: map[string]string{"Cell_Line": "U2OS"}}
	if line, err := well.CellLine(); err != nil || line != "U2OS" {
		t.Errorf("capitalised key: got %v, %v", line, err)
	}

	well = WellMeta{Position: "A1", Conditions: map[string]string{"condition": "DMSO"}}
	if _, err := well.CellLine(); err == nil {
		t.Errorf("expected error for well without cell line")
	}
}
