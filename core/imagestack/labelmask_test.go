package imagestack

import (
	"fmt"
	"testing"
)

func maskWithMax(max uint32) LabelMask {
	m := MakeLabelMask(1, 2, 2)
	m.Data[0] = 1
	m.Data[3] = max
	return m
}

func Example_compact() {
	for _, max := range []uint32{7, 255, 256, 65535, 65536, 1000000} {
		m := Compact(maskWithMax(max))
		fmt.Printf("max %v -> %v bits\n", max, m.Bits)
	}

	// Output:
	// max 7 -> 8 bits
	// max 255 -> 8 bits
	// max 256 -> 16 bits
	// max 65535 -> 16 bits
	// max 65536 -> 32 bits
	// max 1000000 -> 32 bits
}

func TestCompactPreservesValues(t *testing.T) {
	m := maskWithMax(70000)
	c := Compact(m)
	for i := range m.Data {
		if c.Data[i] != m.Data[i] {
			t.Fatalf("value changed at %v: %v != %v", i, c.Data[i], m.Data[i])
		}
	}
}

func TestCompactPairSharesWidth(t *testing.T) {
	nuc := maskWithMax(12)
	cell := maskWithMax(300)
	nuc, cell = CompactPair(nuc, cell)
	if nuc.Bits != 16 || cell.Bits != 16 {
		t.Errorf("expected shared 16 bit width, got %v and %v", nuc.Bits, cell.Bits)
	}
}

func TestDeriveCytoplasm(t *testing.T) {
	// One cell (label 3) spanning 4 pixels, nucleus (label 1) covering 2 of them
	cell := MakeLabelMask(1, 2, 2)
	nuc := MakeLabelMask(1, 2, 2)
	for i := range cell.Data {
		cell.Data[i] = 3
	}
	nuc.Data[0] = 1
	nuc.Data[1] = 1

	cyto := DeriveCytoplasm(nuc, cell)
	want := []uint32{0, 0, 3, 3}
	for i := range want {
		if cyto.Data[i] != want[i] {
			t.Fatalf("cytoplasm mismatch at %v: got %v want %v", i, cyto.Data[i], want[i])
		}
	}

	// Re-deriving using the cytoplasm as the "cell" must give the same answer:
	// no nucleus pixel can survive either pass
	again := DeriveCytoplasm(nuc, cyto)
	for i := range cyto.Data {
		if again.Data[i] != cyto.Data[i] {
			t.Fatalf("derivation not idempotent at %v", i)
		}
	}
}

func TestDeriveCytoplasmShapeMismatch(t *testing.T) {
	cell := MakeLabelMask(1, 2, 2)
	cell.Data[0] = 5
	nuc := MakeLabelMask(1, 3, 3)

	cyto := DeriveCytoplasm(nuc, cell)
	if !cyto.SameShape(cell) {
		t.Errorf("cytoplasm shape should follow cell mask")
	}
	for i, v := range cyto.Data {
		if v != 0 {
			t.Errorf("expected all-zero mask, got %v at %v", v, i)
		}
	}
}
