package flatfield

import (
	"errors"
	"testing"

	"github.com/wellquant/core/core/imagestack"
)

func TestCorrect(t *testing.T) {
	raw := imagestack.MakeImageStack(2, 2, 2)
	for i := range raw.Data {
		raw.Data[i] = float64(i + 1)
	}

	field := imagestack.MakeImageStack(1, 2, 2)
	field.Data = []float64{1, 2, 4, 8}

	corrected, err := Correct(raw, field)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	want := []float64{1, 1, 0.75, 0.5, 5, 3, 1.75, 1}
	for i := range want {
		if corrected.Data[i] != want[i] {
			t.Errorf("pixel %v: got %v want %v", i, corrected.Data[i], want[i])
		}
	}

	// Input must not be touched
	if raw.Data[0] != 1 {
		t.Errorf("raw image was modified")
	}
}

func TestCorrectShapeMismatch(t *testing.T) {
	raw := imagestack.MakeImageStack(1, 4, 4)
	field := imagestack.MakeImageStack(1, 2, 2)

	_, err := Correct(raw, field)
	var shapeErr ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if shapeErr.FieldHeight != 2 || shapeErr.ImageHeight != 4 {
		t.Errorf("error fields wrong: %+v", shapeErr)
	}
}
