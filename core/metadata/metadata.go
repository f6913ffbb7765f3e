// Package metadata supplies the per-plate and per-well annotations the
// pipeline needs: which image channel index each channel name maps to, and
// the experimental conditions applied to each well.
package metadata

import "fmt"

type PlateMeta struct {
	PlateID  string         `json:"plateId" bson:"_id"`
	Name     string         `json:"name" bson:"name"`
	Dataset  string         `json:"dataset" bson:"dataset"`
	Channels map[string]int `json:"channels" bson:"channels"`
}

type WellMeta struct {
	PlateID    string            `json:"plateId" bson:"plateId"`
	Position   string            `json:"position" bson:"position"`
	WellID     string            `json:"wellId" bson:"wellId"`
	ImageIDs   []string          `json:"imageIds" bson:"imageIds"`
	Conditions map[string]string `json:"conditions" bson:"conditions"`
}

// Provider - metadata lookup contract. Parsing/validation of plate layouts
// happens upstream of this; the pipeline only consumes the result.
type Provider interface {
	Plate(plateID string) (PlateMeta, error)
	Well(plateID string, position string) (WellMeta, error)
	Wells(plateID string) ([]WellMeta, error)
}

// CellLine - the cell line condition for a well. Layouts are annotated with
// either "cell_line" or "Cell_Line" depending on who made them.
func (w WellMeta) CellLine() (string, error) {
	if line, ok := w.Conditions["cell_line"]; ok {
		return line, nil
	}
	if line, ok := w.Conditions["Cell_Line"]; ok {
		return line, nil
	}
	return "", fmt.Errorf("well %v has no cell line condition", w.Position)
}
