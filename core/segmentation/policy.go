package segmentation

import "strings"

// ModelChoice - one entry in the model selection policy. Pattern is matched
// case-insensitively as a substring of the cell line name (spaces removed).
type ModelChoice struct {
	Pattern         string
	NucleusDiameter float64
	CellModelID     string
}

// Policy - enumerated model/diameter selection, evaluated in order:
// pattern entries first, then an exact cell-line lookup, then the default.
// This replaces scattered string conditionals so the policy is testable on
// its own.
type Policy struct {
	Choices []ModelChoice

	// Exact cell-line name -> cell model id
	CellModels map[string]string

	NucleusModelID   string
	DefaultCellModel string
	DefaultDiameter  float64
}

// MakeDefaultPolicy - the magnification-token policy: 40X images get a 100px
// diameter hint and the 40x tubulin/H2B model, 20X get 25px and the generic
// cyto model, anything else gets 10px and the per-cell-line (or default)
// model.
func MakeDefaultPolicy() Policy {
	return Policy{
		Choices: []ModelChoice{
			{Pattern: "40X", NucleusDiameter: 100, CellModelID: "40x_Tub_H2B"},
			{Pattern: "20X", NucleusDiameter: 25, CellModelID: "cyto"},
		},
		CellModels: map[string]string{
			"RPE-1": "RPE-1_Tub_Hoechst",
			"U2OS":  "U2OS_Tub_Hoechst",
		},
		NucleusModelID:   "Nuclei_Hoechst",
		DefaultCellModel: "U2OS_Tub_Hoechst",
		DefaultDiameter:  10,
	}
}

// Select - nucleus diameter hint and cell model id for a cell line
func (p Policy) Select(cellLine string) (float64, string) {
	normalised := strings.ToUpper(strings.ReplaceAll(cellLine, " ", ""))

	for _, choice := range p.Choices {
		if strings.Contains(normalised, strings.ToUpper(choice.Pattern)) {
			return choice.NucleusDiameter, choice.CellModelID
		}
	}

	for name, modelID := range p.CellModels {
		if strings.ToUpper(strings.ReplaceAll(name, " ", "")) == normalised {
			return p.DefaultDiameter, modelID
		}
	}

	return p.DefaultDiameter, p.DefaultCellModel
}
