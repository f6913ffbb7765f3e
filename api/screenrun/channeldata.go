package screenrun

import (
	"fmt"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/maskstore"
	"github.com/wellquant/core/core/regionprops"
	"github.com/wellquant/core/core/table"
)

// channelTable - the full merge for one channel. Nucleus features are
// joined to the nucleus->cell link, then (when a cell mask exists) cell and
// cytoplasm features are joined to each other on (label, timepoint), the
// cell label renamed to the shared Cyto_ID key, and both sides joined on
// (Cyto_ID, timepoint). Each join drops rows with unresolved objects and
// restores integer columns the join widened.
func channelTable(channel string, img imagestack.ImageStack, masks maskstore.MaskSet, overlay *table.Table, features []string) (*table.Table, error) {
	nucleusData, err := regionprops.Measure(masks.Nucleus, img, features, channel, "nucleus")
	if err != nil {
		return nil, err
	}

	if masks.Cell != nil {
		nucleusData, err = table.OuterMergeDropNull(nucleusData, overlay, []string{"label"})
		if err != nil {
			return nil, err
		}
	}

	if channel == "DAPI" {
		if err = addIntegratedDAPI(nucleusData); err != nil {
			return nil, err
		}
	}

	if masks.Cell == nil || masks.Cytoplasm == nil {
		return nucleusData, nil
	}

	cellData, err := regionprops.Measure(*masks.Cell, img, features, channel, "cell")
	if err != nil {
		return nil, err
	}
	cytoData, err := regionprops.Measure(*masks.Cytoplasm, img, features, channel, "cyto")
	if err != nil {
		return nil, err
	}

	merged, err := table.OuterMergeDropNull(cellData, cytoData, []string{"label", "timepoint"})
	if err != nil {
		return nil, err
	}
	if err = merged.RenameColumn("label", "Cyto_ID"); err != nil {
		return nil, err
	}
	return table.OuterMergeDropNull(nucleusData, merged, []string{"Cyto_ID", "timepoint"})
}

// addIntegratedDAPI - integrated_int_DAPI = mean nuclear DAPI x nuclear
// area, the DNA-content proxy used by cell cycle analysis downstream
func addIntegratedDAPI(nucleusData *table.Table) error {
	meanCol := nucleusData.Column("intensity_mean_DAPI_nucleus")
	areaCol := nucleusData.Column("area_nucleus")
	if meanCol == nil || areaCol == nil {
		return fmt.Errorf("cannot compute integrated_int_DAPI without intensity_mean and area features")
	}

	integrated := make([]float64, nucleusData.RowCount())
	for row := range integrated {
		integrated[row] = meanCol.Floats[row] * float64(areaCol.Ints[row])
	}
	return nucleusData.AddFloatColumn("integrated_int_DAPI", integrated)
}
