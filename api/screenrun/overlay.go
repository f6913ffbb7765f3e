// Package screenrun orchestrates the per-image pipeline: flatfield
// correction, mask acquisition through the cache, overlay linkage, the
// per-channel merge, condition annotation, classifiers and the quality
// side table, plus the well/plate batch loop on top.
package screenrun

import (
	"sort"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/table"
)

// BuildOverlay - links nucleus labels to their enclosing cell label from the
// pixels where both masks are non-zero, over all timepoints combined. A
// nucleus overlapping more than one cell goes to the cell covering the most
// of it; an exact tie goes to the smaller cell label. Nuclei with no
// enclosing cell are absent.
//
// Columns: label (nucleus), Cyto_ID (cell), sorted by label.
func BuildOverlay(nucleus imagestack.LabelMask, cell imagestack.LabelMask) (*table.Table, error) {
	counts := map[uint32]map[uint32]int{}
	if len(nucleus.Data) != len(cell.Data) {
		// Mismatched masks cannot be linked; an empty link table drops
		// everything downstream rather than guessing
		empty := table.New()
		if err := empty.AddIntColumn("label", []int64{}); err != nil {
			return nil, err
		}
		if err := empty.AddIntColumn("Cyto_ID", []int64{}); err != nil {
			return nil, err
		}
		return empty, nil
	}

	for i, n := range nucleus.Data {
		if n == 0 || cell.Data[i] == 0 {
			continue
		}
		perCell, ok := counts[n]
		if !ok {
			perCell = map[uint32]int{}
			counts[n] = perCell
		}
		perCell[cell.Data[i]]++
	}

	nucleusLabels := make([]uint32, 0, len(counts))
	for n := range counts {
		nucleusLabels = append(nucleusLabels, n)
	}
	sort.Slice(nucleusLabels, func(a, b int) bool { return nucleusLabels[a] < nucleusLabels[b] })

	labels := make([]int64, 0, len(nucleusLabels))
	cytoIDs := make([]int64, 0, len(nucleusLabels))
	for _, n := range nucleusLabels {
		best := uint32(0)
		bestCount := 0
		for c, count := range counts[n] {
			if count > bestCount || (count == bestCount && c < best) {
				best = c
				bestCount = count
			}
		}
		labels = append(labels, int64(n))
		cytoIDs = append(cytoIDs, int64(best))
	}

	result := table.New()
	if err := result.AddIntColumn("label", labels); err != nil {
		return nil, err
	}
	if err := result.AddIntColumn("Cyto_ID", cytoIDs); err != nil {
		return nil, err
	}
	return result, nil
}
