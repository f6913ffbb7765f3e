// Package regionprops measures per-object properties of a label mask
// against one channel's corrected image, producing one table row per
// object per timepoint.
package regionprops

import (
	"fmt"
	"sort"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/table"
)

// DefaultFeatures - the standard measurement set. label and area are
// compartment-scoped; everything after them is renamed per channel.
var DefaultFeatures = []string{"label", "area", "intensity_max", "intensity_min", "intensity_mean"}

type objectStats struct {
	label int64
	area  int64
	min   float64
	max   float64
	sum   float64
}

// Measure - computes the requested features for every labelled object in
// every timepoint. Output columns follow the {feature}_{channel}_{compartment}
// convention except label (the join key), area_{compartment} (area is
// channel-independent) and timepoint. Rows are sorted by (timepoint, label).
func Measure(mask imagestack.LabelMask, img imagestack.ImageStack, features []string, channel string, compartment string) (*table.Table, error) {
	if mask.Timepoints != img.Timepoints || mask.Height != img.Height || mask.Width != img.Width {
		return nil, fmt.Errorf("mask shape (%v,%v,%v) does not match image shape (%v,%v,%v)",
			mask.Timepoints, mask.Height, mask.Width, img.Timepoints, img.Height, img.Width)
	}

	labels := []int64{}
	timepoints := []int64{}
	stats := []objectStats{}

	for t := 0; t < mask.Timepoints; t++ {
		maskPlane := mask.Plane(t)
		imgPlane := img.Plane(t)

		perLabel := map[uint32]*objectStats{}
		for i, v := range maskPlane {
			if v == 0 {
				continue
			}
			s, ok := perLabel[v]
			if !ok {
				s = &objectStats{label: int64(v), min: imgPlane[i], max: imgPlane[i]}
				perLabel[v] = s
			}
			s.area++
			s.sum += imgPlane[i]
			if imgPlane[i] < s.min {
				s.min = imgPlane[i]
			}
			if imgPlane[i] > s.max {
				s.max = imgPlane[i]
			}
		}

		ordered := make([]*objectStats, 0, len(perLabel))
		for _, s := range perLabel {
			ordered = append(ordered, s)
		}
		sort.Slice(ordered, func(a, b int) bool { return ordered[a].label < ordered[b].label })

		for _, s := range ordered {
			labels = append(labels, s.label)
			timepoints = append(timepoints, int64(t))
			stats = append(stats, *s)
		}
	}

	result := table.New()
	for _, feature := range features {
		var err error
		switch feature {
		case "label":
			err = result.AddIntColumn("label", labels)
		case "area":
			areas := make([]int64, len(stats))
			for i, s := range stats {
				areas[i] = s.area
			}
			err = result.AddIntColumn(fmt.Sprintf("area_%v", compartment), areas)
		case "intensity_max":
			err = result.AddFloatColumn(featureColumn(feature, channel, compartment), mapStats(stats, func(s objectStats) float64 { return s.max }))
		case "intensity_min":
			err = result.AddFloatColumn(featureColumn(feature, channel, compartment), mapStats(stats, func(s objectStats) float64 { return s.min }))
		case "intensity_mean":
			err = result.AddFloatColumn(featureColumn(feature, channel, compartment), mapStats(stats, func(s objectStats) float64 { return s.sum / float64(s.area) }))
		default:
			err = fmt.Errorf("unknown feature %v", feature)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := result.AddIntColumn("timepoint", timepoints); err != nil {
		return nil, err
	}
	return result, nil
}

func featureColumn(feature string, channel string, compartment string) string {
	return fmt.Sprintf("%v_%v_%v", feature, channel, compartment)
}

func mapStats(stats []objectStats, get func(objectStats) float64) []float64 {
	values := make([]float64, len(stats))
	for i, s := range stats {
		values[i] = get(s)
	}
	return values
}
