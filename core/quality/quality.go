// Package quality builds the per-channel diagnostic side table: one row per
// channel of an image, holding the median intensity of the corrected image.
// It is computed from the full pixel array, independent of segmentation.
package quality

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/table"
	"github.com/wellquant/core/core/timestamper"
)

// ImageTag - identifies where a quality row came from
type ImageTag struct {
	Experiment string
	PlateID    string
	Position   string
	ImageID    string
}

// MedianIntensity - the median over every pixel in every timepoint
func MedianIntensity(img imagestack.ImageStack) float64 {
	if len(img.Data) <= 0 {
		return 0
	}
	values := make([]float64, len(img.Data))
	copy(values, img.Data)
	sort.Float64s(values)
	return stat.Quantile(0.5, stat.LinInterp, values, nil)
}

// Measure - one row per channel, in the order given. recorded_unixsec records
// when the measurement was taken so stale cached runs can be spotted.
func Measure(tag ImageTag, channelNames []string, channels []imagestack.ImageStack, ts timestamper.ITimeStamper) (*table.Table, error) {
	if len(channelNames) != len(channels) {
		return nil, fmt.Errorf("%v channel names for %v images", len(channelNames), len(channels))
	}

	rowCount := len(channelNames)
	recorded := ts.GetTimeNowSec()

	names := make([]string, 0, rowCount)
	medians := make([]float64, 0, rowCount)
	stamps := make([]int64, 0, rowCount)
	for i, name := range channelNames {
		names = append(names, name)
		medians = append(medians, MedianIntensity(channels[i]))
		stamps = append(stamps, recorded)
	}

	result := table.New()
	tagCols := []struct {
		name  string
		value string
	}{
		{"experiment", tag.Experiment},
		{"plate_id", tag.PlateID},
		{"position", tag.Position},
		{"image_id", tag.ImageID},
	}
	for _, col := range tagCols {
		values := make([]string, rowCount)
		for i := range values {
			values[i] = col.value
		}
		if err := result.AddStringColumn(col.name, values); err != nil {
			return nil, err
		}
	}
	if err := result.AddStringColumn("channel", names); err != nil {
		return nil, err
	}
	if err := result.AddFloatColumn("intensity_median", medians); err != nil {
		return nil, err
	}
	if err := result.AddIntColumn("recorded_unixsec", stamps); err != nil {
		return nil, err
	}
	return result, nil
}
