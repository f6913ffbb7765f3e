package classifier

import (
	"fmt"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/table"
)

// MarkerPositiveClassifier - flags objects whose mean marker intensity
// exceeds a fixed threshold, appending a {channel}_positive 0/1 column.
// Applies only when the marker channel was actually imaged.
type MarkerPositiveClassifier struct {
	Channel     string
	Compartment string
	Threshold   float64
}

func (c *MarkerPositiveClassifier) SelectChannels(channels map[string]imagestack.ImageStack) bool {
	_, ok := channels[c.Channel]
	return ok
}

func (c *MarkerPositiveClassifier) ProcessImages(measurements *table.Table, cellMask imagestack.LabelMask) (*table.Table, error) {
	sourceName := fmt.Sprintf("intensity_mean_%v_%v", c.Channel, c.Compartment)
	source := measurements.Column(sourceName)
	if source == nil {
		return nil, fmt.Errorf("measurement column %v not found", sourceName)
	}
	if source.Kind != table.KindFloat {
		return nil, fmt.Errorf("measurement column %v is not float", sourceName)
	}

	flags := make([]int64, measurements.RowCount())
	for row := range flags {
		if source.Floats[row] > c.Threshold {
			flags[row] = 1
		}
	}

	err := measurements.AddIntColumn(fmt.Sprintf("%v_positive", c.Channel), flags)
	if err != nil {
		return nil, err
	}
	return measurements, nil
}
