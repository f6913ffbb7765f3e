// Package classifier defines the post-processing extension point. After an
// image's measurement table and cell mask exist, each classifier in an
// ordered list gets a chance to inspect the channel set, decide whether it
// applies, and append derived columns to the table.
package classifier

import (
	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/table"
)

// Classifier - the capability contract. SelectChannels decides applicability
// from the channel names alone; ProcessImages transforms the measurement
// table using the cell mask as context. The pipeline knows nothing about
// concrete classifier behaviour.
type Classifier interface {
	SelectChannels(channels map[string]imagestack.ImageStack) bool
	ProcessImages(measurements *table.Table, cellMask imagestack.LabelMask) (*table.Table, error)
}

// Apply - runs each applicable classifier in order, threading the table
// through. Non-applicable classifiers are skipped silently.
func Apply(classifiers []Classifier, channels map[string]imagestack.ImageStack, measurements *table.Table, cellMask imagestack.LabelMask) (*table.Table, error) {
	result := measurements
	for _, c := range classifiers {
		if !c.SelectChannels(channels) {
			continue
		}
		transformed, err := c.ProcessImages(result, cellMask)
		if err != nil {
			return nil, err
		}
		result = transformed
	}
	return result, nil
}
