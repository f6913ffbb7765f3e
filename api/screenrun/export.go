package screenrun

import (
	"bytes"
	"path"

	"github.com/pkg/errors"

	"github.com/wellquant/core/core/fileaccess"
)

// SaveResults - writes a plate run's measurement and quality tables as CSV
// next to each other under root/{plateID}_*.csv
func SaveResults(fs fileaccess.FileAccess, bucket string, root string, plateID string, result PlateResult) error {
	measurementsPath := path.Join(root, plateID+"_measurements.csv")
	qualityPath := path.Join(root, plateID+"_quality.csv")

	var buf bytes.Buffer
	if err := result.Measurements.WriteCSV(&buf); err != nil {
		return errors.Wrap(err, "failed to encode measurement csv")
	}
	if err := fs.WriteObject(bucket, measurementsPath, buf.Bytes()); err != nil {
		return errors.Wrapf(err, "failed to write %v", measurementsPath)
	}

	buf.Reset()
	if err := result.Quality.WriteCSV(&buf); err != nil {
		return errors.Wrap(err, "failed to encode quality csv")
	}
	if err := fs.WriteObject(bucket, qualityPath, buf.Bytes()); err != nil {
		return errors.Wrapf(err, "failed to write %v", qualityPath)
	}
	return nil
}
