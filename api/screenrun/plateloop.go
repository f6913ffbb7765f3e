package screenrun

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/table"
)

var (
	imagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellquant_images_processed_total",
		Help: "Number of images fully processed into measurement rows.",
	})
	imagesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellquant_images_failed_total",
		Help: "Number of images whose processing failed and was skipped.",
	})
)

// PlateResult - the combined outputs of one plate run
type PlateResult struct {
	Measurements *table.Table
	Quality      *table.Table

	ImagesProcessed int
	ImagesFailed    int
}

// RunPlate - processes every image of every well on a plate. Wells whose
// cell line is "Empty" are skipped. A failing image is logged and skipped
// without aborting the batch; the failure count comes back in the result.
func (r Runner) RunPlate(plateID string, flatfields map[string]imagestack.ImageStack) (PlateResult, error) {
	plate, err := r.meta.Plate(plateID)
	if err != nil {
		return PlateResult{}, errors.Wrapf(err, "failed to read metadata for plate %v", plateID)
	}
	wells, err := r.meta.Wells(plateID)
	if err != nil {
		return PlateResult{}, errors.Wrapf(err, "failed to list wells for plate %v", plateID)
	}

	result := PlateResult{}
	measurementTables := []*table.Table{}
	qualityTables := []*table.Table{}

	for _, well := range wells {
		cellLine, err := well.CellLine()
		if err != nil {
			r.log.Errorf("Skipping well %v: %v", well.Position, err)
			continue
		}
		if cellLine == "Empty" {
			r.log.Debugf("Skipping empty well %v", well.Position)
			continue
		}

		r.log.Infof("Processing well %v (%v), %v images", well.Position, cellLine, len(well.ImageIDs))
		for _, imageID := range well.ImageIDs {
			imageResult, err := r.ProcessImage(plate, well, imageID, flatfields)
			if err != nil {
				imagesFailed.Inc()
				result.ImagesFailed++
				r.log.Errorf("Image %v in well %v failed: %v", imageID, well.Position, err)
				continue
			}

			imagesProcessed.Inc()
			result.ImagesProcessed++
			measurementTables = append(measurementTables, imageResult.Measurements)
			qualityTables = append(qualityTables, imageResult.Quality)
		}
	}

	// Per-image tables can legitimately differ in columns (a well lacking a
	// condition key, or a nucleus-only mask next to nucleus+cell neighbours),
	// so the combine takes the column union instead of requiring identity
	result.Measurements, err = table.ConcatRowsUnion(measurementTables...)
	if err != nil {
		return PlateResult{}, errors.Wrap(err, "failed to combine per-image measurement tables")
	}
	result.Quality, err = table.ConcatRowsUnion(qualityTables...)
	if err != nil {
		return PlateResult{}, errors.Wrap(err, "failed to combine per-image quality tables")
	}
	return result, nil
}
