// Package imagerepo talks to the remote image repository the screen data
// lives in. The pipeline reads acquired multi-channel images from it and
// writes segmentation mask images back as children of a plate's dataset.
package imagerepo

import "github.com/wellquant/core/core/imagestack"

// ImageMeta - identity of one image in the repository
type ImageMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DatasetID string `json:"datasetId"`
}

// ImageRepository - the pipeline's view of the remote store. Calls are
// blocking with no implicit retry; failures surface to the caller.
type ImageRepository interface {
	// GetImage - metadata and per-channel intensity stacks for an image
	GetImage(imageID string) (ImageMeta, []imagestack.ImageStack, error)

	// ListChildren - images in a dataset (used to find persisted masks)
	ListChildren(datasetID string) ([]ImageMeta, error)

	// GetMaskImage - loads a persisted mask image and splits it into its
	// nucleus channel and, when present, cell channel
	GetMaskImage(imageID string) (imagestack.LabelMask, *imagestack.LabelMask, error)

	// UploadMasks - persists a freshly computed nucleus (and optional cell)
	// mask pair as one image named "{sourceImageID}_segmentation" in the
	// dataset. Returns the created image's ID.
	UploadMasks(datasetID string, sourceImageID string, nucleus imagestack.LabelMask, cell *imagestack.LabelMask) (string, error)
}

// MaskImageName - naming convention linking a mask image to its source image
func MaskImageName(sourceImageID string) string {
	return sourceImageID + "_segmentation"
}
