package imagerepo

import (
	"fmt"

	"github.com/wellquant/core/core/fileaccess"
	"github.com/wellquant/core/core/imagestack"
)

const (
	imageKindIntensity = "intensity"
	imageKindMask      = "mask"
)

// storedImageMeta - what sits next to an image's planes in the store
type storedImageMeta struct {
	ImageMeta
	Kind       string `json:"kind"`
	Timepoints int    `json:"timepoints"`
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Channels   int    `json:"channels"`
	Bits       int    `json:"bits,omitempty"`
}

// StoreRepository - image repository over a FileAccess store. The same code
// serves S3 in production and the in-memory store in tests.
type StoreRepository struct {
	fs     fileaccess.FileAccess
	bucket string
}

func MakeStoreRepository(fs fileaccess.FileAccess, bucket string) StoreRepository {
	return StoreRepository{fs: fs, bucket: bucket}
}

func imageMetaPath(imageID string) string {
	return fmt.Sprintf("images/%v/meta.json", imageID)
}

func imagePlanePath(imageID string, channel int, timepoint int) string {
	return fmt.Sprintf("images/%v/ch%v_t%v.bin", imageID, channel, timepoint)
}

func datasetChildPath(datasetID string, imageID string) string {
	return fmt.Sprintf("datasets/%v/children/%v.json", datasetID, imageID)
}

// SaveImage - writes an acquired multi-channel image. Used by import
// tooling and tests; the analysis pipeline itself only reads images.
func (r StoreRepository) SaveImage(meta ImageMeta, channels []imagestack.ImageStack) error {
	if len(channels) == 0 {
		return fmt.Errorf("image %v has no channels", meta.ID)
	}

	stored := storedImageMeta{
		ImageMeta:  meta,
		Kind:       imageKindIntensity,
		Timepoints: channels[0].Timepoints,
		Height:     channels[0].Height,
		Width:      channels[0].Width,
		Channels:   len(channels),
	}

	for c, channel := range channels {
		if !channel.SameShape(channels[0]) {
			return fmt.Errorf("image %v channel %v shape differs", meta.ID, c)
		}
		for t := 0; t < channel.Timepoints; t++ {
			if err := r.fs.WriteObject(r.bucket, imagePlanePath(meta.ID, c, t), encodeIntensityPlane(channel.Plane(t))); err != nil {
				return err
			}
		}
	}

	if err := r.fs.WriteJSON(r.bucket, imageMetaPath(meta.ID), stored); err != nil {
		return err
	}
	return r.fs.WriteJSON(r.bucket, datasetChildPath(meta.DatasetID, meta.ID), meta)
}

func (r StoreRepository) GetImage(imageID string) (ImageMeta, []imagestack.ImageStack, error) {
	var stored storedImageMeta
	if err := r.fs.ReadJSON(r.bucket, imageMetaPath(imageID), &stored, false); err != nil {
		return ImageMeta{}, nil, err
	}
	if stored.Kind != imageKindIntensity {
		return ImageMeta{}, nil, fmt.Errorf("image %v is not an intensity image", imageID)
	}

	channels := make([]imagestack.ImageStack, stored.Channels)
	for c := 0; c < stored.Channels; c++ {
		stack := imagestack.MakeImageStack(stored.Timepoints, stored.Height, stored.Width)
		for t := 0; t < stored.Timepoints; t++ {
			data, err := r.fs.ReadObject(r.bucket, imagePlanePath(imageID, c, t))
			if err != nil {
				return ImageMeta{}, nil, err
			}
			plane, err := decodeIntensityPlane(data, stack.PlaneSize())
			if err != nil {
				return ImageMeta{}, nil, err
			}
			copy(stack.Plane(t), plane)
		}
		channels[c] = stack
	}
	return stored.ImageMeta, channels, nil
}

func (r StoreRepository) ListChildren(datasetID string) ([]ImageMeta, error) {
	paths, err := r.fs.ListObjects(r.bucket, fmt.Sprintf("datasets/%v/children/", datasetID))
	if err != nil {
		return nil, err
	}

	result := []ImageMeta{}
	for _, path := range paths {
		var meta ImageMeta
		if err := r.fs.ReadJSON(r.bucket, path, &meta, false); err != nil {
			return nil, err
		}
		result = append(result, meta)
	}
	return result, nil
}

func (r StoreRepository) GetMaskImage(imageID string) (imagestack.LabelMask, *imagestack.LabelMask, error) {
	var stored storedImageMeta
	if err := r.fs.ReadJSON(r.bucket, imageMetaPath(imageID), &stored, false); err != nil {
		return imagestack.LabelMask{}, nil, err
	}
	if stored.Kind != imageKindMask {
		return imagestack.LabelMask{}, nil, fmt.Errorf("image %v is not a mask image", imageID)
	}

	readMask := func(channel int) (imagestack.LabelMask, error) {
		mask := imagestack.MakeLabelMask(stored.Timepoints, stored.Height, stored.Width)
		mask.Bits = stored.Bits
		for t := 0; t < stored.Timepoints; t++ {
			data, err := r.fs.ReadObject(r.bucket, imagePlanePath(imageID, channel, t))
			if err != nil {
				return imagestack.LabelMask{}, err
			}
			plane, err := decodeMaskPlane(data, stored.Height, stored.Width, stored.Bits)
			if err != nil {
				return imagestack.LabelMask{}, err
			}
			copy(mask.Plane(t), plane)
		}
		return mask, nil
	}

	nucleus, err := readMask(0)
	if err != nil {
		return imagestack.LabelMask{}, nil, err
	}

	if stored.Channels < 2 {
		return nucleus, nil, nil
	}

	cell, err := readMask(1)
	if err != nil {
		return imagestack.LabelMask{}, nil, err
	}
	return nucleus, &cell, nil
}

func (r StoreRepository) UploadMasks(datasetID string, sourceImageID string, nucleus imagestack.LabelMask, cell *imagestack.LabelMask) (string, error) {
	maskID := MaskImageName(sourceImageID)

	channels := 1
	if cell != nil {
		if !cell.SameShape(nucleus) {
			return "", fmt.Errorf("nucleus and cell mask shapes differ for image %v", sourceImageID)
		}
		channels = 2
	}

	stored := storedImageMeta{
		ImageMeta: ImageMeta{
			ID:        maskID,
			Name:      maskID,
			DatasetID: datasetID,
		},
		Kind:       imageKindMask,
		Timepoints: nucleus.Timepoints,
		Height:     nucleus.Height,
		Width:      nucleus.Width,
		Channels:   channels,
		Bits:       nucleus.Bits,
	}

	writeMask := func(channel int, mask imagestack.LabelMask) error {
		planes, err := encodeMask(mask)
		if err != nil {
			return err
		}
		for t, data := range planes {
			if err := r.fs.WriteObject(r.bucket, imagePlanePath(maskID, channel, t), data); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeMask(0, nucleus); err != nil {
		return "", err
	}
	if cell != nil {
		if err := writeMask(1, *cell); err != nil {
			return "", err
		}
	}

	if err := r.fs.WriteJSON(r.bucket, imageMetaPath(maskID), stored); err != nil {
		return "", err
	}
	if err := r.fs.WriteJSON(r.bucket, datasetChildPath(datasetID, maskID), stored.ImageMeta); err != nil {
		return "", err
	}
	return maskID, nil
}
