package screenrun

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/wellquant/core/core/classifier"
	"github.com/wellquant/core/core/flatfield"
	"github.com/wellquant/core/core/imagerepo"
	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/logger"
	"github.com/wellquant/core/core/maskstore"
	"github.com/wellquant/core/core/metadata"
	"github.com/wellquant/core/core/quality"
	"github.com/wellquant/core/core/regionprops"
	"github.com/wellquant/core/core/segmentation"
	"github.com/wellquant/core/core/table"
	"github.com/wellquant/core/core/timestamper"
)

const DefaultNucleusChannel = "DAPI"
const DefaultCellChannel = "Tub"

// Runner - everything needed to process images of a screen plate. Built
// once, then driven per image or per plate.
type Runner struct {
	repo        imagerepo.ImageRepository
	masks       maskstore.Store
	engine      segmentation.Engine
	meta        metadata.Provider
	classifiers []classifier.Classifier

	features       []string
	nucleusChannel string
	cellChannel    string

	ts  timestamper.ITimeStamper
	log logger.ILogger
}

func MakeRunner(
	repo imagerepo.ImageRepository,
	masks maskstore.Store,
	engine segmentation.Engine,
	meta metadata.Provider,
	classifiers []classifier.Classifier,
	ts timestamper.ITimeStamper,
	log logger.ILogger) Runner {
	return Runner{
		repo:           repo,
		masks:          masks,
		engine:         engine,
		meta:           meta,
		classifiers:    classifiers,
		features:       regionprops.DefaultFeatures,
		nucleusChannel: DefaultNucleusChannel,
		cellChannel:    DefaultCellChannel,
		ts:             ts,
		log:            log,
	}
}

// ImageResult - outputs for one processed image
type ImageResult struct {
	Measurements *table.Table
	Quality      *table.Table
}

// ProcessImage - runs the whole pipeline for one image of a well: flatfield
// correction per channel, mask lookup or segmentation, overlay linkage,
// per-channel merge, condition annotation, classifiers and the quality
// table. The image's arrays live only for this call; masks may additionally
// be persisted to the repository as a side effect.
func (r Runner) ProcessImage(plate metadata.PlateMeta, well metadata.WellMeta, imageID string, flatfields map[string]imagestack.ImageStack) (ImageResult, error) {
	_, stacks, err := r.repo.GetImage(imageID)
	if err != nil {
		return ImageResult{}, errors.Wrapf(err, "failed to read image %v", imageID)
	}

	channelNames, corrected, err := r.correctChannels(plate, stacks, flatfields)
	if err != nil {
		return ImageResult{}, err
	}

	nucleusImg, ok := corrected[r.nucleusChannel]
	if !ok {
		return ImageResult{}, fmt.Errorf("plate %v has no %v channel", plate.PlateID, r.nucleusChannel)
	}
	cellImg, hasCellChannel := corrected[r.cellChannel]

	cellLine, err := well.CellLine()
	if err != nil {
		return ImageResult{}, err
	}

	compute := func() (imagestack.LabelMask, *imagestack.LabelMask, error) {
		nucleus, err := r.engine.SegmentNuclei(nucleusImg, cellLine)
		if err != nil {
			return imagestack.LabelMask{}, nil, err
		}
		if !hasCellChannel {
			return nucleus, nil, nil
		}
		cell, err := r.engine.SegmentCells(nucleusImg, cellImg, cellLine)
		if err != nil {
			return imagestack.LabelMask{}, nil, err
		}
		return nucleus, &cell, nil
	}

	masks, err := r.masks.GetOrCompute(plate.Dataset, imageID, compute)
	if err != nil {
		return ImageResult{}, errors.Wrapf(err, "failed to get masks for image %v", imageID)
	}

	// The overlay link is built once per image from all timepoints combined,
	// then reused by every channel merge
	var overlay *table.Table
	if masks.Cell != nil {
		overlay, err = BuildOverlay(masks.Nucleus, *masks.Cell)
		if err != nil {
			return ImageResult{}, err
		}
	}

	channelTables := []*table.Table{}
	for _, channel := range channelNames {
		tab, err := channelTable(channel, corrected[channel], masks, overlay, r.features)
		if err != nil {
			return ImageResult{}, errors.Wrapf(err, "channel %v failed for image %v", channel, imageID)
		}
		channelTables = append(channelTables, tab)
	}

	measurements, err := table.ConcatColumns(channelTables...)
	if err != nil {
		return ImageResult{}, err
	}

	if err = annotateConditions(measurements, plate, well, imageID); err != nil {
		return ImageResult{}, err
	}
	if err = measurements.SortByIntColumns("timepoint"); err != nil {
		return ImageResult{}, err
	}

	if masks.Cell != nil && len(r.classifiers) > 0 {
		measurements, err = classifier.Apply(r.classifiers, corrected, measurements, *masks.Cell)
		if err != nil {
			return ImageResult{}, errors.Wrapf(err, "classification failed for image %v", imageID)
		}
	}

	tag := quality.ImageTag{Experiment: plate.Name, PlateID: plate.PlateID, Position: well.Position, ImageID: imageID}
	channelImgs := make([]imagestack.ImageStack, 0, len(channelNames))
	for _, channel := range channelNames {
		channelImgs = append(channelImgs, corrected[channel])
	}
	qualityTab, err := quality.Measure(tag, channelNames, channelImgs, r.ts)
	if err != nil {
		return ImageResult{}, err
	}

	return ImageResult{Measurements: measurements, Quality: qualityTab}, nil
}

// correctChannels - flatfield-corrects every channel the plate metadata
// names, returning names ordered by channel index so downstream column
// order is deterministic. A channel with no correction field passes
// through uncorrected.
func (r Runner) correctChannels(plate metadata.PlateMeta, stacks []imagestack.ImageStack, flatfields map[string]imagestack.ImageStack) ([]string, map[string]imagestack.ImageStack, error) {
	channelNames := make([]string, 0, len(plate.Channels))
	for name := range plate.Channels {
		channelNames = append(channelNames, name)
	}
	sort.Slice(channelNames, func(a, b int) bool {
		return plate.Channels[channelNames[a]] < plate.Channels[channelNames[b]]
	})

	corrected := map[string]imagestack.ImageStack{}
	for _, name := range channelNames {
		idx := plate.Channels[name]
		if idx < 0 || idx >= len(stacks) {
			return nil, nil, fmt.Errorf("channel %v index %v out of range, image has %v channels", name, idx, len(stacks))
		}

		if field, ok := flatfields[name]; ok {
			img, err := flatfield.Correct(stacks[idx], field)
			if err != nil {
				return nil, nil, err
			}
			corrected[name] = img
		} else {
			corrected[name] = stacks[idx]
		}
	}
	return channelNames, corrected, nil
}

// annotateConditions - constant-per-image identity columns followed by the
// well's condition dictionary, keys lowercased, in sorted key order
func annotateConditions(measurements *table.Table, plate metadata.PlateMeta, well metadata.WellMeta, imageID string) error {
	if err := measurements.AddConstStringColumn("experiment", plate.Name); err != nil {
		return err
	}
	if err := measurements.AddConstStringColumn("plate_id", plate.PlateID); err != nil {
		return err
	}
	if err := measurements.AddConstStringColumn("well", well.Position); err != nil {
		return err
	}
	if err := measurements.AddConstStringColumn("well_id", well.WellID); err != nil {
		return err
	}
	if err := measurements.AddConstStringColumn("image_id", imageID); err != nil {
		return err
	}

	keys := make([]string, 0, len(well.Conditions))
	for k := range well.Conditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := measurements.AddConstStringColumn(strings.ToLower(k), well.Conditions[k]); err != nil {
			return err
		}
	}
	return nil
}
