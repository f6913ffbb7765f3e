// Package maskstore caches segmentation masks in the image repository so
// each image is segmented at most once per store lifetime.
package maskstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wellquant/core/core/imagerepo"
	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/logger"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellquant_mask_cache_hits_total",
		Help: "Number of mask lookups served from the image repository.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellquant_mask_cache_misses_total",
		Help: "Number of mask lookups that required running segmentation.",
	})
)

// MaskSet - all compartment masks for one image. Cell and Cytoplasm are nil
// when the image has no cell-type channel.
type MaskSet struct {
	Nucleus   imagestack.LabelMask
	Cell      *imagestack.LabelMask
	Cytoplasm *imagestack.LabelMask
}

// ComputeFunc - runs segmentation, returning uncompacted nucleus and
// optional cell masks
type ComputeFunc func() (imagestack.LabelMask, *imagestack.LabelMask, error)

type Store struct {
	repo imagerepo.ImageRepository
	log  logger.ILogger
}

func MakeStore(repo imagerepo.ImageRepository, log logger.ILogger) Store {
	return Store{repo: repo, log: log}
}

// GetOrCompute - returns the masks for an image, loading them from the
// repository when a "{imageID}_segmentation" child already exists in the
// dataset, otherwise running compute, compacting the result and persisting
// it exactly once before returning.
//
// There is no per-key locking: two callers processing the same image can
// both miss the existence check and persist twice. The second write wins
// and the data is identical, so this stays a documented gap rather than
// being hidden behind a lock.
func (s Store) GetOrCompute(datasetID string, imageID string, compute ComputeFunc) (MaskSet, error) {
	maskName := imagerepo.MaskImageName(imageID)

	children, err := s.repo.ListChildren(datasetID)
	if err != nil {
		return MaskSet{}, err
	}

	for _, child := range children {
		if child.Name != maskName {
			continue
		}

		s.log.Infof("Segmentation masks found for image %v", imageID)
		cacheHits.Inc()

		nucleus, cell, err := s.repo.GetMaskImage(child.ID)
		if err != nil {
			return MaskSet{}, err
		}
		return withCytoplasm(nucleus, cell), nil
	}

	cacheMisses.Inc()
	s.log.Infof("No masks stored for image %v, running segmentation", imageID)

	nucleus, cell, err := compute()
	if err != nil {
		return MaskSet{}, err
	}

	// Compaction happens only once the full pair is known: both
	// compartments are persisted in one image and share an element width
	if cell != nil {
		var compactedCell imagestack.LabelMask
		nucleus, compactedCell = imagestack.CompactPair(nucleus, *cell)
		cell = &compactedCell
	} else {
		nucleus = imagestack.Compact(nucleus)
	}

	if _, err := s.repo.UploadMasks(datasetID, imageID, nucleus, cell); err != nil {
		return MaskSet{}, err
	}
	return withCytoplasm(nucleus, cell), nil
}

func withCytoplasm(nucleus imagestack.LabelMask, cell *imagestack.LabelMask) MaskSet {
	set := MaskSet{Nucleus: nucleus, Cell: cell}
	if cell != nil {
		cyto := imagestack.DeriveCytoplasm(nucleus, *cell)
		set.Cytoplasm = &cyto
	}
	return set
}
