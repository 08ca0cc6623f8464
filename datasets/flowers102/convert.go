// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package flowers102

import (
	"path/filepath"
	"slices"
	"strconv"

	"github.com/ml-data-kit/mldatakit/pkg/container"
	"github.com/ml-data-kit/mldatakit/pkg/ingest"
	"github.com/ml-data-kit/mldatakit/pkg/support/sets"
	"github.com/ml-data-kit/mldatakit/pkg/support/xslices"
	"github.com/pkg/errors"
)

// Metadata of the dataset, as loaded from setid.mat and imagelabels.mat.
type Metadata struct {
	// Splits maps split name to the 1-based indices of its images.
	Splits map[string]sets.Set[int]

	// LabelLookup holds the category id of image i at position i-1.
	LabelLookup []int
}

// LoadMetadata reads both MATLAB side files from dataDir.
func LoadMetadata(dataDir string) (*Metadata, error) {
	splits, err := LoadSplits(filepath.Join(dataDir, SetIDFile))
	if err != nil {
		return nil, err
	}
	lookup, err := LoadLabels(filepath.Join(dataDir, LabelsFile))
	if err != nil {
		return nil, err
	}
	return &Metadata{Splits: splits, LabelLookup: lookup}, nil
}

// Vocabulary of the distinct category ids in the lookup, in increasing numeric order.
// With the full dataset it is "1" to "102", so label = category id - 1.
func (md *Metadata) Vocabulary() *ingest.Vocabulary {
	ids := xslices.SortedUnique(md.LabelLookup)
	return ingest.NewVocabulary(xslices.Map(ids, strconv.Itoa)...)
}

// Labeler resolves the label of an image from the index in its file name.
func (md *Metadata) Labeler(vocabulary *ingest.Vocabulary) ingest.LabelFunc {
	return func(imageName string) (int, string, error) {
		index, ok := ingest.ImageIndex(imageName)
		if !ok {
			return -1, "", errors.Errorf("can't parse image index from file name %q", imageName)
		}
		if index < 1 || index > len(md.LabelLookup) {
			return -1, "", errors.Wrapf(ingest.ErrMissingMembership,
				"image %q has index %d, but there are only %d labels", imageName, index, len(md.LabelLookup))
		}
		id := strconv.Itoa(md.LabelLookup[index-1])
		label, err := vocabulary.Index(id)
		if err != nil {
			return -1, id, errors.WithMessagef(err, "image %q", imageName)
		}
		return label, id, nil
	}
}

// CategoryNames maps category ids "1" to "102" to the flower names.
func CategoryNames() map[string]string {
	names := make(map[string]string, len(Names))
	for ii, name := range Names {
		names[strconv.Itoa(ii+1)] = name
	}
	return names
}

// Options for Convert.
type Options struct {
	// DataDir holds the extracted "jpg" folder.
	DataDir string

	// OutputDir where the containers are written.
	OutputDir string

	// Extension of the container files, e.g. ".h5" or ".arrow". Defaults to ".h5".
	Extension string

	// Writer of the containers. Defaults to a writer with container.DefaultCompressionLevel.
	Writer *container.Writer

	// Splits to convert. If empty, all of them.
	Splits []string

	// ResizeWhileLoading resizes each image right after decoding it.
	ResizeWhileLoading bool

	// WithLabelNames adds a "label_names" field with the flower name of each image.
	WithLabelNames bool
}

// Convert every selected split to a container in opts.OutputDir, named after the split.
func Convert(md *Metadata, opts Options) ([]ingest.SplitSummary, error) {
	if opts.Extension == "" {
		opts.Extension = ".h5"
	}
	if opts.Writer == nil {
		opts.Writer = container.NewWriter(container.DefaultCompressionLevel)
	}
	for _, name := range opts.Splits {
		if _, found := md.Splits[name]; !found {
			return nil, errors.Errorf("unknown split %q for Oxford Flowers 102", name)
		}
	}

	vocabulary := md.Vocabulary()
	labeler := md.Labeler(vocabulary)
	var categoryNames map[string]string
	if opts.WithLabelNames {
		categoryNames = CategoryNames()
	}
	imagesDir := filepath.Join(opts.DataDir, ImagesDir)
	var summaries []ingest.SplitSummary
	for _, split := range Splits {
		if len(opts.Splits) > 0 && !slices.Contains(opts.Splits, split.Name) {
			continue
		}
		indices := md.Splits[split.Name]
		collection, err := ingest.LoadSplit(imagesDir, ingest.Options{
			Split:              split.Name,
			Filter:             ingest.IndexFilter(indices),
			Label:              labeler,
			CategoryNames:      categoryNames,
			ResizeWidth:        ImageSize,
			ResizeHeight:       ImageSize,
			ResizeWhileLoading: opts.ResizeWhileLoading,
		})
		if err != nil {
			return summaries, err
		}
		if collection.Len() != len(indices) {
			return summaries, errors.Errorf("%s split lists %d images, but only %d were found in %q",
				split.Name, len(indices), collection.Len(), imagesDir)
		}
		path := filepath.Join(opts.OutputDir, split.Name+opts.Extension)
		summary, err := ingest.WriteSplit(opts.Writer, path, split.Name, collection, vocabulary.Len())
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
