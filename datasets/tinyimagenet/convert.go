// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package tinyimagenet

import (
	"path/filepath"
	"slices"

	"github.com/ml-data-kit/mldatakit/pkg/container"
	"github.com/ml-data-kit/mldatakit/pkg/ingest"
	"github.com/pkg/errors"
)

// Options for Convert.
type Options struct {
	// DataDir holds the extracted "tiny-imagenet-200" directory.
	DataDir string

	// OutputDir where the containers are written.
	OutputDir string

	// Extension of the container files, e.g. ".h5" or ".arrow". Defaults to ".h5".
	Extension string

	// Writer of the containers. Defaults to a writer with container.DefaultCompressionLevel.
	Writer *container.Writer

	// Splits to convert. If empty, all of them.
	Splits []string
}

// LoadSplit loads the images of one split, with their wnids and label names.
func LoadSplit(baseDir, split string, labels *Labels, words map[string]string) (*ingest.Collection, error) {
	membership, err := labels.Membership(split)
	if err != nil {
		return nil, err
	}
	return ingest.LoadSplit(filepath.Join(baseDir, split), ingest.Options{
		Split:           split,
		Filter:          ingest.ExtensionFilter(ingest.ImageExtensions...),
		Label:           ingest.MembershipLabeler(membership, labels.Vocabulary),
		WithCategoryIDs: true,
		CategoryNames:   words,
	})
}

// Convert the validation split and then the train split (or the selected ones) to
// containers in opts.OutputDir, named after the split.
func Convert(opts Options) ([]ingest.SplitSummary, error) {
	if opts.Extension == "" {
		opts.Extension = ".h5"
	}
	if opts.Writer == nil {
		opts.Writer = container.NewWriter(container.DefaultCompressionLevel)
	}
	for _, split := range opts.Splits {
		if !slices.Contains(Splits, split) {
			return nil, errors.Errorf("unknown split %q for Tiny ImageNet, valid splits are %q", split, Splits)
		}
	}

	baseDir := filepath.Join(opts.DataDir, BaseDir)
	labels, err := LoadLabels(baseDir)
	if err != nil {
		return nil, err
	}
	words, err := LoadWords(filepath.Join(baseDir, WordsFile))
	if err != nil {
		return nil, err
	}

	var summaries []ingest.SplitSummary
	for _, split := range Splits {
		if len(opts.Splits) > 0 && !slices.Contains(opts.Splits, split) {
			continue
		}
		collection, err := LoadSplit(baseDir, split, labels, words)
		if err != nil {
			return summaries, err
		}
		path := filepath.Join(opts.OutputDir, split+opts.Extension)
		summary, err := ingest.WriteSplit(opts.Writer, path, split, collection, labels.Vocabulary.Len())
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
