// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package tinyimagenet downloads the "Tiny ImageNet 200" dataset and converts its train
// and validation splits to one container file each.
//
// Each container holds the datasets "x" (uint8 images shaped [N, 64, 64, 3]), "y"
// (int32 labels), "image_names", "wnids" (the WordNet id of each image's category) and
// "label_names" (the words describing the category).
//
// Labels are the position of the wnid in the sorted list of all wnids found in
// the train and validation annotations.
package tinyimagenet

import (
	"os"
	"path/filepath"

	"github.com/ml-data-kit/mldatakit/pkg/downloader"
	"github.com/pkg/errors"
)

// DefaultURL of the dataset archive.
const DefaultURL = "http://cs231n.stanford.edu/tiny-imagenet-200.zip"

// Layout of the dataset, relative to the data directory.
const (
	Archive        = "tiny-imagenet-200.zip"
	BaseDir        = "tiny-imagenet-200"
	TrainDir       = "train"
	ValDir         = "val"
	WordsFile      = "words.txt"
	ValAnnotations = "val_annotations.txt"
)

// Split names, which are also the output file names.
const (
	SplitTrain = "train"
	SplitVal   = "val"
)

// Splits in the order they are converted.
var Splits = []string{SplitVal, SplitTrain}

// Download the dataset archive to dataDir and extract it, unless the extracted directory
// is already there.
func Download(fetcher *downloader.Fetcher, url, dataDir string) error {
	if url == "" {
		url = DefaultURL
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create data directory %q", dataDir)
	}
	err := fetcher.EnsureDatasetPresent(filepath.Join(dataDir, BaseDir), url, filepath.Join(dataDir, Archive), dataDir)
	return errors.WithMessage(err, "Tiny ImageNet 200")
}
