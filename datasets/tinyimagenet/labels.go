// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package tinyimagenet

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ml-data-kit/mldatakit/pkg/ingest"
	"github.com/pkg/errors"
)

// maxLineSize is the longest line accepted in the annotation files.
const maxLineSize = 1 << 20

// parseTSVFile iterates over the lines of a tab-separated file, calling perRowFn with the
// cells of each line. Lines may have any number of cells, quotes are not special and
// empty lines are skipped.
func parseTSVFile(filePath string, perRowFn func(row []string) error) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %q", filePath)
	}
	defer func() { _ = f.Close() }()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err = perRowFn(strings.Split(line, "\t")); err != nil {
			return errors.WithMessagef(err, "line %d of file %q", lineNum, filePath)
		}
	}
	return errors.Wrapf(scanner.Err(), "while reading %q", filePath)
}

// LoadWords parses words.txt ("wnid<TAB>words" per line) into a map from wnid to words.
func LoadWords(filePath string) (map[string]string, error) {
	words := make(map[string]string)
	err := parseTSVFile(filePath, func(row []string) error {
		if len(row) < 2 {
			return errors.Errorf("expected 2 columns, got %q", row)
		}
		words[row[0]] = row[1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

// LoadTrainMembership maps each training image to its wnid: every ".txt" file under trainDir
// lists image names in its first column, and the wnid is the name of the directory holding it.
func LoadTrainMembership(trainDir string) (ingest.Membership, error) {
	membership := make(ingest.Membership)
	err := filepath.WalkDir(trainDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		wnid := filepath.Base(filepath.Dir(path))
		return parseTSVFile(path, func(row []string) error {
			membership[row[0]] = wnid
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load training annotations from %q", trainDir)
	}
	return membership, nil
}

// LoadValMembership parses val_annotations.txt ("image<TAB>wnid<TAB>..." per line).
// Extra columns (the bounding boxes) are ignored.
func LoadValMembership(filePath string) (ingest.Membership, error) {
	membership := make(ingest.Membership)
	err := parseTSVFile(filePath, func(row []string) error {
		if len(row) < 2 {
			return errors.Errorf("expected at least 2 columns, got %q", row)
		}
		membership[row[0]] = row[1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Labels of the dataset: the membership of each split and the vocabulary of all wnids.
type Labels struct {
	Train, Val ingest.Membership
	Vocabulary *ingest.Vocabulary
}

// Membership returns the membership of the split.
func (l *Labels) Membership(split string) (ingest.Membership, error) {
	switch split {
	case SplitTrain:
		return l.Train, nil
	case SplitVal:
		return l.Val, nil
	}
	return nil, errors.Errorf("unknown split %q for Tiny ImageNet", split)
}

// LoadLabels loads both memberships from the extracted dataset in baseDir (the
// "tiny-imagenet-200" directory), and builds the vocabulary from the union of their wnids.
func LoadLabels(baseDir string) (*Labels, error) {
	train, err := LoadTrainMembership(filepath.Join(baseDir, TrainDir))
	if err != nil {
		return nil, err
	}
	val, err := LoadValMembership(filepath.Join(baseDir, ValDir, ValAnnotations))
	if err != nil {
		return nil, err
	}
	return &Labels{Train: train, Val: val, Vocabulary: ingest.VocabularyFromMemberships(train, val)}, nil
}
