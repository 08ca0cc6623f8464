// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ml-data-kit/mldatakit/pkg/container"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SplitSummary describes one written split container.
type SplitSummary struct {
	Split      string
	Path       string
	Rows       int
	Categories int

	// ImageShape is the shape of each image, empty if the split has no rows.
	ImageShape []int

	// Bytes is the size of the written container file.
	Bytes   int64
	Elapsed time.Duration
}

// WriteSplit writes the collection's fields to path using w, and returns the summary of
// the written file. numCategories is only reported, not checked.
func WriteSplit(w *container.Writer, path, split string, c *Collection, numCategories int) (SplitSummary, error) {
	start := time.Now()
	summary := SplitSummary{Split: split, Path: path, Rows: c.Len(), Categories: numCategories}
	fields, err := c.Fields()
	if err != nil {
		return summary, errors.WithMessagef(err, "assembling %s split", split)
	}
	if c.Len() > 0 {
		summary.ImageShape = c.Images[0].Shape()
	}
	klog.Infof("Creating %s ...", path)
	if err = w.Write(path, fields...); err != nil {
		return summary, errors.WithMessagef(err, "writing %s split", split)
	}
	info, err := os.Stat(path)
	if err != nil {
		return summary, errors.Wrapf(err, "failed to stat written container %q", path)
	}
	summary.Bytes = info.Size()
	summary.Elapsed = time.Since(start)
	klog.Infof("Wrote %d %s rows to %s (%s)", summary.Rows, split, path, humanize.IBytes(uint64(summary.Bytes)))
	return summary, nil
}
